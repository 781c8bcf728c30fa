package utils

import "strings"

// Profile fields a spreadsheet column can map onto.
const (
	FieldUserID          = "userId"
	FieldName            = "name"
	FieldRole            = "role"
	FieldCurrentPosition = "currentPosition"
	FieldLocation        = "location"
	FieldNeighborhood    = "neighborhood"
	FieldBio             = "bio"
	FieldImageURL        = "imageUrl"
	FieldEmail           = "email"
	FieldOpenForSwap     = "openForSwap"
	FieldInterests       = "interests"
)

// profileHeaderAliases maps normalized legacy sheet headers to profile fields.
var profileHeaderAliases = map[string]string{
	"matricula":            FieldUserID,
	"userid":               FieldUserID,
	"name":                 FieldName,
	"nome":                 FieldName,
	"cargo":                FieldRole,
	"role":                 FieldRole,
	"currentposition":      FieldCurrentPosition,
	"vinculacaocasncatual": FieldCurrentPosition,
	"location":             FieldLocation,
	"lotacao":              FieldLocation,
	"bairro":               FieldNeighborhood,
	"neighborhood":         FieldNeighborhood,
	"bio":                  FieldBio,
	"imageurl":             FieldImageURL,
	"fotoperfil":           FieldImageURL,
	"email":                FieldEmail,
	"disponivelparatroca":  FieldOpenForSwap,
	"openforswap":          FieldOpenForSwap,
	"areadeinteresse":      FieldInterests,
	"interests":            FieldInterests,
}

var accentFolder = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "ô", "o", "õ", "o",
	"ú", "u", "ü", "u",
	"ç", "c",
)

// NormalizeHeader lowercases, folds Portuguese accents and keeps only [a-z0-9].
func NormalizeHeader(h string) string {
	h = accentFolder.Replace(strings.ToLower(strings.TrimSpace(h)))
	var b strings.Builder
	for _, r := range h {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ResolveProfileColumns maps each known field to its column index. The first
// column wins when two headers alias the same field; unknown headers are ignored.
func ResolveProfileColumns(headers []string) map[string]int {
	cols := map[string]int{}
	for i, h := range headers {
		field, ok := profileHeaderAliases[NormalizeHeader(h)]
		if !ok {
			continue
		}
		if _, dup := cols[field]; !dup {
			cols[field] = i
		}
	}
	return cols
}

// ParseSheetBool accepts TRUE and VERDADEIRO in any case.
func ParseSheetBool(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRUE", "VERDADEIRO":
		return true
	}
	return false
}
