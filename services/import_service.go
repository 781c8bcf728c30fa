package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"movimenta_server/models"
	"movimenta_server/store"
	"movimenta_server/utils"
)

// ImportService provisions profiles from a CSV export of the legacy user sheet.
type ImportService struct {
	Store store.Store
}

func NewImportService(st store.Store) *ImportService {
	return &ImportService{Store: st}
}

// ImportProfiles upserts one profile per data row in a single transaction and
// returns the number of rows written. Columns absent from the file keep the
// stored values of existing profiles.
func (is *ImportService) ImportProfiles(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return 0, invalid("empty file")
	}
	if err != nil {
		return 0, invalid("read header: %v", err)
	}
	cols := utils.ResolveProfileColumns(headers)
	if _, ok := cols[utils.FieldUserID]; !ok {
		return 0, invalid("missing matricula column")
	}

	var records [][]string
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, invalid("read row %d: %v", len(records)+2, err)
		}
		records = append(records, rec)
	}

	written := 0
	err = is.Store.RunInTransaction(ctx, func(tx store.Tx) error {
		for i, rec := range records {
			id := cell(rec, cols, utils.FieldUserID)
			if id == "" {
				continue
			}
			if !models.ValidUserID(id) {
				return invalid("row %d: user id %q may not contain %q", i+2, id, models.KeySeparator)
			}
			profile, err := tx.Profiles().Find(ctx, id)
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				return err
			}
			profile.UserID = id
			applyColumns(&profile, rec, cols)
			if err := tx.Profiles().Upsert(ctx, profile); err != nil {
				return fmt.Errorf("row %d: %w", i+2, err)
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

func cell(rec []string, cols map[string]int, field string) string {
	i, ok := cols[field]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func applyColumns(p *models.UserProfile, rec []string, cols map[string]int) {
	set := func(field string, dst *string) {
		if _, ok := cols[field]; ok {
			*dst = cell(rec, cols, field)
		}
	}
	set(utils.FieldName, &p.Name)
	set(utils.FieldRole, &p.Role)
	set(utils.FieldCurrentPosition, &p.CurrentPosition)
	set(utils.FieldLocation, &p.Location)
	set(utils.FieldNeighborhood, &p.Neighborhood)
	set(utils.FieldBio, &p.Bio)
	set(utils.FieldImageURL, &p.ImageURL)
	set(utils.FieldEmail, &p.Email)
	if _, ok := cols[utils.FieldInterests]; ok {
		p.Interests = normalizeInterests(cell(rec, cols, utils.FieldInterests))
	}
	if _, ok := cols[utils.FieldOpenForSwap]; ok {
		p.OpenForSwap = utils.ParseSheetBool(cell(rec, cols, utils.FieldOpenForSwap))
	}
}
