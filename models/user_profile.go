package models

import (
	"strings"
)

// UserProfile is an employee record. UserID is the registration number and never changes.
type UserProfile struct {
	UserID          string `dynamodbav:"userId" json:"userId"`                             // Partition Key
	Name            string `dynamodbav:"name,omitempty" json:"name"`                       // Display name
	Role            string `dynamodbav:"role,omitempty" json:"role"`                       // Job title, matched exactly
	CurrentPosition string `dynamodbav:"currentPosition,omitempty" json:"currentPosition"` // Current assignment
	Location        string `dynamodbav:"location,omitempty" json:"location"`               // Work unit
	Neighborhood    string `dynamodbav:"neighborhood,omitempty" json:"neighborhood"`       // Neighborhood of the work unit
	Bio             string `dynamodbav:"bio,omitempty" json:"bio"`                         // Free text
	ImageURL        string `dynamodbav:"imageUrl,omitempty" json:"imageUrl"`               // Avatar reference (opaque)
	Email           string `dynamodbav:"email,omitempty" json:"email"`                     // Contact email
	OpenForSwap     bool   `dynamodbav:"openForSwap" json:"openForSwap"`                   // Shown to other users as a candidate
	Interests       string `dynamodbav:"interests,omitempty" json:"interests"`             // Comma-joined neighborhoods of interest
	Locked          bool   `dynamodbav:"-" json:"isLocked"`                                // Derived, never stored
}

// InterestSet splits the comma-joined interests, dropping empty entries.
func (p UserProfile) InterestSet() []string {
	if p.Interests == "" {
		return nil
	}
	parts := strings.Split(p.Interests, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsInterestedIn reports whether neighborhood is one of the profile's interests.
func (p UserProfile) IsInterestedIn(neighborhood string) bool {
	if neighborhood == "" {
		return false
	}
	for _, n := range p.InterestSet() {
		if n == neighborhood {
			return true
		}
	}
	return false
}

// SwapPositionWith exchanges the swappable attributes of two profiles.
func (p *UserProfile) SwapPositionWith(other *UserProfile) {
	p.CurrentPosition, other.CurrentPosition = other.CurrentPosition, p.CurrentPosition
	p.Location, other.Location = other.Location, p.Location
	p.Neighborhood, other.Neighborhood = other.Neighborhood, p.Neighborhood
}

// ValidUserID rejects empty ids and ids containing the key separator.
func ValidUserID(id string) bool {
	return strings.TrimSpace(id) != "" && !strings.Contains(id, KeySeparator)
}
