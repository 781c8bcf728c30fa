package services

import (
	"context"
	"fmt"
	"strings"

	"movimenta_server/models"
	"movimenta_server/store"
)

// ProfileService reads and edits a user's own profile.
type ProfileService struct {
	Store store.Store
}

func NewProfileService(st store.Store) *ProfileService {
	return &ProfileService{Store: st}
}

// Get returns the profile with its lock state.
func (ps *ProfileService) Get(ctx context.Context, userID string) (models.UserProfile, error) {
	var out models.UserProfile
	err := ps.Store.View(ctx, func(tx store.Tx) error {
		profile, err := tx.Profiles().Find(ctx, userID)
		if err != nil {
			return notFound(err, "user %s", userID)
		}
		pairings, err := tx.Pairings().All(ctx)
		if err != nil {
			return err
		}
		out = withLock(profile, lockedUsers(pairings))
		return nil
	})
	return out, err
}

// Update replaces every editable field of userID's profile. It fails with
// ErrConflict while a pending swap holds the profile.
func (ps *ProfileService) Update(ctx context.Context, userID string, in models.UserProfile) (models.UserProfile, error) {
	if in.UserID != "" && in.UserID != userID {
		return models.UserProfile{}, invalid("userId cannot be changed")
	}
	in.UserID = userID
	in.Interests = normalizeInterests(in.Interests)

	err := ps.Store.RunInTransaction(ctx, func(tx store.Tx) error {
		if _, err := tx.Profiles().Find(ctx, userID); err != nil {
			return notFound(err, "user %s", userID)
		}
		pairings, err := tx.Pairings().All(ctx)
		if err != nil {
			return err
		}
		if lockedUsers(pairings)[userID] {
			return fmt.Errorf("%w: profile %s is locked by a swap awaiting its partner", ErrConflict, userID)
		}
		return tx.Profiles().Upsert(ctx, in)
	})
	if err != nil {
		return models.UserProfile{}, err
	}
	in.Locked = false
	return in, nil
}

// normalizeInterests trims entries and drops blanks and duplicates.
func normalizeInterests(s string) string {
	seen := map[string]bool{}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" || seen[part] {
			continue
		}
		seen[part] = true
		out = append(out, part)
	}
	return strings.Join(out, ",")
}
