package services

import (
	"context"
	"fmt"

	"movimenta_server/models"
	"movimenta_server/store"
)

// MatchingService builds candidate queues from one consistent snapshot.
type MatchingService struct {
	Store    store.Store
	PageSize int
}

func NewMatchingService(st store.Store, pageSize int) *MatchingService {
	if pageSize <= 0 {
		pageSize = models.DefaultPageSize
	}
	return &MatchingService{Store: st, PageSize: pageSize}
}

// Candidates returns the peers userID may swipe on next.
func (ms *MatchingService) Candidates(ctx context.Context, userID string) ([]models.UserProfile, error) {
	data, err := ms.InitialData(ctx, userID)
	if err != nil {
		return nil, err
	}
	return data.AvailableUsers, nil
}

// InitialData batches candidates, pairing partners and swipe history. Each table
// is read once.
func (ms *MatchingService) InitialData(ctx context.Context, userID string) (models.InitialData, error) {
	var out models.InitialData
	err := ms.Store.View(ctx, func(tx store.Tx) error {
		profiles, err := tx.Profiles().All(ctx)
		if err != nil {
			return err
		}
		history, err := tx.Interactions().ByActor(ctx, userID)
		if err != nil {
			return err
		}
		pairings, err := tx.Pairings().All(ctx)
		if err != nil {
			return err
		}
		out, err = buildInitialData(userID, profiles, history, pairings, ms.PageSize)
		return err
	})
	return out, err
}

func buildInitialData(
	userID string,
	profiles []models.UserProfile,
	history []models.Interaction,
	pairings []models.Pairing,
	pageSize int,
) (models.InitialData, error) {
	locked := lockedUsers(pairings)
	index := make(map[string]models.UserProfile, len(profiles))
	for _, p := range profiles {
		index[p.UserID] = withLock(p, locked)
	}
	me, ok := index[userID]
	if !ok {
		return models.InitialData{}, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	swiped := make(map[string]bool, len(history))
	out := models.InitialData{
		AvailableUsers: []models.UserProfile{},
		Matches:        []models.UserProfile{},
		SwipeHistory:   []models.SwipeRecord{},
	}
	for _, in := range history {
		swiped[in.TargetID] = true
		if target, ok := index[in.TargetID]; ok {
			out.SwipeHistory = append(out.SwipeHistory, models.SwipeRecord{Profile: target, Direction: in.Direction})
		}
	}

	for _, p := range profiles {
		if len(out.AvailableUsers) >= pageSize {
			break
		}
		if p.UserID == userID || !p.OpenForSwap || swiped[p.UserID] {
			continue
		}
		if p.Role != me.Role || !me.IsInterestedIn(p.Neighborhood) {
			continue
		}
		out.AvailableUsers = append(out.AvailableUsers, index[p.UserID])
	}

	seen := map[string]bool{}
	for _, pairing := range pairings {
		partner, ok := pairing.Partner(userID)
		if !ok || seen[partner] {
			continue
		}
		if profile, ok := index[partner]; ok {
			seen[partner] = true
			out.Matches = append(out.Matches, profile)
		}
	}
	return out, nil
}
