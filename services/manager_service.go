package services

import (
	"context"

	"movimenta_server/models"
	"movimenta_server/store"
)

// ManagerService lists swaps awaiting a decision and executes the decision.
type ManagerService struct {
	Store    store.Store
	Notifier Notifier
}

func NewManagerService(st store.Store, notifier Notifier) *ManagerService {
	return &ManagerService{Store: st, Notifier: orNop(notifier)}
}

// ListConfirmed returns every confirmed pairing whose parties both still exist.
func (ms *ManagerService) ListConfirmed(ctx context.Context) ([]models.ConfirmedSwap, error) {
	out := []models.ConfirmedSwap{}
	err := ms.Store.View(ctx, func(tx store.Tx) error {
		pairings, err := tx.Pairings().All(ctx)
		if err != nil {
			return err
		}
		profiles, err := tx.Profiles().All(ctx)
		if err != nil {
			return err
		}
		locked := lockedUsers(pairings)
		index := make(map[string]models.UserProfile, len(profiles))
		for _, p := range profiles {
			index[p.UserID] = withLock(p, locked)
		}
		for _, p := range pairings {
			if p.Status != models.StatusConfirmed {
				continue
			}
			u1, ok1 := index[p.User1]
			u2, ok2 := index[p.User2]
			if !ok1 || !ok2 {
				continue
			}
			out = append(out, models.ConfirmedSwap{ID: p.ID, User1: u1, User2: u2})
		}
		return nil
	})
	return out, err
}

// loadParties resolves a pairing and both profiles before anything is written.
func loadParties(ctx context.Context, tx store.Tx, pairingID string) (models.Pairing, models.UserProfile, models.UserProfile, error) {
	var a, b models.UserProfile
	pairing, err := tx.Pairings().Find(ctx, pairingID)
	if err != nil {
		return pairing, a, b, notFound(err, "pairing %s", pairingID)
	}
	if a, err = tx.Profiles().Find(ctx, pairing.User1); err != nil {
		return pairing, a, b, notFound(err, "user %s", pairing.User1)
	}
	if b, err = tx.Profiles().Find(ctx, pairing.User2); err != nil {
		return pairing, a, b, notFound(err, "user %s", pairing.User2)
	}
	return pairing, a, b, nil
}

func touches(in models.Interaction, a, b string) bool {
	return in.ActorID == a || in.ActorID == b || in.TargetID == a || in.TargetID == b
}

// Approve executes the swap: positions are exchanged, every pairing involving
// either party is dropped and both interaction histories are cleared.
func (ms *ManagerService) Approve(ctx context.Context, pairingID string) error {
	var approved models.Pairing
	err := ms.Store.RunInTransaction(ctx, func(tx store.Tx) error {
		pairing, a, b, err := loadParties(ctx, tx, pairingID)
		if err != nil {
			return err
		}
		if err := pairing.Complete(); err != nil {
			return invalid("%v", err)
		}

		a.SwapPositionWith(&b)
		if err := tx.Profiles().Upsert(ctx, a); err != nil {
			return err
		}
		if err := tx.Profiles().Upsert(ctx, b); err != nil {
			return err
		}
		if _, err := tx.Pairings().DeleteWhere(ctx, func(p models.Pairing) bool {
			return p.Involves(a.UserID) || p.Involves(b.UserID)
		}); err != nil {
			return err
		}
		if _, err := tx.Interactions().DeleteWhere(ctx, func(in models.Interaction) bool {
			return touches(in, a.UserID, b.UserID)
		}); err != nil {
			return err
		}
		approved = pairing
		return nil
	})
	if err != nil {
		return err
	}
	managerDecisionsTotal.WithLabelValues("approve").Inc()
	ms.Notifier.SwapApproved(ctx, approved)
	return nil
}

// Reject cancels the swap, returns both parties to the pool and clears their likes.
func (ms *ManagerService) Reject(ctx context.Context, pairingID string) error {
	var rejected models.Pairing
	err := ms.Store.RunInTransaction(ctx, func(tx store.Tx) error {
		pairing, a, b, err := loadParties(ctx, tx, pairingID)
		if err != nil {
			return err
		}
		if err := pairing.CanReject(); err != nil {
			return invalid("%v", err)
		}

		if _, err := tx.Pairings().DeleteWhere(ctx, func(p models.Pairing) bool { return p.ID == pairing.ID }); err != nil {
			return err
		}
		a.OpenForSwap, b.OpenForSwap = true, true
		if err := tx.Profiles().Upsert(ctx, a); err != nil {
			return err
		}
		if err := tx.Profiles().Upsert(ctx, b); err != nil {
			return err
		}
		if _, err := tx.Interactions().DeleteWhere(ctx, func(in models.Interaction) bool {
			return in.Direction.Positive() && touches(in, a.UserID, b.UserID)
		}); err != nil {
			return err
		}
		rejected = pairing
		return nil
	})
	if err != nil {
		return err
	}
	managerDecisionsTotal.WithLabelValues("reject").Inc()
	ms.Notifier.SwapRejected(ctx, rejected)
	return nil
}
