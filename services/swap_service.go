package services

import (
	"context"
	"errors"
	"time"

	"movimenta_server/models"
	"movimenta_server/store"
)

// SwapService handles swipes, undo and confirmation.
type SwapService struct {
	Store    store.Store
	Notifier Notifier
	Now      func() time.Time
}

func NewSwapService(st store.Store, notifier Notifier) *SwapService {
	return &SwapService{Store: st, Notifier: orNop(notifier), Now: time.Now}
}

// Swipe appends the interaction and, for a like answering an earlier like,
// makes sure the pairing exists. paired is true whenever such a pairing exists.
func (ss *SwapService) Swipe(ctx context.Context, actorID, targetID, rawDirection string) (paired bool, err error) {
	direction, err := models.ParseDirection(rawDirection)
	if err != nil {
		return false, invalid("%v", err)
	}
	if actorID == targetID {
		return false, invalid("cannot swipe on yourself")
	}

	var created *models.Pairing
	err = ss.Store.RunInTransaction(ctx, func(tx store.Tx) error {
		if _, err := tx.Profiles().Find(ctx, actorID); err != nil {
			return notFound(err, "user %s", actorID)
		}
		if _, err := tx.Profiles().Find(ctx, targetID); err != nil {
			return notFound(err, "user %s", targetID)
		}

		now := ss.Now().UTC()
		if _, err := tx.Interactions().Append(ctx, models.Interaction{
			ActorID:   actorID,
			TargetID:  targetID,
			Direction: direction,
			Timestamp: now,
		}); err != nil {
			return err
		}
		if !direction.Positive() {
			return nil
		}

		theirs, err := tx.Interactions().ByActor(ctx, targetID)
		if err != nil {
			return err
		}
		reciprocated := false
		for _, in := range theirs {
			if in.Reciprocates(actorID, targetID) {
				reciprocated = true
				break
			}
		}
		if !reciprocated {
			return nil
		}

		paired = true
		_, err = tx.Pairings().Find(ctx, models.PairKey(actorID, targetID))
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		pairing := models.NewPairing(actorID, targetID, now)
		if err := tx.Pairings().Upsert(ctx, pairing); err != nil {
			return err
		}
		created = &pairing
		return nil
	})
	if err != nil {
		return false, err
	}

	swipesTotal.WithLabelValues(string(direction)).Inc()
	if created != nil {
		pairingsCreatedTotal.Inc()
		ss.Notifier.PairingCreated(ctx, *created)
	}
	return paired, nil
}

// Undo deletes the actor's latest swipe. Retracting a like also removes the
// pairing it may have produced, whatever its state; availability is left as is.
func (ss *SwapService) Undo(ctx context.Context, actorID string) error {
	err := ss.Store.RunInTransaction(ctx, func(tx store.Tx) error {
		rows, err := tx.Interactions().ByActor(ctx, actorID)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return ErrNothingToUndo
		}
		last := rows[0]
		for _, in := range rows[1:] {
			if in.Seq > last.Seq {
				last = in
			}
		}

		if _, err := tx.Interactions().DeleteWhere(ctx, func(in models.Interaction) bool {
			return in.ActorID == last.ActorID && in.Seq == last.Seq
		}); err != nil {
			return err
		}
		if !last.Direction.Positive() {
			return nil
		}
		key := models.PairKey(actorID, last.TargetID)
		_, err = tx.Pairings().DeleteWhere(ctx, func(p models.Pairing) bool { return p.ID == key })
		return err
	})
	if err != nil {
		return err
	}
	undoTotal.Inc()
	return nil
}

// Confirm records userID's agreement to the pairing with partnerID and takes
// userID out of the candidate pool. The pairing becomes confirmed exactly once,
// when the second side agrees.
func (ss *SwapService) Confirm(ctx context.Context, userID, partnerID string) error {
	var escalated *models.Pairing
	err := ss.Store.RunInTransaction(ctx, func(tx store.Tx) error {
		pairing, err := tx.Pairings().Find(ctx, models.PairKey(userID, partnerID))
		if err != nil {
			return notFound(err, "pairing between %s and %s", userID, partnerID)
		}
		profile, err := tx.Profiles().Find(ctx, userID)
		if err != nil {
			return notFound(err, "user %s", userID)
		}

		transitioned, err := pairing.Confirm(userID)
		if err != nil {
			return invalid("%v", err)
		}
		if err := tx.Pairings().Upsert(ctx, pairing); err != nil {
			return err
		}
		profile.OpenForSwap = false
		if err := tx.Profiles().Upsert(ctx, profile); err != nil {
			return err
		}
		if transitioned {
			escalated = &pairing
		}
		return nil
	})
	if err != nil {
		return err
	}
	if escalated != nil {
		swapsConfirmedTotal.Inc()
		ss.Notifier.SwapConfirmed(ctx, *escalated)
	}
	return nil
}
