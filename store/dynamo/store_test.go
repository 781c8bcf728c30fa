package dynamo

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movimenta_server/models"
	"movimenta_server/store"
)

func newTestStore(t *testing.T) (*Store, *fakeDynamo) {
	t.Helper()
	fake := newFakeDynamo()
	return NewStore(fake, Tables{}, nil), fake
}

func TestProfilesRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.RunInTransaction(ctx, func(tx store.Tx) error {
		_, err := tx.Profiles().Find(ctx, "9")
		assert.ErrorIs(t, err, store.ErrNotFound)

		for _, id := range []string{"3", "1", "2"} {
			if err := tx.Profiles().Upsert(ctx, models.UserProfile{UserID: id, Name: "user " + id, OpenForSwap: true, Locked: true}); err != nil {
				return err
			}
		}
		return nil
	}))

	require.NoError(t, s.View(ctx, func(tx store.Tx) error {
		p, err := tx.Profiles().Find(ctx, "2")
		require.NoError(t, err)
		assert.Equal(t, "user 2", p.Name)
		assert.True(t, p.OpenForSwap)
		assert.False(t, p.Locked)

		all, err := tx.Profiles().All(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{"1", "2", "3"}, []string{all[0].UserID, all[1].UserID, all[2].UserID})
		return nil
	}))
}

func TestViewRejectsWrites(t *testing.T) {
	ctx := context.Background()
	s, fake := newTestStore(t)

	err := s.View(ctx, func(tx store.Tx) error {
		return tx.Profiles().Upsert(ctx, models.UserProfile{UserID: "1"})
	})
	assert.ErrorIs(t, err, store.ErrReadOnly)
	assert.Zero(t, fake.calls["PutItem"])
}

func TestSequenceSharedAcrossLogs(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	var seqs []int64
	require.NoError(t, s.RunInTransaction(ctx, func(tx store.Tx) error {
		a, err := tx.Interactions().Append(ctx, models.Interaction{ActorID: "1", TargetID: "2", Direction: models.DirectionPositive})
		if err != nil {
			return err
		}
		m, err := tx.Messages().Append(ctx, models.Message{ChatID: "1-2", Sender: "1", Receiver: "2", Text: "oi"})
		if err != nil {
			return err
		}
		b, err := tx.Interactions().Append(ctx, models.Interaction{ActorID: "1", TargetID: "3", Direction: models.DirectionNegative})
		if err != nil {
			return err
		}
		seqs = []int64{a.Seq, m.Seq, b.Seq}
		return nil
	}))
	assert.Equal(t, []int64{1, 2, 3}, seqs)

	require.NoError(t, s.View(ctx, func(tx store.Tx) error {
		rows, err := tx.Interactions().ByActor(ctx, "1")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "2", rows[0].TargetID)
		assert.Equal(t, models.DirectionNegative, rows[1].Direction)

		msgs, err := tx.Messages().ByChat(ctx, "1-2")
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, "oi", msgs[0].Text)
		return nil
	}))
}

func TestDeleteWhereBatchesAndPaginates(t *testing.T) {
	ctx := context.Background()
	s, fake := newTestStore(t)
	fake.scanPage = 7

	require.NoError(t, s.RunInTransaction(ctx, func(tx store.Tx) error {
		for i := 0; i < 60; i++ {
			dir := models.DirectionNegative
			if i%2 == 0 {
				dir = models.DirectionPositive
			}
			if _, err := tx.Interactions().Append(ctx, models.Interaction{ActorID: "1", TargetID: strconv.Itoa(i + 10), Direction: dir}); err != nil {
				return err
			}
		}
		return nil
	}))

	var removed int
	require.NoError(t, s.RunInTransaction(ctx, func(tx store.Tx) error {
		var err error
		removed, err = tx.Interactions().DeleteWhere(ctx, func(in models.Interaction) bool { return in.Direction.Positive() })
		return err
	}))
	assert.Equal(t, 30, removed)
	assert.Equal(t, 2, fake.calls["BatchWriteItem"])

	require.NoError(t, s.View(ctx, func(tx store.Tx) error {
		all, err := tx.Interactions().All(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 30)
		for i := 1; i < len(all); i++ {
			assert.Less(t, all[i-1].Seq, all[i].Seq)
		}
		return nil
	}))
}

func TestPairingsOrderedByCreation(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.RunInTransaction(ctx, func(tx store.Tx) error {
		if err := tx.Pairings().Upsert(ctx, models.NewPairing("5", "6", base.Add(time.Hour))); err != nil {
			return err
		}
		return tx.Pairings().Upsert(ctx, models.NewPairing("2", "1", base))
	}))

	require.NoError(t, s.RunInTransaction(ctx, func(tx store.Tx) error {
		all, err := tx.Pairings().All(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "1-2", all[0].ID)
		assert.Equal(t, "5-6", all[1].ID)

		found, err := tx.Pairings().Find(ctx, "1-2")
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, found.Status)
		assert.True(t, found.CreatedAt.Equal(base))

		n, err := tx.Pairings().DeleteWhere(ctx, func(p models.Pairing) bool { return p.Involves("6") })
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		_, err = tx.Pairings().Find(ctx, "5-6")
		assert.ErrorIs(t, err, store.ErrNotFound)
		return nil
	}))
}

func TestPutFailureSurfaces(t *testing.T) {
	ctx := context.Background()
	s, fake := newTestStore(t)
	fake.putErr = errors.New("throttled")

	err := s.RunInTransaction(ctx, func(tx store.Tx) error {
		return tx.Profiles().Upsert(ctx, models.UserProfile{UserID: "1"})
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s, _ := newTestStore(t)
	assert.ErrorIs(t, s.RunInTransaction(ctx, func(store.Tx) error { return nil }), context.Canceled)
}
