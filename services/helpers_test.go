package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"movimenta_server/models"
	"movimenta_server/store"
	"movimenta_server/store/memory"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingNotifier) add(kind string, p models.Pairing) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, kind+":"+p.ID)
}

func (r *recordingNotifier) PairingCreated(_ context.Context, p models.Pairing) { r.add("created", p) }
func (r *recordingNotifier) SwapConfirmed(_ context.Context, p models.Pairing)  { r.add("confirmed", p) }
func (r *recordingNotifier) SwapApproved(_ context.Context, p models.Pairing)   { r.add("approved", p) }
func (r *recordingNotifier) SwapRejected(_ context.Context, p models.Pairing)   { r.add("rejected", p) }

func (r *recordingNotifier) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func technician(id, neighborhood, interests string) models.UserProfile {
	return models.UserProfile{
		UserID:          id,
		Name:            "User " + id,
		Role:            "Technician",
		CurrentPosition: "Post " + id,
		Location:        "Unit " + id,
		Neighborhood:    neighborhood,
		Interests:       interests,
		OpenForSwap:     true,
	}
}

func seedStore(t *testing.T, profiles ...models.UserProfile) *memory.Store {
	t.Helper()
	st := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, st.RunInTransaction(ctx, func(tx store.Tx) error {
		for _, p := range profiles {
			if err := tx.Profiles().Upsert(ctx, p); err != nil {
				return err
			}
		}
		return nil
	}))
	return st
}

func profileOf(t *testing.T, st store.Store, id string) models.UserProfile {
	t.Helper()
	var out models.UserProfile
	require.NoError(t, st.View(context.Background(), func(tx store.Tx) error {
		var err error
		out, err = tx.Profiles().Find(context.Background(), id)
		return err
	}))
	return out
}

func pairingsOf(t *testing.T, st store.Store) []models.Pairing {
	t.Helper()
	var out []models.Pairing
	require.NoError(t, st.View(context.Background(), func(tx store.Tx) error {
		var err error
		out, err = tx.Pairings().All(context.Background())
		return err
	}))
	return out
}

func interactionsOf(t *testing.T, st store.Store) []models.Interaction {
	t.Helper()
	var out []models.Interaction
	require.NoError(t, st.View(context.Background(), func(tx store.Tx) error {
		var err error
		out, err = tx.Interactions().All(context.Background())
		return err
	}))
	return out
}

var fixedNow = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func newSwapService(st store.Store, n Notifier) *SwapService {
	ss := NewSwapService(st, n)
	ss.Now = func() time.Time { return fixedNow }
	return ss
}

// pairAndConfirm drives a and b to a confirmed pairing.
func pairAndConfirm(t *testing.T, ss *SwapService, a, b string) {
	t.Helper()
	ctx := context.Background()
	_, err := ss.Swipe(ctx, a, b, "right")
	require.NoError(t, err)
	paired, err := ss.Swipe(ctx, b, a, "right")
	require.NoError(t, err)
	require.True(t, paired)
	require.NoError(t, ss.Confirm(ctx, a, b))
	require.NoError(t, ss.Confirm(ctx, b, a))
}
