package postgres

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movimenta_server/models"
	"movimenta_server/store"
)

func TestNewStoreReportsOpenError(t *testing.T) {
	orig := sqlOpen
	t.Cleanup(func() { sqlOpen = orig })
	sqlOpen = func(string, string) (*sql.DB, error) { return nil, errors.New("no driver") }

	_, err := NewStore(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open postgres")
}

func TestStoreRoundTrip(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := NewStore(ctx, dsn)
	require.NoError(t, err)
	_, err = s.DB().ExecContext(ctx, `DELETE FROM swap_state`)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewStore(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, s.RunInTransaction(ctx, func(tx store.Tx) error {
		return tx.Profiles().Upsert(ctx, models.UserProfile{UserID: "1", Name: "Ana"})
	}))
	require.NoError(t, s.Close())

	s, err = NewStore(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	snap := s.ExportState()
	require.Len(t, snap.Profiles, 1)
	assert.Equal(t, "Ana", snap.Profiles[0].Name)
}
