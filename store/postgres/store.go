// Package postgres persists the in-memory store to Postgres as one JSONB payload
// per table, rewritten on every committed transaction.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"movimenta_server/store"
	"movimenta_server/store/memory"
)

var _ store.Store = (*Store)(nil)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/movimenta?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store is a memory.Store whose commits are written through to Postgres.
type Store struct {
	*memory.Store
	db *sql.DB
}

// NewStore connects, ensures the state table exists and hydrates the working set.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS swap_state (
		bucket TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure state table: %w", err)
	}
	s := &Store{db: db}
	s.Store = memory.NewStore(memory.WithCommitHook(s.persist))
	snap, err := loadSnapshot(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.ImportState(snap)
	return s, nil
}

func loadSnapshot(ctx context.Context, db *sql.DB) (store.Snapshot, error) {
	rows, err := db.QueryContext(ctx, `SELECT bucket, payload FROM swap_state`)
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	payloads := map[string][]byte{}
	for rows.Next() {
		var (
			bucket  string
			payload []byte
		)
		if err := rows.Scan(&bucket, &payload); err != nil {
			return store.Snapshot{}, fmt.Errorf("scan state: %w", err)
		}
		payloads[bucket] = payload
	}
	if err := rows.Err(); err != nil {
		return store.Snapshot{}, fmt.Errorf("iterate state: %w", err)
	}
	return store.DecodeBuckets(payloads)
}

func (s *Store) persist(ctx context.Context, snap store.Snapshot) (retErr error) {
	payloads, err := store.EncodeBuckets(snap)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, bucket := range store.Buckets {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO swap_state (bucket, payload) VALUES ($1, $2)
			ON CONFLICT (bucket) DO UPDATE SET payload = EXCLUDED.payload`,
			bucket, payloads[bucket]); err != nil {
			return fmt.Errorf("upsert %s: %w", bucket, err)
		}
	}
	return tx.Commit()
}

// Close closes the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }
