// Package store defines the tabular system of record behind the swap engine.
// Services depend only on these interfaces; backends live in subpackages.
package store

import (
	"context"
	"errors"

	"movimenta_server/models"
)

var (
	// ErrNotFound is returned by Find when no row matches the key.
	ErrNotFound = errors.New("row not found")
	// ErrReadOnly is returned by write methods called inside View.
	ErrReadOnly = errors.New("write attempted in read-only view")
)

// Store runs units of work against the tables.
type Store interface {
	// View runs fn against a consistent read-only snapshot.
	View(ctx context.Context, fn func(tx Tx) error) error
	// RunInTransaction runs fn with exclusive write access. Writes made by fn are
	// visible to later reads inside fn.
	RunInTransaction(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}

// Tx exposes the tables inside a unit of work.
type Tx interface {
	Profiles() ProfileTable
	Interactions() InteractionLog
	Pairings() PairingTable
	Messages() MessageLog
}

// ProfileTable is keyed by user id. All returns rows in stable store order.
type ProfileTable interface {
	Find(ctx context.Context, userID string) (models.UserProfile, error)
	All(ctx context.Context) ([]models.UserProfile, error)
	Upsert(ctx context.Context, p models.UserProfile) error
}

// InteractionLog is append-only apart from row deletes. Reads return log order.
type InteractionLog interface {
	// Append assigns the next sequence number and returns the stored row.
	Append(ctx context.Context, in models.Interaction) (models.Interaction, error)
	All(ctx context.Context) ([]models.Interaction, error)
	ByActor(ctx context.Context, actorID string) ([]models.Interaction, error)
	DeleteWhere(ctx context.Context, match func(models.Interaction) bool) (int, error)
}

// PairingTable is keyed by the sorted pair id.
type PairingTable interface {
	Find(ctx context.Context, id string) (models.Pairing, error)
	All(ctx context.Context) ([]models.Pairing, error)
	Upsert(ctx context.Context, p models.Pairing) error
	DeleteWhere(ctx context.Context, match func(models.Pairing) bool) (int, error)
}

// MessageLog stores chat lines per pair key.
type MessageLog interface {
	Append(ctx context.Context, m models.Message) (models.Message, error)
	ByChat(ctx context.Context, chatID string) ([]models.Message, error)
}
