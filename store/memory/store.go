// Package memory provides an in-memory implementation of store.Store used for tests,
// local runs and as the working set of the snapshotting SQL backends.
package memory

import (
	"context"
	"fmt"
	"sync"

	"movimenta_server/models"
	"movimenta_server/store"
)

var _ store.Store = (*Store)(nil)

// CommitHook receives the state a transaction is about to commit. Returning an
// error aborts the commit and leaves the store unchanged.
type CommitHook func(ctx context.Context, snapshot store.Snapshot) error

// Option configures a Store.
type Option func(*Store)

// WithCommitHook installs a hook run under the write lock before each commit.
func WithCommitHook(hook CommitHook) Option {
	return func(s *Store) { s.hook = hook }
}

// Store keeps every table in memory. Writers work on a clone that replaces the
// live state only when the transaction succeeds.
type Store struct {
	mu    sync.RWMutex
	state state
	hook  CommitHook
}

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{state: newState()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// View runs fn against the live state under a read lock.
func (s *Store) View(ctx context.Context, fn func(tx store.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&tx{st: &s.state, readOnly: true})
}

// RunInTransaction runs fn on a private copy and swaps it in on success.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx store.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.state.clone()
	if err := fn(&tx{st: &working}); err != nil {
		return err
	}
	if s.hook != nil {
		if err := s.hook(ctx, working.snapshot()); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
	}
	s.state = working
	return nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

// ExportState returns a deep copy of every table.
func (s *Store) ExportState() store.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.snapshot()
}

// ImportState replaces the store contents.
func (s *Store) ImportState(snap store.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = stateFromSnapshot(snap)
}

type state struct {
	profiles     []models.UserProfile
	profileIdx   map[string]int
	interactions []models.Interaction
	pairings     []models.Pairing
	pairingIdx   map[string]int
	messages     []models.Message
	nextSeq      int64
}

func newState() state {
	return state{
		profileIdx: make(map[string]int),
		pairingIdx: make(map[string]int),
	}
}

func (s state) clone() state {
	out := state{
		profiles:     append([]models.UserProfile(nil), s.profiles...),
		profileIdx:   make(map[string]int, len(s.profileIdx)),
		interactions: append([]models.Interaction(nil), s.interactions...),
		pairings:     append([]models.Pairing(nil), s.pairings...),
		pairingIdx:   make(map[string]int, len(s.pairingIdx)),
		messages:     append([]models.Message(nil), s.messages...),
		nextSeq:      s.nextSeq,
	}
	for k, v := range s.profileIdx {
		out.profileIdx[k] = v
	}
	for k, v := range s.pairingIdx {
		out.pairingIdx[k] = v
	}
	return out
}

func (s state) snapshot() store.Snapshot {
	c := s.clone()
	return store.Snapshot{
		Profiles:     c.profiles,
		Interactions: c.interactions,
		Pairings:     c.pairings,
		Messages:     c.messages,
		NextSeq:      c.nextSeq,
	}
}

func stateFromSnapshot(snap store.Snapshot) state {
	st := newState()
	for _, p := range snap.Profiles {
		p.Locked = false
		st.profileIdx[p.UserID] = len(st.profiles)
		st.profiles = append(st.profiles, p)
	}
	st.interactions = append(st.interactions, snap.Interactions...)
	for _, p := range snap.Pairings {
		st.pairingIdx[p.ID] = len(st.pairings)
		st.pairings = append(st.pairings, p)
	}
	st.messages = append(st.messages, snap.Messages...)
	st.nextSeq = snap.NextSeq
	for _, in := range st.interactions {
		if in.Seq > st.nextSeq {
			st.nextSeq = in.Seq
		}
	}
	for _, m := range st.messages {
		if m.Seq > st.nextSeq {
			st.nextSeq = m.Seq
		}
	}
	return st
}

func (s *state) reindexPairings() {
	s.pairingIdx = make(map[string]int, len(s.pairings))
	for i, p := range s.pairings {
		s.pairingIdx[p.ID] = i
	}
}
