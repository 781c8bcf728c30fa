package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// PairingStatus is the lifecycle state of a Pairing.
type PairingStatus string

var (
	// ErrNotParty is returned when a user acts on a pairing they are not part of.
	ErrNotParty = errors.New("user is not a party to this pairing")
	// ErrInvalidTransition is returned by guarded state changes.
	ErrInvalidTransition = errors.New("invalid pairing transition")
)

// Pairing is a candidate swap between two users who liked each other.
// User1 < User2 always; ID is derived from them.
type Pairing struct {
	ID             string        `dynamodbav:"pairingId" json:"id"` // Partition Key
	User1          string        `dynamodbav:"user1" json:"user1"`
	User2          string        `dynamodbav:"user2" json:"user2"`
	User1Confirmed bool          `dynamodbav:"user1Confirmed" json:"user1_confirmed"`
	User2Confirmed bool          `dynamodbav:"user2Confirmed" json:"user2_confirmed"`
	Status         PairingStatus `dynamodbav:"status" json:"status"`
	CreatedAt      time.Time     `dynamodbav:"createdAt" json:"createdAt"`
}

// SortedPair orders two ids.
func SortedPair(a, b string) (string, string) {
	ids := []string{a, b}
	sort.Strings(ids)
	return ids[0], ids[1]
}

// PairKey is the unordered-pair key shared by pairings and chats.
func PairKey(a, b string) string {
	first, second := SortedPair(a, b)
	return first + KeySeparator + second
}

// SplitPairKey reverses PairKey.
func SplitPairKey(key string) (string, string, error) {
	parts := strings.Split(key, KeySeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("malformed pair key %q", key)
	}
	return parts[0], parts[1], nil
}

// NewPairing builds a pending pairing with no confirmations.
func NewPairing(a, b string, now time.Time) Pairing {
	first, second := SortedPair(a, b)
	return Pairing{
		ID:        first + KeySeparator + second,
		User1:     first,
		User2:     second,
		Status:    StatusPending,
		CreatedAt: now.UTC(),
	}
}

// Involves reports whether userID is either party.
func (p Pairing) Involves(userID string) bool {
	return p.User1 == userID || p.User2 == userID
}

// Partner returns the other party.
func (p Pairing) Partner(userID string) (string, bool) {
	switch userID {
	case p.User1:
		return p.User2, true
	case p.User2:
		return p.User1, true
	}
	return "", false
}

// ConfirmedBy reports whether userID's side has confirmed.
func (p Pairing) ConfirmedBy(userID string) bool {
	switch userID {
	case p.User1:
		return p.User1Confirmed
	case p.User2:
		return p.User2Confirmed
	}
	return false
}

// Locks reports whether the pairing locks userID: pending with own side confirmed.
func (p Pairing) Locks(userID string) bool {
	return p.Status == StatusPending && p.ConfirmedBy(userID)
}

// Confirm sets userID's flag and moves pending to confirmed once both flags are set.
// transitioned is true only for the call that performed the move.
func (p *Pairing) Confirm(userID string) (transitioned bool, err error) {
	switch userID {
	case p.User1:
		p.User1Confirmed = true
	case p.User2:
		p.User2Confirmed = true
	default:
		return false, ErrNotParty
	}
	if p.User1Confirmed && p.User2Confirmed && p.Status == StatusPending {
		p.Status = StatusConfirmed
		return true, nil
	}
	return false, nil
}

// Complete moves a confirmed pairing to completed.
func (p *Pairing) Complete() error {
	if p.Status != StatusConfirmed {
		return fmt.Errorf("%w: complete from %s", ErrInvalidTransition, p.Status)
	}
	p.Status = StatusCompleted
	return nil
}

// CanReject reports whether a manager may reject the pairing.
func (p Pairing) CanReject() error {
	if p.Status != StatusConfirmed {
		return fmt.Errorf("%w: reject from %s", ErrInvalidTransition, p.Status)
	}
	return nil
}
