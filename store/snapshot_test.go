package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movimenta_server/models"
)

func TestBucketsRoundTrip(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Profiles:     []models.UserProfile{{UserID: "1", Name: "Ana", OpenForSwap: true}},
		Interactions: []models.Interaction{{ActorID: "1", TargetID: "2", Seq: 7, Direction: models.DirectionPositive, Timestamp: now}},
		Pairings:     []models.Pairing{models.NewPairing("1", "2", now)},
		NextSeq:      7,
	}

	payloads, err := EncodeBuckets(snap)
	require.NoError(t, err)
	assert.Len(t, payloads, len(Buckets))
	assert.JSONEq(t, `[]`, string(payloads["messages"]))

	got, err := DecodeBuckets(payloads)
	require.NoError(t, err)
	assert.Equal(t, snap.Profiles, got.Profiles)
	assert.Equal(t, snap.Interactions, got.Interactions)
	assert.Equal(t, snap.Pairings, got.Pairings)
	assert.Empty(t, got.Messages)
	assert.Equal(t, int64(7), got.NextSeq)
}

func TestDecodeBucketsRejectsGarbage(t *testing.T) {
	_, err := DecodeBuckets(map[string][]byte{"profiles": []byte("{")})
	require.Error(t, err)
}
