package store

import (
	"encoding/json"
	"fmt"

	"movimenta_server/models"
)

// Snapshot is a full copy of every table, used by backends that persist
// whole-state images.
type Snapshot struct {
	Profiles     []models.UserProfile `json:"profiles"`
	Interactions []models.Interaction `json:"interactions"`
	Pairings     []models.Pairing     `json:"pairings"`
	Messages     []models.Message     `json:"messages"`
	NextSeq      int64                `json:"nextSeq"`
}

// Buckets lists the keys produced by EncodeBuckets.
var Buckets = []string{"profiles", "interactions", "pairings", "messages", "meta"}

type meta struct {
	NextSeq int64 `json:"nextSeq"`
}

// EncodeBuckets splits a snapshot into one JSON payload per table.
func EncodeBuckets(snap Snapshot) (map[string][]byte, error) {
	out := make(map[string][]byte, len(Buckets))
	for _, bucket := range Buckets {
		var (
			data []byte
			err  error
		)
		switch bucket {
		case "profiles":
			data, err = json.Marshal(nonNil(snap.Profiles))
		case "interactions":
			data, err = json.Marshal(nonNil(snap.Interactions))
		case "pairings":
			data, err = json.Marshal(nonNil(snap.Pairings))
		case "messages":
			data, err = json.Marshal(nonNil(snap.Messages))
		case "meta":
			data, err = json.Marshal(meta{NextSeq: snap.NextSeq})
		}
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", bucket, err)
		}
		out[bucket] = data
	}
	return out, nil
}

// DecodeBuckets rebuilds a snapshot. Unknown buckets are ignored.
func DecodeBuckets(payloads map[string][]byte) (Snapshot, error) {
	var snap Snapshot
	for bucket, data := range payloads {
		var err error
		switch bucket {
		case "profiles":
			err = json.Unmarshal(data, &snap.Profiles)
		case "interactions":
			err = json.Unmarshal(data, &snap.Interactions)
		case "pairings":
			err = json.Unmarshal(data, &snap.Pairings)
		case "messages":
			err = json.Unmarshal(data, &snap.Messages)
		case "meta":
			var m meta
			err = json.Unmarshal(data, &m)
			snap.NextSeq = m.NextSeq
		}
		if err != nil {
			return Snapshot{}, fmt.Errorf("decode %s: %w", bucket, err)
		}
	}
	return snap, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
