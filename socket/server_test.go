package socket

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movimenta_server/middleware"
	"movimenta_server/models"
)

type broadcast struct {
	room, event string
}

type fakeBroadcaster struct {
	sent []broadcast
}

func (f *fakeBroadcaster) BroadcastToRoom(_, room, event string, _ ...interface{}) bool {
	f.sent = append(f.sent, broadcast{room: room, event: event})
	return true
}

func TestNotifierRoutesEventsToRooms(t *testing.T) {
	fb := &fakeBroadcaster{}
	n := &Notifier{server: fb}
	p := models.NewPairing("b", "a", time.Now())
	ctx := context.Background()

	n.PairingCreated(ctx, p)
	n.SwapConfirmed(ctx, p)
	n.SwapRejected(ctx, p)

	assert.Equal(t, []broadcast{
		{"user:a", EventPairingCreated},
		{"user:b", EventPairingCreated},
		{"user:a", EventSwapConfirmed},
		{"user:b", EventSwapConfirmed},
		{"managers", EventSwapConfirmed},
		{"user:a", EventSwapRejected},
		{"user:b", EventSwapRejected},
	}, fb.sent)
}

func TestRoomsFor(t *testing.T) {
	auth := middleware.NewAuthenticator("k", []string{"GGT"})
	withToken := func(user string) url.URL {
		tok, err := auth.Issue(user, "", time.Hour)
		require.NoError(t, err)
		return url.URL{Path: "/socket.io/", RawQuery: url.Values{"token": {tok}}.Encode()}
	}

	rooms, err := roomsFor(auth, withToken("42"))
	require.NoError(t, err)
	assert.Equal(t, []string{"user:42"}, rooms)

	rooms, err = roomsFor(auth, withToken("GGT"))
	require.NoError(t, err)
	assert.Equal(t, []string{"user:GGT", "managers"}, rooms)

	_, err = roomsFor(auth, url.URL{Path: "/socket.io/"})
	assert.Error(t, err)
	_, err = roomsFor(auth, url.URL{RawQuery: "token=nope"})
	assert.Error(t, err)
}
