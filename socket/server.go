// Package socket pushes pairing lifecycle events to connected clients over socket.io.
package socket

import (
	"context"
	"errors"
	"log/slog"
	"net/url"

	socketio "github.com/googollee/go-socket.io"

	"movimenta_server/middleware"
	"movimenta_server/models"
	"movimenta_server/services"
)

const (
	namespace    = "/"
	managersRoom = "managers"
)

// Event names emitted to clients.
const (
	EventPairingCreated = "pairing:created"
	EventSwapConfirmed  = "swap:confirmed"
	EventSwapApproved   = "swap:approved"
	EventSwapRejected   = "swap:rejected"
)

// UserRoom is the room every connection of userID joins.
func UserRoom(userID string) string { return "user:" + userID }

// roomsFor authenticates a connection from the token query parameter and
// returns the rooms it belongs to.
func roomsFor(auth *middleware.Authenticator, u url.URL) ([]string, error) {
	token := u.Query().Get("token")
	if token == "" {
		return nil, errors.New("missing token")
	}
	id, err := auth.Parse(token)
	if err != nil {
		return nil, err
	}
	rooms := []string{UserRoom(id.UserID)}
	if id.Manager {
		rooms = append(rooms, managersRoom)
	}
	return rooms, nil
}

// NewSocketServer initializes a socket.io server whose connections join their
// user room, plus the managers room for manager sessions.
func NewSocketServer(auth *middleware.Authenticator, log *slog.Logger) *socketio.Server {
	if log == nil {
		log = slog.Default()
	}
	server := socketio.NewServer(nil)

	server.OnConnect(namespace, func(c socketio.Conn) error {
		rooms, err := roomsFor(auth, c.URL())
		if err != nil {
			log.Warn("socket rejected", slog.String("socket_id", c.ID()), slog.String("err", err.Error()))
			return err
		}
		for _, room := range rooms {
			c.Join(room)
		}
		log.Debug("socket connected", slog.String("socket_id", c.ID()), slog.Any("rooms", rooms))
		return nil
	})

	server.OnError(namespace, func(c socketio.Conn, err error) {
		log.Warn("socket error", slog.String("err", err.Error()))
	})

	server.OnDisconnect(namespace, func(c socketio.Conn, reason string) {
		log.Debug("socket disconnected", slog.String("socket_id", c.ID()), slog.String("reason", reason))
	})

	return server
}

// broadcaster is the part of *socketio.Server the notifier uses.
type broadcaster interface {
	BroadcastToRoom(namespace, room, event string, args ...interface{}) bool
}

// Notifier emits pairing events to the parties' rooms. Confirmed swaps are also
// sent to the managers room for review.
type Notifier struct {
	server broadcaster
}

var _ services.Notifier = (*Notifier)(nil)

func NewNotifier(server *socketio.Server) *Notifier {
	return &Notifier{server: server}
}

func (n *Notifier) toParties(event string, p models.Pairing) {
	n.server.BroadcastToRoom(namespace, UserRoom(p.User1), event, p)
	n.server.BroadcastToRoom(namespace, UserRoom(p.User2), event, p)
}

func (n *Notifier) PairingCreated(_ context.Context, p models.Pairing) {
	n.toParties(EventPairingCreated, p)
}

func (n *Notifier) SwapConfirmed(_ context.Context, p models.Pairing) {
	n.toParties(EventSwapConfirmed, p)
	n.server.BroadcastToRoom(namespace, managersRoom, EventSwapConfirmed, p)
}

func (n *Notifier) SwapApproved(_ context.Context, p models.Pairing) {
	n.toParties(EventSwapApproved, p)
}

func (n *Notifier) SwapRejected(_ context.Context, p models.Pairing) {
	n.toParties(EventSwapRejected, p)
}
