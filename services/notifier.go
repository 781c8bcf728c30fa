package services

import (
	"context"
	"log/slog"

	"movimenta_server/logging"
	"movimenta_server/models"
)

// Notifier delivers pairing lifecycle events. Calls happen after the change is
// committed; delivery failures are the notifier's to log and never reach the caller.
type Notifier interface {
	PairingCreated(ctx context.Context, p models.Pairing)
	SwapConfirmed(ctx context.Context, p models.Pairing)
	SwapApproved(ctx context.Context, p models.Pairing)
	SwapRejected(ctx context.Context, p models.Pairing)
}

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) PairingCreated(context.Context, models.Pairing) {}
func (NopNotifier) SwapConfirmed(context.Context, models.Pairing)  {}
func (NopNotifier) SwapApproved(context.Context, models.Pairing)   {}
func (NopNotifier) SwapRejected(context.Context, models.Pairing)   {}

// LogNotifier writes each event to the request logger.
type LogNotifier struct{}

func (LogNotifier) PairingCreated(ctx context.Context, p models.Pairing) {
	logEvent(ctx, "pairing created", p)
}

func (LogNotifier) SwapConfirmed(ctx context.Context, p models.Pairing) {
	logEvent(ctx, "swap confirmed, awaiting manager", p)
}

func (LogNotifier) SwapApproved(ctx context.Context, p models.Pairing) {
	logEvent(ctx, "swap approved", p)
}

func (LogNotifier) SwapRejected(ctx context.Context, p models.Pairing) {
	logEvent(ctx, "swap rejected", p)
}

func logEvent(ctx context.Context, msg string, p models.Pairing) {
	logging.From(ctx).Info(msg,
		slog.String("pairingId", p.ID),
		slog.String("user1", p.User1),
		slog.String("user2", p.User2),
		slog.String("status", string(p.Status)),
	)
}

// Notifiers fans every event out to each member in order.
type Notifiers []Notifier

func (ns Notifiers) PairingCreated(ctx context.Context, p models.Pairing) {
	for _, n := range ns {
		n.PairingCreated(ctx, p)
	}
}

func (ns Notifiers) SwapConfirmed(ctx context.Context, p models.Pairing) {
	for _, n := range ns {
		n.SwapConfirmed(ctx, p)
	}
}

func (ns Notifiers) SwapApproved(ctx context.Context, p models.Pairing) {
	for _, n := range ns {
		n.SwapApproved(ctx, p)
	}
}

func (ns Notifiers) SwapRejected(ctx context.Context, p models.Pairing) {
	for _, n := range ns {
		n.SwapRejected(ctx, p)
	}
}

func orNop(n Notifier) Notifier {
	if n == nil {
		return NopNotifier{}
	}
	return n
}
