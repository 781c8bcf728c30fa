package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"movimenta_server/models"
	"movimenta_server/store"
)

// MaxMessageLength caps a chat line, in characters.
const MaxMessageLength = 2000

// ChatService stores messages between two users under their pair key.
type ChatService struct {
	Store store.Store
	Now   func() time.Time
}

func NewChatService(st store.Store) *ChatService {
	return &ChatService{Store: st, Now: time.Now}
}

// Send appends a message from sender to receiver.
func (cs *ChatService) Send(ctx context.Context, senderID, receiverID, text string) (models.Message, error) {
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return models.Message{}, invalid("message text is empty")
	case utf8.RuneCountInString(text) > MaxMessageLength:
		return models.Message{}, invalid("message longer than %d characters", MaxMessageLength)
	case senderID == receiverID:
		return models.Message{}, invalid("cannot message yourself")
	}

	var out models.Message
	err := cs.Store.RunInTransaction(ctx, func(tx store.Tx) error {
		if _, err := tx.Profiles().Find(ctx, receiverID); err != nil {
			return notFound(err, "user %s", receiverID)
		}
		var err error
		out, err = tx.Messages().Append(ctx, models.Message{
			ChatID:    models.PairKey(senderID, receiverID),
			Sender:    senderID,
			Receiver:  receiverID,
			Text:      text,
			Timestamp: cs.Now().UTC(),
		})
		return err
	})
	return out, err
}

// Conversation returns the messages between two users in send order, plus the
// state of their pairing when one exists.
func (cs *ChatService) Conversation(ctx context.Context, userID, partnerID string) (models.Conversation, error) {
	out := models.Conversation{Messages: []models.Message{}}
	key := models.PairKey(userID, partnerID)
	err := cs.Store.View(ctx, func(tx store.Tx) error {
		msgs, err := tx.Messages().ByChat(ctx, key)
		if err != nil {
			return err
		}
		out.Messages = append(out.Messages, msgs...)

		pairing, err := tx.Pairings().Find(ctx, key)
		switch {
		case err == nil:
			out.SwapStatus = models.StatusOf(pairing)
		case !errors.Is(err, store.ErrNotFound):
			return err
		}
		return nil
	})
	return out, err
}
