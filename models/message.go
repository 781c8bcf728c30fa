package models

import "time"

// Message is a chat line between two paired users.
type Message struct {
	ChatID    string    `dynamodbav:"chatId" json:"chatId"` // Partition Key, same as the pair key
	Seq       int64     `dynamodbav:"seq" json:"seq"`       // Sort Key
	Sender    string    `dynamodbav:"sender" json:"sender"`
	Receiver  string    `dynamodbav:"receiver" json:"receiver"`
	Text      string    `dynamodbav:"text" json:"text"`
	Timestamp time.Time `dynamodbav:"timestamp" json:"timestamp"`
}

// SwapStatus is the pairing state surfaced next to a conversation.
type SwapStatus struct {
	User1          string        `json:"user1"`
	User1Confirmed bool          `json:"user1_confirmed"`
	User2          string        `json:"user2"`
	User2Confirmed bool          `json:"user2_confirmed"`
	Status         PairingStatus `json:"status"`
}

// StatusOf projects a pairing to its chat view.
func StatusOf(p Pairing) *SwapStatus {
	return &SwapStatus{
		User1:          p.User1,
		User1Confirmed: p.User1Confirmed,
		User2:          p.User2,
		User2Confirmed: p.User2Confirmed,
		Status:         p.Status,
	}
}

// Conversation is a chat history with the pairing state of the two users.
type Conversation struct {
	Messages   []Message   `json:"messages"`
	SwapStatus *SwapStatus `json:"swapStatus"`
}
