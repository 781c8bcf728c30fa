package models

// SwipeRecord is one entry of a user's swipe history.
type SwipeRecord struct {
	Profile   UserProfile `json:"profile"`
	Direction Direction   `json:"direction"`
}

// InitialData batches everything the swipe screen needs.
type InitialData struct {
	AvailableUsers []UserProfile `json:"availableUsers"`
	Matches        []UserProfile `json:"matches"`
	SwipeHistory   []SwipeRecord `json:"swipeHistory"`
}

// ConfirmedSwap is a pairing awaiting a manager decision.
type ConfirmedSwap struct {
	ID    string      `json:"id"`
	User1 UserProfile `json:"user1"`
	User2 UserProfile `json:"user2"`
}
