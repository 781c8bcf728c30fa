package models

// Swipe directions as stored in the interaction log.
const (
	DirectionPositive Direction = "right"
	DirectionNegative Direction = "left"
)

// Pairing lifecycle states.
const (
	StatusPending   PairingStatus = "pending"
	StatusConfirmed PairingStatus = "confirmed"
	StatusCompleted PairingStatus = "completed"
)

// Role claim carried by manager sessions.
const RoleManager = "manager"

// DefaultPageSize caps the candidate queue returned to a user.
const DefaultPageSize = 50

// KeySeparator joins the sorted user ids of a pairing or chat key.
const KeySeparator = "-"

// Default table names, overridable through config for the DynamoDB backend.
const (
	ProfilesTable     = "Profiles"
	InteractionsTable = "Interactions"
	PairingsTable     = "Pairings"
	MessagesTable     = "Messages"
	CountersTable     = "Counters"
)
