package models

import (
	"fmt"
	"strings"
	"time"
)

// Direction is the binary swipe signal.
type Direction string

// ParseDirection accepts the stored values and their positive/negative aliases.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "right", "positive", "like":
		return DirectionPositive, nil
	case "left", "negative", "dislike":
		return DirectionNegative, nil
	default:
		return "", fmt.Errorf("unknown swipe direction %q", s)
	}
}

// Positive reports whether d is a like.
func (d Direction) Positive() bool { return d == DirectionPositive }

// Interaction is one swipe. Seq is the log position assigned by the store on append.
type Interaction struct {
	ActorID   string    `dynamodbav:"actorId" json:"actorId"`     // Partition Key
	Seq       int64     `dynamodbav:"seq" json:"seq"`             // Sort Key, log order
	TargetID  string    `dynamodbav:"targetId" json:"targetId"`   // Swiped profile
	Direction Direction `dynamodbav:"direction" json:"direction"` // right, left
	Timestamp time.Time `dynamodbav:"timestamp" json:"timestamp"`
}

// Reciprocates reports whether i is a like from target towards actor.
func (i Interaction) Reciprocates(actorID, targetID string) bool {
	return i.ActorID == targetID && i.TargetID == actorID && i.Direction.Positive()
}
