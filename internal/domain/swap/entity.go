package swap

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusPending, StatusAccepted, StatusRejected:
		return Status(raw), true
	default:
		return "", false
	}
}

// CanTransitionTo reports whether s may move to next. Only pending requests
// move, and only to a terminal state.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusPending && (next == StatusAccepted || next == StatusRejected)
}

type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
	DirectionAll      Direction = "all"
)

func ParseDirection(raw string) (Direction, bool) {
	switch Direction(raw) {
	case DirectionSent, DirectionReceived, DirectionAll:
		return Direction(raw), true
	default:
		return "", false
	}
}

type Request struct {
	ID           uuid.UUID
	SenderID     uuid.UUID
	ReceiverID   uuid.UUID
	OfferedSkill string
	WantedSkill  string
	Message      string
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (r Request) IsParticipant(userID uuid.UUID) bool {
	return r.SenderID == userID || r.ReceiverID == userID
}

// View is a request joined with the display fields of both participants.
// Names are empty and photos nil when a participant no longer exists.
type View struct {
	Request

	SenderName    string
	ReceiverName  string
	SenderPhoto   *string
	ReceiverPhoto *string
}

// DirectionFor is sent when viewer is the sender and received otherwise.
func (v View) DirectionFor(viewer uuid.UUID) Direction {
	if v.SenderID == viewer {
		return DirectionSent
	}
	return DirectionReceived
}

// ListFilter selects the requests a user takes part in. An empty Status
// means any status.
type ListFilter struct {
	UserID    uuid.UUID
	Direction Direction
	Status    Status
}
