package entity

import (
	"errors"
	"time"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidTransition    = errors.New("invalid notification state transition")
	ErrRecipientNotFound    = errors.New("recipient not found")
)

type State string

const (
	StateUnread   State = "UNREAD"
	StateRead     State = "READ"
	StateArchived State = "ARCHIVED"
)

// StaleAfter is how long a READ notification stays in the inbox before the
// archive job moves it away.
const StaleAfter = 30 * 24 * time.Hour

func ParseState(s string) (State, bool) {
	switch State(s) {
	case StateUnread, StateRead, StateArchived:
		return State(s), true
	}
	return "", false
}

type Notification struct {
	ID         string                 `json:"id"`
	UserID     string                 `json:"user_id"`
	Type       string                 `json:"type"`
	Title      string                 `json:"title"`
	Message    string                 `json:"message"`
	State      State                  `json:"state"`
	EntityType string                 `json:"entity_type,omitempty"`
	EntityID   string                 `json:"entity_id,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
	ReadAt     *time.Time             `json:"read_at,omitempty"`
	ArchivedAt *time.Time             `json:"archived_at,omitempty"`
}

// Transition moves n to the target state. States only move forward
// (UNREAD, READ, ARCHIVED); asking for the current state is a no-op and
// reports changed=false.
func (n *Notification) Transition(to State, at time.Time) (bool, error) {
	if n.State == to {
		return false, nil
	}

	switch {
	case n.State == StateUnread && to == StateRead:
		n.ReadAt = &at
	case n.State == StateUnread && to == StateArchived,
		n.State == StateRead && to == StateArchived:
		n.ArchivedAt = &at
	default:
		return false, ErrInvalidTransition
	}

	n.State = to
	return true, nil
}

type ListFilter struct {
	State  State
	Limit  int
	Offset int
}

// Normalize applies the default page size of 50 and caps it at 100.
func (f *ListFilter) Normalize() {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// Recipient is the addressee of an email copy.
type Recipient struct {
	UserID   string
	Username string
	Email    string
}
