// Package response stores submitted answers and the sessions that produce
// them. A session tracks one respondent's pass through an instance; its
// status drives the analytics funnel.
package response

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"survey-studio/backend/internal"
)

// Status is a session's funnel state. Every session occupies exactly one
// state at a time.
type Status string

const (
	StatusStarted    Status = "started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusAbandoned  Status = "abandoned"
	StatusExpired    Status = "expired"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusStarted, StatusInProgress, StatusCompleted, StatusAbandoned, StatusExpired:
		return Status(s), nil
	default:
		return "", fmt.Errorf("status %q: %w", s, internal.ErrInvalidSessionStatus)
	}
}

// Terminal statuses accept no further transitions.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusAbandoned, StatusExpired:
		return true
	}
	return false
}

// CanTransitionTo reports whether the move to next is allowed. Forward
// moves only: started may advance or terminate, in_progress may terminate
// or complete, terminal states are frozen.
func (s Status) CanTransitionTo(next Status) bool {
	if s.Terminal() {
		return false
	}
	switch s {
	case StatusStarted:
		return next == StatusInProgress || next.Terminal()
	case StatusInProgress:
		return next.Terminal()
	}
	return false
}

type Session struct {
	ID         uuid.UUID `json:"id"`
	InstanceID uuid.UUID `json:"instanceId"`
	Status     Status    `json:"status"`
	StartedAt  time.Time `json:"startedAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Response holds one submission. Answers are keyed by field id for new
// submissions; historical rows may use the legacy composite or slug keys,
// which analytics and export resolve at read time.
type Response struct {
	ID          uuid.UUID                  `json:"id"`
	InstanceID  uuid.UUID                  `json:"instanceId"`
	SessionID   uuid.UUID                  `json:"sessionId"`
	Answers     map[string]json.RawMessage `json:"answers"`
	SubmittedAt time.Time                  `json:"submittedAt"`
}
