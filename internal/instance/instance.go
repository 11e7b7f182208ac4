// Package instance manages published surveys: the binding of one survey
// config version to a live URL slug with an optional active date range.
package instance

import (
	"time"

	"github.com/google/uuid"

	"survey-studio/backend/internal/survey"
)

type Instance struct {
	ID          uuid.UUID       `json:"id"`
	ConfigID    uuid.UUID       `json:"configId"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Slug        string          `json:"slug"`
	IsActive    bool            `json:"isActive"`
	StartDate   *time.Time      `json:"startDate"`
	EndDate     *time.Time      `json:"endDate"`
	Metadata    survey.Metadata `json:"metadata"`
}

// ActiveAt evaluates the instance's lifecycle at a point in time: the
// activation flag gates everything, then the optional date range bounds it.
// A missing bound is open-ended on that side.
func (i Instance) ActiveAt(now time.Time) bool {
	if !i.IsActive {
		return false
	}
	if i.StartDate != nil && now.Before(*i.StartDate) {
		return false
	}
	if i.EndDate != nil && now.After(*i.EndDate) {
		return false
	}
	return true
}
