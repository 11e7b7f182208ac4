// Package export moves entities across installations: JSON envelopes for
// configs, instances and option sets, and xlsx flattening for response
// sets.
package export

import (
	"encoding/json"
	"fmt"
	"time"

	"survey-studio/backend/internal"
)

// EntityType names the payload an envelope carries. The four option set
// kinds are distinct types on the wire so an import never lands a radio
// set in the rating scale library.
type EntityType string

const (
	EntitySurveyConfig   EntityType = "SurveyConfig"
	EntitySurveyInstance EntityType = "SurveyInstance"
	EntityRatingScale    EntityType = "RatingScale"
	EntityRadioSet       EntityType = "RadioOptionSet"
	EntityMultiSelectSet EntityType = "MultiSelectOptionSet"
	EntitySelectSet      EntityType = "SelectOptionSet"
)

// EnvelopeVersion is bumped when the envelope shape itself changes, not
// when a payload schema does.
const EnvelopeVersion = 1

func ParseEntityType(s string) (EntityType, error) {
	switch EntityType(s) {
	case EntitySurveyConfig, EntitySurveyInstance, EntityRatingScale,
		EntityRadioSet, EntityMultiSelectSet, EntitySelectSet:
		return EntityType(s), nil
	default:
		return "", fmt.Errorf("entity type %q: %w", s, internal.ErrUnknownEntityType)
	}
}

type Metadata struct {
	ExportedAt   time.Time `json:"exportedAt"`
	ExportedFrom string    `json:"exportedFrom"`
	OriginalID   string    `json:"originalId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
}

type Envelope struct {
	Type     EntityType      `json:"type"`
	Version  int             `json:"version"`
	Data     json.RawMessage `json:"data"`
	Metadata Metadata        `json:"metadata"`
}

func NewEnvelope(entityType EntityType, data interface{}, meta Metadata) (Envelope, error) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to encode %s payload: %w", entityType, err)
	}
	return Envelope{
		Type:     entityType,
		Version:  EnvelopeVersion,
		Data:     encoded,
		Metadata: meta,
	}, nil
}
