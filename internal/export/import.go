package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"survey-studio/backend/internal"
	"survey-studio/backend/internal/optionset"
	"survey-studio/backend/internal/survey"
)

// ConfigPayload is the config shape on the wire. IDs inside the section
// tree are preserved so a round-trip yields an equivalent config.
type ConfigPayload struct {
	ID          string           `json:"id,omitempty"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Sections    []survey.Section `json:"sections"`
}

type OptionSetPayload struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Options     []survey.Option `json:"options"`
}

type InstancePayload struct {
	ID          string `json:"id,omitempty"`
	ConfigID    string `json:"configId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Slug        string `json:"slug,omitempty"`
}

// Decode parses an uploaded file into an envelope. Files written before
// the envelope existed carry the bare payload; for those the entity type
// is sniffed from the payload's structure.
func Decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: not a JSON document", internal.ErrInvalidEnvelope)
	}

	if env.Type != "" {
		if _, err := ParseEntityType(string(env.Type)); err != nil {
			return Envelope{}, err
		}
		if len(env.Data) == 0 {
			return Envelope{}, fmt.Errorf("%w: envelope has no data", internal.ErrInvalidEnvelope)
		}
		return env, nil
	}

	return sniff(data)
}

// sniff guesses a legacy file's entity type from its top-level fields:
// a section tree marks a config, a config reference marks an instance and
// a named option list marks an option set. Legacy option set files did
// not record their kind, so they land in the rating scale library unless
// a kind field says otherwise.
func sniff(data []byte) (Envelope, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return Envelope{}, fmt.Errorf("%w: not a JSON object", internal.ErrInvalidEnvelope)
	}

	entityType := EntityType("")
	switch {
	case hasKey(probe, "sections") && hasKey(probe, "title"):
		entityType = EntitySurveyConfig
	case hasKey(probe, "configId") && hasKey(probe, "title"):
		entityType = EntitySurveyInstance
	case hasKey(probe, "options") && hasKey(probe, "name"):
		entityType = EntityRatingScale
		if raw, ok := probe["kind"]; ok {
			var kind string
			if err := json.Unmarshal(raw, &kind); err == nil {
				if mapped, ok := kindToEntity[optionset.Kind(kind)]; ok {
					entityType = mapped
				}
			}
		}
	default:
		return Envelope{}, fmt.Errorf("%w: structure matches no known entity", internal.ErrUnknownEntityType)
	}

	return Envelope{Type: entityType, Version: 0, Data: data}, nil
}

var kindToEntity = map[optionset.Kind]EntityType{
	optionset.KindRatingScale: EntityRatingScale,
	optionset.KindRadio:       EntityRadioSet,
	optionset.KindMultiSelect: EntityMultiSelectSet,
	optionset.KindSelect:      EntitySelectSet,
}

var entityToKind = map[EntityType]optionset.Kind{
	EntityRatingScale:    optionset.KindRatingScale,
	EntityRadioSet:       optionset.KindRadio,
	EntityMultiSelectSet: optionset.KindMultiSelect,
	EntitySelectSet:      optionset.KindSelect,
}

// DecodeConfig validates and extracts a config payload. Title and a
// section list are required.
func DecodeConfig(env Envelope) (ConfigPayload, error) {
	if env.Type != EntitySurveyConfig {
		return ConfigPayload{}, fmt.Errorf("expected %s, got %s: %w", EntitySurveyConfig, env.Type, internal.ErrUnknownEntityType)
	}

	var payload ConfigPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return ConfigPayload{}, fmt.Errorf("%w: malformed config payload", internal.ErrInvalidEnvelope)
	}

	var missing []string
	if strings.TrimSpace(payload.Title) == "" {
		missing = append(missing, "title")
	}
	if payload.Sections == nil {
		missing = append(missing, "sections")
	}
	if len(missing) > 0 {
		return ConfigPayload{}, importError(EntitySurveyConfig, missing)
	}
	return payload, nil
}

// DecodeOptionSet validates and extracts an option set payload along with
// the registry kind the entity type maps to.
func DecodeOptionSet(env Envelope) (OptionSetPayload, optionset.Kind, error) {
	kind, ok := entityToKind[env.Type]
	if !ok {
		return OptionSetPayload{}, "", fmt.Errorf("expected an option set type, got %s: %w", env.Type, internal.ErrUnknownEntityType)
	}

	var payload OptionSetPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return OptionSetPayload{}, "", fmt.Errorf("%w: malformed option set payload", internal.ErrInvalidEnvelope)
	}

	var missing []string
	if strings.TrimSpace(payload.Name) == "" {
		missing = append(missing, "name")
	}
	if payload.Options == nil {
		missing = append(missing, "options")
	}
	if len(missing) > 0 {
		return OptionSetPayload{}, "", importError(env.Type, missing)
	}
	return payload, kind, nil
}

// DecodeInstance validates and extracts an instance payload. Title and
// the config reference are required; the slug is optional because slugs
// rarely survive a move between installations.
func DecodeInstance(env Envelope) (InstancePayload, error) {
	if env.Type != EntitySurveyInstance {
		return InstancePayload{}, fmt.Errorf("expected %s, got %s: %w", EntitySurveyInstance, env.Type, internal.ErrUnknownEntityType)
	}

	var payload InstancePayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return InstancePayload{}, fmt.Errorf("%w: malformed instance payload", internal.ErrInvalidEnvelope)
	}

	var missing []string
	if strings.TrimSpace(payload.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(payload.ConfigID) == "" {
		missing = append(missing, "configId")
	}
	if len(missing) > 0 {
		return InstancePayload{}, importError(EntitySurveyInstance, missing)
	}
	return payload, nil
}

func importError(entityType EntityType, missing []string) error {
	return fmt.Errorf("%s import missing %s: %w", entityType, strings.Join(missing, ", "), internal.ErrImportValidation)
}

func hasKey(probe map[string]json.RawMessage, key string) bool {
	raw, ok := probe[key]
	return ok && len(raw) > 0 && string(raw) != "null"
}
