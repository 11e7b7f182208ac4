package builder

import (
	"time"

	"survey-studio/backend/internal"
	"survey-studio/backend/internal/survey"
)

// BulkState is the derived display state of one property across a group of
// selected fields.
type BulkState string

const (
	// BulkUniform means every selected field agrees on the value.
	BulkUniform BulkState = "uniform"
	// BulkAbsent means no selected field has the value set.
	BulkAbsent BulkState = "absent"
	// BulkMixed means the selected fields disagree. A mixed value is never
	// coerced to either side; callers must pick an explicit value to apply.
	BulkMixed BulkState = "mixed"
)

// BoolProperty is a derived view of one boolean property for bulk editing.
// Value is only meaningful when State is BulkUniform.
type BoolProperty struct {
	State BulkState `json:"state"`
	Value bool      `json:"value,omitempty"`
}

// StringProperty is the string-valued counterpart of BoolProperty.
type StringProperty struct {
	State BulkState `json:"state"`
	Value string    `json:"value,omitempty"`
}

// FieldAnalysis summarizes the editable properties of a group of fields for
// the bulk multi-field editor.
type FieldAnalysis struct {
	FieldIDs    []string       `json:"fieldIds"`
	Required    BoolProperty   `json:"required"`
	Type        StringProperty `json:"type"`
	Placeholder StringProperty `json:"placeholder"`
	RatingScale StringProperty `json:"ratingScale"`
}

// AnalyzeFields derives the bulk display state for the given field ids.
// Unknown ids are skipped; the analysis covers only fields present in the
// config.
func AnalyzeFields(cfg *survey.Config, fieldIDs []string) FieldAnalysis {
	var fields []survey.Field
	var found []string
	byID := indexFields(cfg)
	for _, id := range fieldIDs {
		if f, ok := byID[id]; ok {
			fields = append(fields, f)
			found = append(found, id)
		}
	}

	analysis := FieldAnalysis{FieldIDs: found}
	analysis.Required = deriveBool(fields, func(f survey.Field) bool { return f.Required })
	analysis.Type = deriveString(fields, func(f survey.Field) string { return string(f.Type) })
	analysis.Placeholder = deriveString(fields, func(f survey.Field) string { return f.Placeholder })
	analysis.RatingScale = deriveString(fields, func(f survey.Field) string { return f.RatingScaleID })
	return analysis
}

// BulkUpdate is one explicit value applied across a group of fields. Every
// set pointer overwrites the property on every target field; a mixed
// property stays mixed unless the caller sets it here.
type BulkUpdate struct {
	Required    *bool
	Type        *survey.FieldType
	Placeholder *string
}

// ApplyBulk expands a BulkUpdate into per-field UpdateField commands and
// runs them through the transition function in order. Fields that cannot be
// located fail the whole batch with the state unchanged.
func ApplyBulk(state State, fieldIDs []string, update BulkUpdate, now func() time.Time) (State, error) {
	next := state
	for _, id := range fieldIDs {
		loc, ok := locateField(&state.Config, id)
		if !ok {
			return state, internal.ErrFieldNotFound
		}
		cmd := UpdateField{
			SectionID:    loc.sectionID,
			SubsectionID: loc.subsectionID,
			FieldID:      id,
			Required:     update.Required,
			Type:         update.Type,
			Placeholder:  update.Placeholder,
		}
		var err error
		next, err = Apply(next, cmd, now())
		if err != nil {
			return state, err
		}
	}
	return next, nil
}

type fieldLocation struct {
	sectionID    string
	subsectionID string
}

func locateField(cfg *survey.Config, fieldID string) (fieldLocation, bool) {
	for _, section := range cfg.Sections {
		for _, f := range section.Fields {
			if f.ID == fieldID {
				return fieldLocation{sectionID: section.ID}, true
			}
		}
		for _, sub := range section.Subsections {
			for _, f := range sub.Fields {
				if f.ID == fieldID {
					return fieldLocation{sectionID: section.ID, subsectionID: sub.ID}, true
				}
			}
		}
	}
	return fieldLocation{}, false
}

func indexFields(cfg *survey.Config) map[string]survey.Field {
	out := make(map[string]survey.Field)
	for _, f := range cfg.AllFields() {
		out[f.ID] = f
	}
	return out
}

func deriveBool(fields []survey.Field, get func(survey.Field) bool) BoolProperty {
	if len(fields) == 0 {
		return BoolProperty{State: BulkAbsent}
	}
	first := get(fields[0])
	for _, f := range fields[1:] {
		if get(f) != first {
			return BoolProperty{State: BulkMixed}
		}
	}
	return BoolProperty{State: BulkUniform, Value: first}
}

func deriveString(fields []survey.Field, get func(survey.Field) string) StringProperty {
	if len(fields) == 0 {
		return StringProperty{State: BulkAbsent}
	}
	first := get(fields[0])
	allEmpty := first == ""
	for _, f := range fields[1:] {
		v := get(f)
		if v != first {
			return StringProperty{State: BulkMixed}
		}
		if v != "" {
			allEmpty = false
		}
	}
	if allEmpty {
		return StringProperty{State: BulkAbsent}
	}
	return StringProperty{State: BulkUniform, Value: first}
}
