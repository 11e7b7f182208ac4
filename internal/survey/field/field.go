// Package field validates and renders submitted answers per field type. Each
// field type gets its own Answerable implementation; the factory resolves
// the effective option list before any answer is checked.
package field

import (
	"encoding/json"

	"survey-studio/backend/internal/survey"
)

// Answerable checks raw submitted values against one field's configuration
// and renders stored values for export.
type Answerable interface {
	Field() survey.Field

	// Validate checks a raw submitted value. An empty or null value passes;
	// required-ness is enforced by the caller which knows about the whole
	// submission.
	Validate(rawValue json.RawMessage) error

	// DisplayValue renders a stored value as a flat string for exports and
	// dashboards.
	DisplayValue(rawValue json.RawMessage) (string, error)
}

// New builds the Answerable for a field. For option-carrying fields the
// effective options must already be resolved: inline options, or the
// referenced rating scale's options when ratingScaleId is set.
func New(f survey.Field, effectiveOptions []survey.Option) (Answerable, error) {
	switch f.Type {
	case survey.FieldTypeText:
		return Text{field: f, maxLength: 500}, nil
	case survey.FieldTypeTextarea:
		return Text{field: f, maxLength: 5000}, nil
	case survey.FieldTypeEmail:
		return Email{field: f}, nil
	case survey.FieldTypeNumber:
		return Number{field: f}, nil
	case survey.FieldTypeRadio:
		return Radio{field: f, options: effectiveOptions}, nil
	case survey.FieldTypeMultiSelect:
		return MultiSelect{field: f, options: effectiveOptions}, nil
	case survey.FieldTypeRating:
		return Rating{field: f, options: effectiveOptions}, nil
	default:
		return nil, ErrUnsupportedFieldType{FieldType: string(f.Type)}
	}
}

// Answered reports whether a raw value carries an actual answer. Submission
// handling uses it to enforce required fields before type validation runs.
func Answered(rawValue json.RawMessage) bool {
	return !isEmpty(rawValue)
}

func isEmpty(rawValue json.RawMessage) bool {
	if len(rawValue) == 0 {
		return true
	}
	s := string(rawValue)
	return s == "null" || s == `""` || s == "[]"
}
