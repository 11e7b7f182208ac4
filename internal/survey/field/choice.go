package field

import (
	"encoding/json"
	"strings"

	"survey-studio/backend/internal/survey"
)

// Radio accepts exactly one of the field's effective option values.
type Radio struct {
	field   survey.Field
	options []survey.Option
}

func (r Radio) Field() survey.Field {
	return r.field
}

func (r Radio) Validate(rawValue json.RawMessage) error {
	if isEmpty(rawValue) {
		return nil
	}

	value, err := decodeSingleValue(r.field.ID, rawValue)
	if err != nil {
		return err
	}

	if _, ok := findOption(r.options, value); !ok {
		return ErrInvalidOptionValue{FieldID: r.field.ID, Value: value}
	}

	return nil
}

func (r Radio) DisplayValue(rawValue json.RawMessage) (string, error) {
	if isEmpty(rawValue) {
		return "", nil
	}

	value, err := decodeSingleValue(r.field.ID, rawValue)
	if err != nil {
		return "", err
	}

	if opt, ok := findOption(r.options, value); ok {
		return opt.Label, nil
	}

	// stored answers may predate an option edit; fall back to the raw value
	return value, nil
}

// MultiSelect accepts a list of option values with no duplicates required.
type MultiSelect struct {
	field   survey.Field
	options []survey.Option
}

func (m MultiSelect) Field() survey.Field {
	return m.field
}

func (m MultiSelect) Validate(rawValue json.RawMessage) error {
	if isEmpty(rawValue) {
		return nil
	}

	values, err := decodeMultiValue(m.field.ID, rawValue)
	if err != nil {
		return err
	}

	for _, value := range values {
		if _, ok := findOption(m.options, value); !ok {
			return ErrInvalidOptionValue{FieldID: m.field.ID, Value: value}
		}
	}

	return nil
}

func (m MultiSelect) DisplayValue(rawValue json.RawMessage) (string, error) {
	if isEmpty(rawValue) {
		return "", nil
	}

	values, err := decodeMultiValue(m.field.ID, rawValue)
	if err != nil {
		return "", err
	}

	labels := make([]string, 0, len(values))
	for _, value := range values {
		if opt, ok := findOption(m.options, value); ok {
			labels = append(labels, opt.Label)
			continue
		}
		labels = append(labels, value)
	}

	return strings.Join(labels, ", "), nil
}

// Rating accepts one value of the field's effective scale. The scale comes
// from the shared registry when ratingScaleId is set, otherwise from the
// inline options.
type Rating struct {
	field   survey.Field
	options []survey.Option
}

func (r Rating) Field() survey.Field {
	return r.field
}

func (r Rating) Validate(rawValue json.RawMessage) error {
	return Radio{field: r.field, options: r.options}.Validate(rawValue)
}

func (r Rating) DisplayValue(rawValue json.RawMessage) (string, error) {
	return Radio{field: r.field, options: r.options}.DisplayValue(rawValue)
}

func findOption(options []survey.Option, value string) (survey.Option, bool) {
	for _, opt := range options {
		if opt.Value == value {
			return opt, true
		}
	}
	return survey.Option{}, false
}

// decodeSingleValue accepts a plain string or a one-element string array.
// Old clients submitted radio answers both ways.
func decodeSingleValue(fieldID string, rawValue json.RawMessage) (string, error) {
	var value string
	if err := json.Unmarshal(rawValue, &value); err == nil {
		return value, nil
	}

	var values []string
	if err := json.Unmarshal(rawValue, &values); err != nil {
		return "", ErrInvalidValueFormat{FieldID: fieldID, Message: "expected a string or string array"}
	}

	if len(values) != 1 {
		return "", ErrMultipleSelections{FieldID: fieldID, Given: len(values)}
	}

	return values[0], nil
}

func decodeMultiValue(fieldID string, rawValue json.RawMessage) ([]string, error) {
	var values []string
	if err := json.Unmarshal(rawValue, &values); err == nil {
		return values, nil
	}

	var value string
	if err := json.Unmarshal(rawValue, &value); err != nil {
		return nil, ErrInvalidValueFormat{FieldID: fieldID, Message: "expected a string array"}
	}

	return []string{value}, nil
}
