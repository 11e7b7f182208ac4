package field

import (
	"encoding/json"
	"net/mail"
	"strconv"

	"survey-studio/backend/internal/survey"
)

// Text covers the free-text field types; textarea is the same validator
// with a larger length cap.
type Text struct {
	field     survey.Field
	maxLength int
}

func (t Text) Field() survey.Field {
	return t.field
}

func (t Text) Validate(rawValue json.RawMessage) error {
	if isEmpty(rawValue) {
		return nil
	}

	var value string
	if err := json.Unmarshal(rawValue, &value); err != nil {
		return ErrInvalidValueFormat{FieldID: t.field.ID, Message: err.Error()}
	}

	if len(value) > t.maxLength {
		return ErrInvalidAnswerLength{
			FieldID:  t.field.ID,
			Expected: t.maxLength,
			Given:    len(value),
		}
	}

	return nil
}

func (t Text) DisplayValue(rawValue json.RawMessage) (string, error) {
	if isEmpty(rawValue) {
		return "", nil
	}

	var value string
	if err := json.Unmarshal(rawValue, &value); err != nil {
		return "", ErrInvalidValueFormat{FieldID: t.field.ID, Message: err.Error()}
	}

	return value, nil
}

type Email struct {
	field survey.Field
}

func (e Email) Field() survey.Field {
	return e.field
}

func (e Email) Validate(rawValue json.RawMessage) error {
	if isEmpty(rawValue) {
		return nil
	}

	var value string
	if err := json.Unmarshal(rawValue, &value); err != nil {
		return ErrInvalidValueFormat{FieldID: e.field.ID, Message: err.Error()}
	}

	if _, err := mail.ParseAddress(value); err != nil {
		return ErrInvalidEmailFormat{FieldID: e.field.ID, Value: value}
	}

	return nil
}

func (e Email) DisplayValue(rawValue json.RawMessage) (string, error) {
	return Text{field: e.field}.DisplayValue(rawValue)
}

// Number accepts any JSON number. Submissions frequently carry numbers as
// strings, so a numeric string is accepted too.
type Number struct {
	field survey.Field
}

func (n Number) Field() survey.Field {
	return n.field
}

func (n Number) Validate(rawValue json.RawMessage) error {
	if isEmpty(rawValue) {
		return nil
	}

	_, err := n.decode(rawValue)
	return err
}

func (n Number) DisplayValue(rawValue json.RawMessage) (string, error) {
	if isEmpty(rawValue) {
		return "", nil
	}

	value, err := n.decode(rawValue)
	if err != nil {
		return "", err
	}

	return strconv.FormatFloat(value, 'f', -1, 64), nil
}

func (n Number) decode(rawValue json.RawMessage) (float64, error) {
	var value float64
	if err := json.Unmarshal(rawValue, &value); err == nil {
		return value, nil
	}

	var s string
	if err := json.Unmarshal(rawValue, &s); err != nil {
		return 0, ErrInvalidValueFormat{FieldID: n.field.ID, Message: "expected a number"}
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidValueFormat{FieldID: n.field.ID, Message: "expected a number, got " + s}
	}

	return value, nil
}
