package field

import (
	"fmt"

	"survey-studio/backend/internal"
)

type ErrInvalidAnswerLength struct {
	FieldID  string
	Expected int
	Given    int
}

func (e ErrInvalidAnswerLength) Error() string {
	return fmt.Sprintf("invalid answer length for field %s, expected at most %d, got %d", e.FieldID, e.Expected, e.Given)
}

func (e ErrInvalidAnswerLength) Unwrap() error {
	return internal.ErrAnswerValidation
}

type ErrInvalidEmailFormat struct {
	FieldID string
	Value   string
}

func (e ErrInvalidEmailFormat) Error() string {
	return fmt.Sprintf("invalid email format for field %s: %s", e.FieldID, e.Value)
}

func (e ErrInvalidEmailFormat) Unwrap() error {
	return internal.ErrAnswerValidation
}

type ErrInvalidOptionValue struct {
	FieldID string
	Value   string
}

func (e ErrInvalidOptionValue) Error() string {
	return fmt.Sprintf("value %q is not an option of field %s", e.Value, e.FieldID)
}

func (e ErrInvalidOptionValue) Unwrap() error {
	return internal.ErrAnswerValidation
}

type ErrMultipleSelections struct {
	FieldID string
	Given   int
}

func (e ErrMultipleSelections) Error() string {
	return fmt.Sprintf("field %s accepts a single selection, got %d", e.FieldID, e.Given)
}

func (e ErrMultipleSelections) Unwrap() error {
	return internal.ErrAnswerValidation
}

type ErrInvalidValueFormat struct {
	FieldID string
	Message string
}

func (e ErrInvalidValueFormat) Error() string {
	return fmt.Sprintf("invalid value format for field %s: %s", e.FieldID, e.Message)
}

func (e ErrInvalidValueFormat) Unwrap() error {
	return internal.ErrAnswerValidation
}

type ErrRequiredField struct {
	FieldID string
	Label   string
}

func (e ErrRequiredField) Error() string {
	return fmt.Sprintf("field %s (%s) is required", e.FieldID, e.Label)
}

func (e ErrRequiredField) Unwrap() error {
	return internal.ErrAnswerValidation
}

type ErrUnsupportedFieldType struct {
	FieldType string
}

func (e ErrUnsupportedFieldType) Error() string {
	return fmt.Sprintf("unsupported field type: %s", e.FieldType)
}

func (e ErrUnsupportedFieldType) Unwrap() error {
	return internal.ErrInvalidRequestBody
}
