package internal

import (
	"errors"

	"github.com/NYCU-SDC/summer/pkg/problem"
)

var (
	// Generic Errors
	ErrPermissionDenied    = errors.New("permission denied")
	ErrInternalServerError = errors.New("internal server error")
	ErrNotFound            = errors.New("not found")
	ErrInvalidRequestBody  = errors.New("invalid request body")
	ErrValidationFailed    = errors.New("validation failed")
	ErrDatabaseError       = errors.New("database error")

	// Survey Errors
	ErrSurveyNotFound        = errors.New("survey config not found")
	ErrSectionNotFound       = errors.New("section not found")
	ErrSubsectionNotFound    = errors.New("subsection not found")
	ErrFieldNotFound         = errors.New("field not found")
	ErrIndexOutOfRange       = errors.New("index out of range")
	ErrOptionIndexOutOfRange = errors.New("option index out of range")
	ErrUnknownCommand        = errors.New("unknown builder command")
	ErrSurveyNotActive       = errors.New("survey config is not active")

	// Option Set Errors
	ErrOptionSetNotFound    = errors.New("option set not found")
	ErrOptionSetNameTaken   = errors.New("option set name already exists")
	ErrInvalidOptionSetKind = errors.New("invalid option set kind")
	ErrRegistryNotLoaded    = errors.New("option set registry not loaded")

	// Instance Errors
	ErrInstanceNotFound  = errors.New("survey instance not found")
	ErrInstanceNotActive = errors.New("survey instance is not active")
	ErrSlugAlreadyExists = errors.New("instance slug already exists")
	ErrInvalidSlug       = errors.New("instance slug is invalid")
	ErrInvalidDateRange  = errors.New("active date range is invalid")

	// Response Errors
	ErrResponseNotFound     = errors.New("response not found")
	ErrSessionNotFound      = errors.New("session not found")
	ErrInvalidSessionStatus = errors.New("invalid session status")
	ErrAnswerValidation     = errors.New("answer validation failed")

	// Import/Export Errors
	ErrInvalidEnvelope   = errors.New("invalid export envelope")
	ErrUnknownEntityType = errors.New("unknown export entity type")
	ErrImportValidation  = errors.New("import payload missing required fields")

	// Analytics Errors
	ErrInvalidGranularity = errors.New("invalid time bucket granularity")
)

func NewProblemWriter() *problem.HttpWriter {
	return problem.NewWithMapping(ErrorHandler)
}

func ErrorHandler(err error) problem.Problem {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return problem.NewForbiddenProblem("permission denied")
	case errors.Is(err, ErrInternalServerError):
		return problem.NewInternalServerProblem("internal server error")
	case errors.Is(err, ErrNotFound):
		return problem.NewNotFoundProblem("not found")
	case errors.Is(err, ErrInvalidRequestBody):
		return problem.NewBadRequestProblem("invalid request body")
	case errors.Is(err, ErrValidationFailed):
		return problem.NewValidateProblem(err.Error())
	case errors.Is(err, ErrDatabaseError):
		return problem.NewBadRequestProblem("database error")

	// Survey Errors
	case errors.Is(err, ErrSurveyNotFound):
		return problem.NewNotFoundProblem("survey config not found")
	case errors.Is(err, ErrSectionNotFound):
		return problem.NewNotFoundProblem("section not found")
	case errors.Is(err, ErrSubsectionNotFound):
		return problem.NewNotFoundProblem("subsection not found")
	case errors.Is(err, ErrFieldNotFound):
		return problem.NewNotFoundProblem("field not found")
	case errors.Is(err, ErrIndexOutOfRange):
		return problem.NewBadRequestProblem("reorder index out of range")
	case errors.Is(err, ErrOptionIndexOutOfRange):
		return problem.NewBadRequestProblem("option index out of range")
	case errors.Is(err, ErrUnknownCommand):
		return problem.NewBadRequestProblem("unknown builder command")
	case errors.Is(err, ErrSurveyNotActive):
		return problem.NewValidateProblem("survey config is not active")

	// Option Set Errors
	case errors.Is(err, ErrOptionSetNotFound):
		return problem.NewNotFoundProblem("option set not found")
	case errors.Is(err, ErrOptionSetNameTaken):
		return problem.NewValidateProblem("option set name already exists")
	case errors.Is(err, ErrInvalidOptionSetKind):
		return problem.NewBadRequestProblem("invalid option set kind")
	case errors.Is(err, ErrRegistryNotLoaded):
		return problem.NewInternalServerProblem("option set registry not loaded")

	// Instance Errors
	case errors.Is(err, ErrInstanceNotFound):
		return problem.NewNotFoundProblem("survey instance not found")
	case errors.Is(err, ErrInstanceNotActive):
		return problem.NewValidateProblem("survey instance is not active")
	case errors.Is(err, ErrSlugAlreadyExists):
		return problem.NewValidateProblem("instance slug already exists")
	case errors.Is(err, ErrInvalidSlug):
		return problem.NewValidateProblem("instance slug is invalid")
	case errors.Is(err, ErrInvalidDateRange):
		return problem.NewValidateProblem("active date range is invalid")

	// Response Errors
	case errors.Is(err, ErrResponseNotFound):
		return problem.NewNotFoundProblem("response not found")
	case errors.Is(err, ErrSessionNotFound):
		return problem.NewNotFoundProblem("session not found")
	case errors.Is(err, ErrInvalidSessionStatus):
		return problem.NewValidateProblem("invalid session status")
	case errors.Is(err, ErrAnswerValidation):
		return problem.NewValidateProblem(err.Error())

	// Import/Export Errors
	case errors.Is(err, ErrInvalidEnvelope):
		return problem.NewBadRequestProblem("invalid export envelope")
	case errors.Is(err, ErrUnknownEntityType):
		return problem.NewBadRequestProblem("unknown export entity type")
	case errors.Is(err, ErrImportValidation):
		return problem.NewValidateProblem(err.Error())

	// Analytics Errors
	case errors.Is(err, ErrInvalidGranularity):
		return problem.NewBadRequestProblem("invalid time bucket granularity")
	}
	return problem.Problem{}
}
