package services

import (
	"errors"
	"fmt"

	apperrors "github.com/Thanhvan06/japanese-quiz-service/internal/errors"
	"github.com/Thanhvan06/japanese-quiz-service/internal/session"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")

	// Session specific errors
	ErrSessionNotFound = errors.New("session not found")
	ErrNoQuestions     = errors.New("no questions available for this configuration")

	// Result specific errors
	ErrResultNotFound = errors.New("result not found")

	// Import specific errors
	ErrUnsupportedFileFormat = errors.New("unsupported file format")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrResultNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *apperrors.ValidationError
	return errors.As(err, &single)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre)
}

// IsSessionState checks if error comes from the session state machine
// rejecting an operation, which maps to a 409 rather than a 500.
func IsSessionState(err error) bool {
	return errors.Is(err, session.ErrNotActive) ||
		errors.Is(err, session.ErrNotSubmitted) ||
		errors.Is(err, session.ErrNotConfigurable) ||
		errors.Is(err, session.ErrLastQuestionUnanswered)
}

// IsSessionInput checks if error means the caller sent a bad answer or
// index for an otherwise healthy session.
func IsSessionInput(err error) bool {
	return errors.Is(err, session.ErrInvalidAnswer) ||
		errors.Is(err, session.ErrInvalidQuestionIndex)
}

// IsEmptyQuestionSet checks for the empty fetch outcome, which sends the
// session back to configuring.
func IsEmptyQuestionSet(err error) bool {
	return errors.Is(err, session.ErrEmptyQuestionSet) ||
		errors.Is(err, ErrNoQuestions)
}
