package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/spacelease/internal/failure"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes by category.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, failure.ErrNotFound):
		return &APIError{Code: "NOT_FOUND", Message: err.Error(), RecoveryHint: "Check the ID spelling"}
	case errors.Is(err, failure.ErrDuplicate):
		return &APIError{Code: "DUPLICATE_RESOURCE", Message: err.Error(), RecoveryHint: "Use a different value for the unique field"}
	case errors.Is(err, failure.ErrConflict):
		return &APIError{Code: "CONFLICT", Message: err.Error(), RecoveryHint: "Reload the resource and check its current status"}
	case errors.Is(err, failure.ErrBadRequest):
		return &APIError{Code: "BAD_REQUEST", Message: err.Error(), RecoveryHint: "Fix the arguments and retry"}
	case errors.Is(err, failure.ErrBusiness):
		return &APIError{Code: "BUSINESS_ERROR", Message: err.Error(), RecoveryHint: "Nothing was changed; retry later"}
	default:
		return &APIError{Code: "INTERNAL_ERROR", Message: err.Error()}
	}
}
