package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mtlprog/nexus/api"
	"github.com/mtlprog/nexus/internal/domain"
)

// NewErrorResponse creates a new error response.
func NewErrorResponse(code, message string) api.ErrorResponse {
	return api.ErrorResponse{
		Error: api.ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// MapDomainError maps domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code string, message string) {
	message = err.Error()

	switch {
	// Agent errors
	case errors.Is(err, domain.ErrAgentNotFound):
		return http.StatusNotFound, "AGENT_NOT_FOUND", message
	case errors.Is(err, domain.ErrAgentAlreadyExists):
		return http.StatusConflict, "AGENT_ALREADY_EXISTS", message

	// Organization errors
	case errors.Is(err, domain.ErrOrganizationNotFound):
		return http.StatusNotFound, "ORGANIZATION_NOT_FOUND", message
	case errors.Is(err, domain.ErrOrganizationAlreadyExists):
		return http.StatusConflict, "ORGANIZATION_ALREADY_EXISTS", message

	// Auth errors
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, "INVALID_TOKEN", message

	// Validation errors
	case errors.Is(err, domain.ErrEmptyLogType),
		errors.Is(err, domain.ErrEmptyAgentID),
		errors.Is(err, domain.ErrEmptyAgentName):
		return http.StatusBadRequest, "VALIDATION_ERROR", message
	case errors.Is(err, domain.ErrInvalidLogData),
		errors.Is(err, domain.ErrInvalidHealthStatus),
		errors.Is(err, domain.ErrInvalidAgentStatus):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message

	default:
		slog.Error("unmapped domain error returned to client",
			"error", err,
			"error_type", fmt.Sprintf("%T", err),
		)
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
	}
}
