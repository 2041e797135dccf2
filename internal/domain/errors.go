package domain

import "errors"

// Domain-specific errors for business logic validation.
var (
	// Agent errors
	ErrAgentNotFound      = errors.New("agent not found")
	ErrAgentAlreadyExists = errors.New("agent already exists")

	// Organization errors
	ErrOrganizationNotFound      = errors.New("organization not found")
	ErrOrganizationAlreadyExists = errors.New("organization already exists")

	// Auth errors
	ErrInvalidToken = errors.New("invalid authentication token")

	// Validation errors
	ErrEmptyLogType        = errors.New("log type is required")
	ErrInvalidLogData      = errors.New("log data must be a JSON object")
	ErrEmptyAgentID        = errors.New("agent_id is required")
	ErrEmptyAgentName      = errors.New("agent name is required")
	ErrInvalidHealthStatus = errors.New("invalid health status")
	ErrInvalidAgentStatus  = errors.New("invalid agent status")
)
