package dto

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mtlprog/nexus/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrAgentNotFound, http.StatusNotFound, "AGENT_NOT_FOUND"},
		{fmt.Errorf("create: %w", domain.ErrAgentAlreadyExists), http.StatusConflict, "AGENT_ALREADY_EXISTS"},
		{domain.ErrInvalidToken, http.StatusUnauthorized, "INVALID_TOKEN"},
		{domain.ErrEmptyLogType, http.StatusBadRequest, "VALIDATION_ERROR"},
		{fmt.Errorf("%w: %q", domain.ErrInvalidHealthStatus, "ok"), http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{domain.ErrInvalidLogData, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		status, code, message := MapDomainError(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.code, code)
		assert.Equal(t, tt.err.Error(), message)
	}
}

func TestMapDomainError_HidesUnknown(t *testing.T) {
	status, code, message := MapDomainError(errors.New("pool exhausted: host=db password=x"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", code)
	assert.Equal(t, "Internal server error", message)
}
