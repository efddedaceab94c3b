package apierr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		msg      string
		sentinel error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, msg: "Invalid token", sentinel: ErrUnauthorized},
		{name: "forbidden maps to unauthorized", status: http.StatusForbidden, msg: "", sentinel: ErrUnauthorized},
		{name: "not found", status: http.StatusNotFound, msg: "Pokemon not found", sentinel: ErrNotFound},
		{name: "conflict", status: http.StatusConflict, msg: "Team is full", sentinel: ErrConflict},
		{name: "bad request", status: http.StatusBadRequest, msg: "name is required", sentinel: ErrValidation},
		{name: "server error", status: http.StatusInternalServerError, msg: "", sentinel: ErrRemote},
		{name: "bad gateway", status: http.StatusBadGateway, msg: "", sentinel: ErrRemote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromStatus(tt.status, tt.msg)
			assert.ErrorIs(t, err, tt.sentinel)
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	err := ValidationError("email", "required")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "email: required: validation failed", err.Error())
}

func TestNetworkError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := NetworkError(cause)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "boom", Message(errors.New("boom")))
}
