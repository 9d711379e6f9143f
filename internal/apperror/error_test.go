package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsAppError_ThroughWrapping(t *testing.T) {
	base := NewInsufficientStock("p1", 3, 2)
	wrapped := fmt.Errorf("create sale: %w", base)

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeInsufficientStock, appErr.Code)
	assert.Equal(t, 2, appErr.Details["available"])
	assert.Equal(t, 3, appErr.Details["requested"])
	assert.Equal(t, http.StatusConflict, GetHTTPStatus(wrapped))
	assert.True(t, HasCode(wrapped, CodeInsufficientStock))
}

func TestServerFault_KeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewServerFault(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Internal server error", err.Message)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestGetHTTPStatus_PlainError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(errors.New("boom")))
	assert.False(t, HasCode(errors.New("boom"), CodeForbidden))
}

func TestWithDetail(t *testing.T) {
	err := NewForbidden("nope").WithDetail("path", "/api/x")
	assert.Equal(t, "/api/x", err.Details["path"])
	assert.Equal(t, http.StatusForbidden, err.HTTPStatus)
}
