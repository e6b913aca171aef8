package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarriesCodeAndMessage(t *testing.T) {
	err := New(http.StatusConflict, "time slot already booked")

	assert.Equal(t, http.StatusConflict, err.Code)
	assert.Equal(t, "time slot already booked", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}

func TestWrapKeepsCauseReachable(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, http.StatusInternalServerError, "store unavailable")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "store unavailable: connection refused", err.Error())

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	// The response body only ever sees Message, not the cause.
	assert.Equal(t, "store unavailable", appErr.Message)
}
