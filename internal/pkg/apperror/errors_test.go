package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_MapsCodeToHTTPStatus(t *testing.T) {
	cases := map[ErrorCode]int{
		ErrCodeNotFound:      http.StatusNotFound,
		ErrCodeUnauthorized:  http.StatusUnauthorized,
		ErrCodeForbidden:     http.StatusForbidden,
		ErrCodeBadRequest:    http.StatusBadRequest,
		ErrCodeValidation:    http.StatusBadRequest,
		ErrCodeConflict:      http.StatusConflict,
		ErrCodeDatabaseError: http.StatusInternalServerError,
		ErrCodeInternal:      http.StatusInternalServerError,
	}

	for code, status := range cases {
		assert.Equal(t, status, New(code, "x").HTTPStatus, string(code))
	}
	assert.Equal(t, http.StatusInternalServerError, ErrorCode("UNKNOWN").HTTPStatus())
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, ErrCodeDatabaseError, "не удалось сохранить задание")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestIs_MatchesWrappedSentinel(t *testing.T) {
	err := fmt.Errorf("accept: %w", ErrJobFilled)

	assert.ErrorIs(t, err, ErrJobFilled)
	assert.NotErrorIs(t, err, ErrAlreadyAccepted)
	assert.True(t, IsConflict(err))
	assert.False(t, IsNotFound(err))
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsNotFound(ErrJobNotFound))
	assert.True(t, IsValidation(New(ErrCodeValidation, "bad")))
	assert.False(t, IsValidation(errors.New("plain")))
	assert.False(t, IsNotFound(nil))
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("repo: %w", Wrap(errors.New("timeout"), ErrCodeDatabaseError, "не удалось получить задания"))

	assert.Equal(t, ErrCodeDatabaseError, CodeOf(wrapped))
	assert.Equal(t, ErrCodeConflict, CodeOf(ErrAlreadyAccepted))
	assert.Equal(t, ErrCodeInternal, CodeOf(errors.New("plain")))
}
