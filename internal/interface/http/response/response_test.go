package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ignatzorin/postjob-backend/internal/logger"
	"github.com/ignatzorin/postjob-backend/internal/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, fn func(c *gin.Context)) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.Discard()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	fn(c)

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestError_AppError(t *testing.T) {
	w, body := render(t, func(c *gin.Context) { Error(c, apperror.ErrJobFilled) })

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "CONFLICT", body.Error.Code)
	assert.Equal(t, apperror.ErrJobFilled.Message, body.Error.Message)
}

func TestError_MasksInternalErrors(t *testing.T) {
	w, body := render(t, func(c *gin.Context) {
		Error(c, apperror.Wrap(errors.New("pq: connection refused"), apperror.ErrCodeDatabaseError, "не удалось сохранить"))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "DATABASE_ERROR", body.Error.Code)
	assert.Equal(t, "внутренняя ошибка сервера", body.Error.Message)

	w, body = render(t, func(c *gin.Context) { Error(c, errors.New("boom")) })
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
}

func TestCreated_WithMessage(t *testing.T) {
	w, body := render(t, func(c *gin.Context) { Created(c, gin.H{"id": 1}, "задание создано") })

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, body.Success)
	assert.Equal(t, "задание создано", body.Message)
	assert.Nil(t, body.Error)
}
