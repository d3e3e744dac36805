package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ignatzorin/postjob-backend/internal/logger"
	"github.com/ignatzorin/postjob-backend/internal/pkg/apperror"
	"github.com/sirupsen/logrus"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

func SuccessWithMessage(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
		Message: message,
	})
}

func Created(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// Error отдаёт AppError с его кодом. Остальные ошибки маскируются как внутренние.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		message := appErr.Message
		if status >= http.StatusInternalServerError {
			logInternal(c, err)
			message = "внутренняя ошибка сервера"
		}
		abort(c, status, string(appErr.Code), message)
		return
	}

	logInternal(c, err)
	abort(c, http.StatusInternalServerError, string(apperror.ErrCodeInternal), "внутренняя ошибка сервера")
}

func logInternal(c *gin.Context, err error) {
	logger.Log.WithFields(logrus.Fields{
		"error":  err.Error(),
		"method": c.Request.Method,
		"path":   c.FullPath(),
	}).Error("ошибка обработки запроса")
}

func BadRequest(c *gin.Context, message string) {
	abort(c, http.StatusBadRequest, string(apperror.ErrCodeBadRequest), message)
}

func NotFound(c *gin.Context, message string) {
	abort(c, http.StatusNotFound, string(apperror.ErrCodeNotFound), message)
}

func Unauthorized(c *gin.Context, message string) {
	abort(c, http.StatusUnauthorized, string(apperror.ErrCodeUnauthorized), message)
}

func Forbidden(c *gin.Context, message string) {
	abort(c, http.StatusForbidden, string(apperror.ErrCodeForbidden), message)
}

func TooManyRequests(c *gin.Context, message string) {
	abort(c, http.StatusTooManyRequests, "RATE_LIMITED", message)
}

func ServiceUnavailable(c *gin.Context, data interface{}, message string) {
	c.AbortWithStatusJSON(http.StatusServiceUnavailable, Response{
		Success: false,
		Data:    data,
		Error: &ErrorInfo{
			Code:    "SERVICE_UNAVAILABLE",
			Message: message,
		},
	})
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}
