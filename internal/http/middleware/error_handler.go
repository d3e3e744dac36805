package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/ignatzorin/postjob-backend/internal/interface/http/response"
	"github.com/ignatzorin/postjob-backend/internal/logger"
	"github.com/sirupsen/logrus"
)

// ErrorHandler отвечает за ошибки, добавленные через c.Error, если handler
// сам ничего не записал. AppError отдаётся с её кодом, остальное маскируется.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		response.Error(c, c.Errors.Last().Err)
	}
}

// Recovery перехватывает панику, пишет её в лог и отвечает 500 в общем формате.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Log.WithFields(logrus.Fields{
					"panic":  fmt.Sprint(r),
					"method": c.Request.Method,
					"path":   c.Request.URL.Path,
					"stack":  string(debug.Stack()),
				}).Error("паника при обработке запроса")

				if !c.Writer.Written() {
					response.Error(c, fmt.Errorf("panic: %v", r))
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
