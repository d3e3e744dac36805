package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ignatzorin/postjob-backend/internal/interface/http/response"
)

// ContextJobIDKey хранит в gin.Context ID задания из токена.
const ContextJobIDKey = "posterJobID"

type PosterTokenParser interface {
	Parse(token string) (uuid.UUID, error)
}

// PosterAuth пропускает запрос, только если Bearer токен выдан для задания из параметра пути.
func PosterAuth(tokens PosterTokenParser, paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			response.Unauthorized(c, "требуется токен управления заданием")
			return
		}

		jobID, err := tokens.Parse(strings.TrimPrefix(auth, "Bearer "))
		if err != nil || jobID == uuid.Nil {
			response.Unauthorized(c, "токен невалиден")
			return
		}

		if c.Param(paramName) != jobID.String() {
			response.Forbidden(c, "токен выдан для другого задания")
			return
		}

		c.Set(ContextJobIDKey, jobID)
		c.Next()
	}
}
