package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ignatzorin/postjob-backend/internal/interface/http/response"
)

const maxLimit = 50

// parseID разбирает параметр пути. При ошибке ответ уже отправлен.
func parseID(c *gin.Context, param, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		response.BadRequest(c, message)
		return uuid.Nil, false
	}
	return id, true
}

// parseLimit возвращает 0, если limit не задан: тогда действует значение по умолчанию.
func parseLimit(c *gin.Context) (int, bool) {
	valueStr := c.Query("limit")
	if valueStr == "" {
		return 0, true
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil || value < 1 || value > maxLimit {
		response.BadRequest(c, "limit должен быть числом от 1 до 50")
		return 0, false
	}
	return value, true
}

// splitList разбирает список через запятую, пустые элементы пропускаются.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
