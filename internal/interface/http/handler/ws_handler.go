package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/ignatzorin/postjob-backend/internal/interface/http/response"
	"github.com/ignatzorin/postjob-backend/internal/logger"
	"github.com/ignatzorin/postjob-backend/internal/usecase/job"
	"github.com/ignatzorin/postjob-backend/internal/ws"
	"github.com/sirupsen/logrus"
)

// PosterTokenParser проверяет токен управления и возвращает ID задания.
type PosterTokenParser interface {
	Parse(token string) (uuid.UUID, error)
}

// WSHandler подключает клиентов к ленте и к панелям заданий.
type WSHandler struct {
	hub      *ws.Hub
	tokens   PosterTokenParser
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *ws.Hub, tokens PosterTokenParser, allowedOrigins []string) *WSHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return &WSHandler{
		hub:    hub,
		tokens: tokens,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// Handle обслуживает GET /api/ws. Без параметров подписывает на ленту,
// с jobId и token ещё и на события конкретного задания.
func (h *WSHandler) Handle(c *gin.Context) {
	topics := []string{job.TopicFeed}

	if rawID := c.Query("jobId"); rawID != "" {
		jobID, err := uuid.Parse(rawID)
		if err != nil {
			response.BadRequest(c, "некорректный jobId")
			return
		}

		tokenJobID, err := h.tokens.Parse(c.Query("token"))
		if err != nil {
			response.Unauthorized(c, "невалидный токен управления")
			return
		}
		if tokenJobID != jobID {
			response.Forbidden(c, "токен выдан для другого задания")
			return
		}
		topics = append(topics, job.JobTopic(jobID))
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже записал ответ клиенту
		logger.Log.WithFields(logrus.Fields{"error": err.Error()}).Debug("ws: upgrade не удался")
		return
	}

	ws.NewClient(conn, h.hub, topics...).Run(c.Request.Context())
}
