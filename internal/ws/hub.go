package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ignatzorin/postjob-backend/internal/goroutine"
	"github.com/ignatzorin/postjob-backend/internal/logger"
	"github.com/sirupsen/logrus"
)

// Hub раздаёт события подписчикам тем. Лента подписана на "feed",
// панель заказчика на "job:<id>".
type Hub struct {
	mu         sync.RWMutex
	topics     map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	done       chan struct{}
}

type message struct {
	topic   string
	payload []byte
}

// Envelope задаёт формат сообщения для клиента: имя события и полезная нагрузка.
type Envelope struct {
	Type  string `json:"type"`
	Topic string `json:"topic"`
	Data  any    `json:"data"`
}

func NewHub() *Hub {
	return &Hub{
		topics:     make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 64),
		done:       make(chan struct{}),
	}
}

// Run запускает главный цикл хаба до отмены контекста.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.send(msg.topic, msg.payload)
		}
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish отправляет событие всем подписчикам темы. После остановки хаба
// события отбрасываются.
func (h *Hub) Publish(topic, event string, data any) {
	raw, err := json.Marshal(Envelope{Type: event, Topic: topic, Data: data})
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"topic": topic,
			"event": event,
			"error": err.Error(),
		}).Error("ws: не удалось сериализовать сообщение")
		return
	}

	select {
	case h.broadcast <- message{topic: topic, payload: raw}:
	case <-h.done:
	}
}

// Subscribers возвращает число клиентов, подписанных на тему.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, topic := range client.topics {
		if _, ok := h.topics[topic]; !ok {
			h.topics[topic] = make(map[*Client]struct{})
		}
		h.topics[topic][client] = struct{}{}
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, topic := range client.topics {
		if clients, ok := h.topics[topic]; ok {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.topics, topic)
			}
		}
	}
}

func (h *Hub) send(topic string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.topics[topic] {
		select {
		case client.send <- payload:
		default:
			// Медленный клиент: отключаем, чтобы не тормозить остальных
			c := client
			goroutine.SafeGo("ws-close-slow-client", c.Close)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	clients := make(map[*Client]struct{})
	for _, set := range h.topics {
		for c := range set {
			clients[c] = struct{}{}
		}
	}
	h.topics = make(map[string]map[*Client]struct{})
	h.mu.Unlock()

	for c := range clients {
		c.closeConn()
	}
}
