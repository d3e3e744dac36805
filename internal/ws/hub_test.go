package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ignatzorin/postjob-backend/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.Discard()
}

// newTestServer поднимает сервер, который подписывает каждое подключение
// на темы из параметра topic.
func newTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		NewClient(conn, hub, r.URL.Query()["topic"]...).Run(r.Context())
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_PublishReachesOnlyTopicSubscribers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub()
	go hub.Run(ctx)
	srv := newTestServer(t, hub)

	feed := dial(t, srv, "topic=feed")
	dashboard := dial(t, srv, "topic=feed&topic=job:1")
	require.Eventually(t, func() bool {
		return hub.Subscribers("feed") == 2 && hub.Subscribers("job:1") == 1
	}, time.Second, 10*time.Millisecond)

	hub.Publish("job:1", "job_accepted", map[string]int{"acceptedCount": 1})
	hub.Publish("feed", "job_created", map[string]string{"title": "Уборка"})

	var env struct {
		Type  string          `json:"type"`
		Topic string          `json:"topic"`
		Data  json.RawMessage `json:"data"`
	}

	_ = dashboard.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, dashboard.ReadJSON(&env))
	assert.Equal(t, "job_accepted", env.Type)
	assert.JSONEq(t, `{"acceptedCount":1}`, string(env.Data))
	require.NoError(t, dashboard.ReadJSON(&env))
	assert.Equal(t, "job_created", env.Type)

	_ = feed.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, feed.ReadJSON(&env))
	assert.Equal(t, "job_created", env.Type)
	assert.Equal(t, "feed", env.Topic)
}

func TestHub_UnregistersClosedClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub()
	go hub.Run(ctx)
	srv := newTestServer(t, hub)

	conn := dial(t, srv, "topic=feed")
	require.Eventually(t, func() bool { return hub.Subscribers("feed") == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Subscribers("feed") == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_PublishAfterStopDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish("feed", "job_created", nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish заблокировался после остановки хаба")
	}
}
