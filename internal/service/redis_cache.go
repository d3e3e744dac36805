package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ignatzorin/postjob-backend/internal/domain/entity"
	"github.com/ignatzorin/postjob-backend/internal/logger"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const feedVersionKey = "postjob:feed:version"

// RedisFeedCache делит кэш ленты между экземплярами сервера.
// Ключи включают номер версии. Инвалидация увеличивает версию через INCR,
// старые записи доживают до TTL и больше не читаются.
type RedisFeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisFeedCache подключается к Redis. Формат URL: redis://localhost:6379/0
func NewRedisFeedCache(redisURL string, ttl time.Duration) (*RedisFeedCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis cache: некорректный URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis cache: ping не прошёл: %w", err)
	}

	return newRedisFeedCache(client, ttl), nil
}

func newRedisFeedCache(client *redis.Client, ttl time.Duration) *RedisFeedCache {
	return &RedisFeedCache{client: client, ttl: ttl}
}

// GetFeed при любой ошибке Redis возвращает промах, лента строится из хранилища.
func (c *RedisFeedCache) GetFeed(ctx context.Context, key string) ([]*entity.Job, bool) {
	version, err := c.version(ctx)
	if err != nil {
		c.logError("чтение версии ленты", err)
		return nil, false
	}

	data, err := c.client.Get(ctx, feedEntryKey(version, key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logError("чтение ленты", err)
		}
		return nil, false
	}

	var jobs []*entity.Job
	if err := json.Unmarshal(data, &jobs); err != nil {
		c.logError("разбор ленты", err)
		return nil, false
	}
	return jobs, true
}

func (c *RedisFeedCache) SetFeed(ctx context.Context, key string, jobs []*entity.Job) {
	if c.ttl <= 0 {
		return
	}

	version, err := c.version(ctx)
	if err != nil {
		c.logError("чтение версии ленты", err)
		return
	}

	data, err := json.Marshal(jobs)
	if err != nil {
		c.logError("сериализация ленты", err)
		return
	}

	if err := c.client.Set(ctx, feedEntryKey(version, key), data, c.ttl).Err(); err != nil {
		c.logError("запись ленты", err)
	}
}

func (c *RedisFeedCache) InvalidateFeed(ctx context.Context) {
	if err := c.client.Incr(ctx, feedVersionKey).Err(); err != nil {
		c.logError("инвалидация ленты", err)
	}
}

func (c *RedisFeedCache) Close() error {
	return c.client.Close()
}

func (c *RedisFeedCache) version(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, feedVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *RedisFeedCache) logError(op string, err error) {
	logger.Log.WithFields(logrus.Fields{
		"op":    op,
		"error": err.Error(),
	}).Warn("ошибка кэша ленты в Redis")
}

func feedEntryKey(version int64, key string) string {
	return fmt.Sprintf("postjob:feed:v%d:%s", version, key)
}
