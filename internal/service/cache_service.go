package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ignatzorin/postjob-backend/internal/domain/entity"
	"github.com/ignatzorin/postjob-backend/internal/goroutine"
)

const feedKeyPrefix = "feed:"

// CacheService хранит выдачи ленты в памяти процесса с TTL.
// Задания отдаются копиями, чтобы вызывающий код не портил кэш.
type CacheService struct {
	mu    sync.RWMutex
	cache map[string]*cacheEntry
	ttl   time.Duration
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

type cacheEntry struct {
	jobs      []*entity.Job
	expiresAt time.Time
}

func NewCacheService(ttl time.Duration) *CacheService {
	cs := &CacheService{
		cache: make(map[string]*cacheEntry),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}

	goroutine.SafeGo("feed-cache-cleanup", func() { cs.cleanup(time.Minute) })

	return cs
}

func (cs *CacheService) GetFeed(_ context.Context, key string) ([]*entity.Job, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	entry, ok := cs.cache[feedKeyPrefix+key]
	if !ok || cs.now().After(entry.expiresAt) {
		// Просроченные записи удаляет cleanup
		return nil, false
	}
	return cloneJobs(entry.jobs), true
}

func (cs *CacheService) SetFeed(_ context.Context, key string, jobs []*entity.Job) {
	if cs.ttl <= 0 {
		return
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.cache[feedKeyPrefix+key] = &cacheEntry{
		jobs:      cloneJobs(jobs),
		expiresAt: cs.now().Add(cs.ttl),
	}
}

// InvalidateFeed сбрасывает все варианты ленты.
func (cs *CacheService) InvalidateFeed(_ context.Context) {
	cs.InvalidateByPrefix(feedKeyPrefix)
}

func (cs *CacheService) InvalidateByPrefix(prefix string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	for key := range cs.cache {
		if strings.HasPrefix(key, prefix) {
			delete(cs.cache, key)
		}
	}
}

func (cs *CacheService) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.cache)
}

// Close останавливает фоновую очистку.
func (cs *CacheService) Close() error {
	cs.once.Do(func() { close(cs.stop) })
	return nil
}

func (cs *CacheService) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-cs.stop:
			return
		case <-ticker.C:
			cs.removeExpired()
		}
	}
}

func (cs *CacheService) removeExpired() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	now := cs.now()
	for key, entry := range cs.cache {
		if now.After(entry.expiresAt) {
			delete(cs.cache, key)
		}
	}
}

func cloneJobs(jobs []*entity.Job) []*entity.Job {
	out := make([]*entity.Job, len(jobs))
	for i, j := range jobs {
		out[i] = j.Clone()
	}
	return out
}
