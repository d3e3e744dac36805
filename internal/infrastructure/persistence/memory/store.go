// Package memory хранит задания и работников в памяти процесса.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/ignatzorin/postjob-backend/internal/domain/entity"
)

type txKey struct{}

// Store хранит задания и работников в памяти процесса.
// Транзакции выполняются строго по одной; снимок данных восстанавливается,
// если транзакция вернула ошибку.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	jobs        []*entity.Job
	jobIndex    map[uuid.UUID]int
	workers     []*entity.Worker
	workerIndex map[uuid.UUID]int
	phoneIndex  map[string]uuid.UUID
}

func NewStore() *Store {
	return &Store{
		jobIndex:    make(map[uuid.UUID]int),
		workerIndex: make(map[uuid.UUID]int),
		phoneIndex:  make(map[string]uuid.UUID),
	}
}

func (s *Store) Jobs() *JobRepository {
	return &JobRepository{store: s}
}

func (s *Store) Workers() *WorkerRepository {
	return &WorkerRepository{store: s}
}

// WithinTransaction выполняет fn под общей блокировкой записи.
// Вложенный вызов выполняется в рамках внешней транзакции.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	defer func() {
		if r := recover(); r != nil {
			s.restore(snap)
			panic(r)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *Store) Ping(context.Context) error {
	return nil
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// lockWrites не даёт записи вне транзакции вклиниться в чужую транзакцию.
func (s *Store) lockWrites(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.txMu.Lock()
	return s.txMu.Unlock
}

type snapshot struct {
	jobs    []*entity.Job
	workers []*entity.Worker
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := snapshot{
		jobs:    make([]*entity.Job, len(s.jobs)),
		workers: make([]*entity.Worker, len(s.workers)),
	}
	for i, j := range s.jobs {
		snap.jobs[i] = j.Clone()
	}
	for i, w := range s.workers {
		snap.workers[i] = w.Clone()
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setJobs(snap.jobs)
	s.setWorkers(snap.workers)
}

// setJobs и setWorkers вызываются под s.mu.
func (s *Store) setJobs(jobs []*entity.Job) {
	s.jobs = jobs
	s.jobIndex = make(map[uuid.UUID]int, len(jobs))
	for i, j := range jobs {
		s.jobIndex[j.ID] = i
	}
}

func (s *Store) setWorkers(workers []*entity.Worker) {
	s.workers = workers
	s.workerIndex = make(map[uuid.UUID]int, len(workers))
	s.phoneIndex = make(map[string]uuid.UUID, len(workers))
	for i, w := range workers {
		s.workerIndex[w.ID] = i
		s.phoneIndex[w.Phone] = w.ID
	}
}
