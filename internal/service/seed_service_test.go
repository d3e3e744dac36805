package service

import (
	"context"
	"testing"
	"time"

	"github.com/ignatzorin/postjob-backend/internal/domain/valueobject"
	"github.com/ignatzorin/postjob-backend/internal/infrastructure/persistence/memory"
	"github.com/ignatzorin/postjob-backend/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockFeed struct {
	mock.Mock
}

func (m *mockFeed) InvalidateFeed(ctx context.Context) {
	m.Called(ctx)
}

var seedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

const smallSeed = `
workers:
  - key: jean
    name: Jean
    phone: "+250 788 100 001"
    skills: [construction]
    location: Kigali
    stats: {jobsCompleted: 25, responseRate: 95, avgResponseTime: 5, reliability: 90}
  - key: aline
    name: Aline
    phone: "+250 788 100 002"
    skills: [cooking]
    location: Huye
jobs:
  - title: Стройка
    workersNeeded: 1
    duration: 3
    durationType: hours
    location: Kigali
    skills: [construction]
    posterName: Olivier
    posterPhone: "+250 788 200 001"
    ageMinutes: 90
    acceptedBy: [jean]
  - title: Повар
    workersNeeded: 2
    duration: 1
    durationType: days
    location: Huye
    skills: [cooking]
    posterName: Grace
    posterPhone: "+250 788 200 002"
`

func TestBuildSeed(t *testing.T) {
	file, err := ParseSeed([]byte(smallSeed))
	require.NoError(t, err)

	jobs, workers, err := BuildSeed(file, seedNow)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	require.Len(t, workers, 2)

	jean := workers[0]
	assert.Equal(t, "+250788100001", jean.Phone)
	assert.Len(t, jean.Badges, 3)
	assert.Equal(t, valueobject.DefaultWorkerStats(), workers[1].Stats)

	build := jobs[0]
	assert.Equal(t, seedNow.Add(-90*time.Minute), build.CreatedAt)
	assert.Equal(t, valueobject.JobStatusFilled, build.Status)
	assert.True(t, build.HasAccepted(jean.ID))
	assert.True(t, jean.HasAcceptedJob(build.ID))
	assert.Len(t, build.MatchScores, 2)
	assert.Greater(t, build.MatchScores[jean.ID], build.MatchScores[workers[1].ID])
}

func TestBuildSeed_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"неизвестный навык", "workers:\n  - {name: Jean, phone: '+250788100001', skills: [juggling]}\n"},
		{"плохой телефон", "workers:\n  - {name: Jean, phone: 'abc'}\n"},
		{"повторный ключ", "workers:\n  - {key: a, name: Jean, phone: '+250788100001'}\n  - {key: a, name: Eric, phone: '+250788100002'}\n"},
		{"неизвестный работник", "jobs:\n  - {title: Уборка, workersNeeded: 1, duration: 1, durationType: days, posterPhone: '+250788200001', acceptedBy: [ghost]}\n"},
		{"лишнее принятие", "workers:\n  - {key: a, name: Jean, phone: '+250788100001'}\n  - {key: b, name: Eric, phone: '+250788100002'}\njobs:\n  - {title: Уборка, workersNeeded: 1, duration: 1, durationType: days, posterPhone: '+250788200001', acceptedBy: [a, b]}\n"},
		{"некорректная длительность", "jobs:\n  - {title: Уборка, workersNeeded: 1, duration: 1, durationType: months, posterPhone: '+250788200001'}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := ParseSeed([]byte(tt.yaml))
			require.NoError(t, err)
			_, _, err = BuildSeed(file, seedNow)
			assert.Error(t, err)
		})
	}
}

func TestParseSeed_InvalidYAML(t *testing.T) {
	_, err := ParseSeed([]byte("workers: [unclosed"))
	assert.Error(t, err)
}

func TestSeedService_ResetFromRepositoryFile(t *testing.T) {
	logger.Discard()
	ctx := context.Background()
	store := memory.NewStore()
	feed := new(mockFeed)
	feed.On("InvalidateFeed", mock.Anything).Twice()

	svc := NewSeedService(store.Jobs(), store.Workers(), store, feed, "../../seeds/seed.yaml")
	svc.now = func() time.Time { return seedNow }

	res, err := svc.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, &SeedResult{Jobs: 6, Workers: 6}, res)

	jobs, err := store.Jobs().List(ctx)
	require.NoError(t, err)
	var filled, cancelled int
	for _, j := range jobs {
		switch j.Status {
		case valueobject.JobStatusFilled:
			filled++
		case valueobject.JobStatusCancelled:
			cancelled++
		}
	}
	assert.Equal(t, 1, filled)
	assert.Equal(t, 1, cancelled)

	// Повторный сброс заменяет данные, а не дописывает.
	_, err = svc.Reset(ctx)
	require.NoError(t, err)
	workers, err := store.Workers().List(ctx)
	require.NoError(t, err)
	assert.Len(t, workers, 6)

	feed.AssertExpectations(t)
}

func TestSeedService_MissingFile(t *testing.T) {
	store := memory.NewStore()
	svc := NewSeedService(store.Jobs(), store.Workers(), store, nil, "does-not-exist.yaml")
	_, err := svc.Reset(context.Background())
	assert.Error(t, err)
}
