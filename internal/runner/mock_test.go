package runner

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dm/eams-go/internal/model"
	"github.com/dm/eams-go/internal/store"
)

var errMockFailure = errors.New("mock failure")

// MockCache is a test double for store.AnalyticsCache. Nil funcs behave like
// an empty cache that accepts writes.
type MockCache struct {
	GetFn func(ctx context.Context, id string) (store.CachedAnalytics, error)
	PutFn func(ctx context.Context, a store.CachedAnalytics) error

	mu   sync.Mutex
	puts []store.CachedAnalytics
}

func (m *MockCache) Get(ctx context.Context, id string) (store.CachedAnalytics, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return store.CachedAnalytics{}, store.ErrNotFound
}

func (m *MockCache) Put(ctx context.Context, a store.CachedAnalytics) error {
	m.mu.Lock()
	m.puts = append(m.puts, a)
	m.mu.Unlock()
	if m.PutFn != nil {
		return m.PutFn(ctx, a)
	}
	return nil
}

func (m *MockCache) Close() error { return nil }

// MockHistory is a test double for HistoryWriter.
type MockHistory struct {
	SaveFn func(ctx context.Context, id string, at time.Time, a *model.MasterHealthAssessment) (string, error)
}

func (m *MockHistory) Save(ctx context.Context, id string, at time.Time, a *model.MasterHealthAssessment) (string, error) {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, id, at, a)
	}
	return "hist-" + id, nil
}

// MockRecorder collects recorded results.
type MockRecorder struct {
	mu      sync.Mutex
	results []Result
}

func (m *MockRecorder) Record(r Result) {
	m.mu.Lock()
	m.results = append(m.results, r)
	m.mu.Unlock()
}

func (m *MockRecorder) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.results)
}
