package usecase

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"SemiDash/internal/domain/models"
	domrepo "SemiDash/internal/domain/repository"
)

// --- Mocks ---

type MockStatementSource struct {
	FetchFunc func(ctx context.Context, symbol string, variant domrepo.StatementVariant) ([]models.RawStatement, error)
}

func (m *MockStatementSource) Fetch(ctx context.Context, symbol string, variant domrepo.StatementVariant) ([]models.RawStatement, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, symbol, variant)
	}
	return nil, nil
}

type MockFilingSource struct {
	FetchPeriodFunc func(ctx context.Context, corpKey string, year int, period domrepo.PeriodCode) (map[string]decimal.Decimal, error)
	calls           atomic.Int32
}

func (m *MockFilingSource) FetchPeriod(ctx context.Context, corpKey string, year int, period domrepo.PeriodCode) (map[string]decimal.Decimal, error) {
	m.calls.Add(1)
	if m.FetchPeriodFunc != nil {
		return m.FetchPeriodFunc(ctx, corpKey, year, period)
	}
	return nil, nil
}

type MockFxSource struct {
	FetchDailySeriesFunc func(ctx context.Context, pair, from, to string) ([]models.FxQuote, error)

	mu    sync.Mutex
	pairs []string
}

func (m *MockFxSource) FetchDailySeries(ctx context.Context, pair, from, to string) ([]models.FxQuote, error) {
	m.mu.Lock()
	m.pairs = append(m.pairs, pair)
	m.mu.Unlock()
	if m.FetchDailySeriesFunc != nil {
		return m.FetchDailySeriesFunc(ctx, pair, from, to)
	}
	return nil, nil
}

func (m *MockFxSource) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.pairs...)
}

type MockStatementLoader struct {
	FetchFunc func(ctx context.Context, symbol string) ([]models.RawStatement, error)
}

func (m *MockStatementLoader) Fetch(ctx context.Context, symbol string) ([]models.RawStatement, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, symbol)
	}
	return nil, ErrNoData
}

type MockFilingLoader struct {
	DecomposeFunc func(ctx context.Context, corpCode string) ([]models.RawStatement, error)
}

func (m *MockFilingLoader) Decompose(ctx context.Context, corpCode string) ([]models.RawStatement, error) {
	if m.DecomposeFunc != nil {
		return m.DecomposeFunc(ctx, corpCode)
	}
	return nil, ErrNoData
}

type MockStaticMetrics struct {
	ReadFunc func(entityID string) ([]models.DomainMetric, error)
}

func (m *MockStaticMetrics) Read(entityID string) ([]models.DomainMetric, error) {
	if m.ReadFunc != nil {
		return m.ReadFunc(entityID)
	}
	return nil, nil
}

type MockNotifier struct {
	mu        sync.Mutex
	Snapshots []models.DashboardSnapshot
}

func (m *MockNotifier) Notify(_ context.Context, snap models.DashboardSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Snapshots = append(m.Snapshots, snap)
	return nil
}

// MockCache is a map-backed SnapshotCache that counts writes.
type MockCache struct {
	mu     sync.Mutex
	data   map[string]models.DashboardSnapshot
	writes int
}

func NewMockCache() *MockCache {
	return &MockCache{data: map[string]models.DashboardSnapshot{}}
}

func (c *MockCache) Get(_ context.Context, key string) (models.DashboardSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.data[key]
	return s, ok
}

func (c *MockCache) Set(_ context.Context, key string, data models.DashboardSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.writes++
}

func (c *MockCache) Invalidate(_ context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(keys) == 0 {
		c.data = map[string]models.DashboardSnapshot{}
		return
	}
	for _, k := range keys {
		delete(c.data, k)
	}
}

func (c *MockCache) Writes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes
}

func ptr(v float64) *float64 { return &v }
