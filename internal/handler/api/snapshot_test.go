package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "SemiDash/internal/domain/models"
	"SemiDash/internal/usecase"
)

type MockSnapshotService struct {
	SnapshotFunc   func(ctx context.Context, cohort string, force bool) (models.SnapshotResponse, error)
	InvalidateFunc func(ctx context.Context, cohort string) error
	rosters        map[string][]models.EntityDefinition
	forces         []bool
	invalidated    []string
}

func (m *MockSnapshotService) Cohorts() []string {
	out := []string{}
	for _, c := range models.Cohorts {
		if _, ok := m.rosters[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

func (m *MockSnapshotService) Roster(cohort string) ([]models.EntityDefinition, error) {
	r, ok := m.rosters[cohort]
	if !ok {
		return nil, fmt.Errorf("%w: %s", usecase.ErrUnknownCohort, cohort)
	}
	return r, nil
}

func (m *MockSnapshotService) Snapshot(ctx context.Context, cohort string, force bool) (models.SnapshotResponse, error) {
	m.forces = append(m.forces, force)
	if m.SnapshotFunc != nil {
		return m.SnapshotFunc(ctx, cohort, force)
	}
	if _, ok := m.rosters[cohort]; !ok {
		return models.SnapshotResponse{}, fmt.Errorf("%w: %s", usecase.ErrUnknownCohort, cohort)
	}
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return models.SnapshotResponse{
		Success:     true,
		Data:        models.DashboardSnapshot{Cohort: cohort, Entities: map[string]models.EntityResult{}, Errors: []string{}, LastUpdated: now},
		LastUpdated: now,
	}, nil
}

func (m *MockSnapshotService) Invalidate(ctx context.Context, cohort string) error {
	m.invalidated = append(m.invalidated, cohort)
	if m.InvalidateFunc != nil {
		return m.InvalidateFunc(ctx, cohort)
	}
	return nil
}

type denyLimiter struct{ calls int }

func (l *denyLimiter) Allow(string) bool {
	l.calls++
	return false
}

func newTestServer(svc SnapshotService, limiter RefreshLimiter) *echo.Echo {
	e := echo.New()
	NewSnapshotEchoHandler(nil, svc, limiter).RegisterRoutes(e)
	return e
}

func do(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func defaultService() *MockSnapshotService {
	return &MockSnapshotService{rosters: map[string][]models.EntityDefinition{
		models.CohortDRAM:    {{ID: "micron", Symbol: "MU", Source: models.SourceMarket, Currency: "USD"}},
		models.CohortFoundry: {{ID: "tsmc", Symbol: "TSM", Source: models.SourceMarket, Currency: "USD"}},
	}}
}

func TestSnapshot_OK(t *testing.T) {
	svc := defaultService()
	e := newTestServer(svc, nil)

	rec := do(e, http.MethodGet, "/api/cohorts/dram/snapshot")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []bool{false}, svc.forces)
	assert.Equal(t, "private, max-age=60", rec.Header().Get(echo.HeaderCacheControl))

	var resp models.SnapshotResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "dram", resp.Data.Cohort)
}

func TestSnapshot_Refresh(t *testing.T) {
	svc := defaultService()
	e := newTestServer(svc, nil)

	rec := do(e, http.MethodGet, "/api/cohorts/dram/snapshot?refresh=true")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []bool{true}, svc.forces)
	assert.Empty(t, rec.Header().Get(echo.HeaderCacheControl))
}

func TestSnapshot_RefreshThrottled(t *testing.T) {
	svc := defaultService()
	lim := &denyLimiter{}
	e := newTestServer(svc, lim)

	rec := do(e, http.MethodGet, "/api/cohorts/dram/snapshot?refresh=true")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_RATE_LIMITED")
	assert.Empty(t, svc.forces)
	assert.Equal(t, 1, lim.calls)

	// Cached reads are never throttled.
	rec = do(e, http.MethodGet, "/api/cohorts/dram/snapshot")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, lim.calls)
}

func TestSnapshot_InvalidCohort(t *testing.T) {
	e := newTestServer(defaultService(), nil)

	rec := do(e, http.MethodGet, "/api/cohorts/hdd/snapshot")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_ONEOF")
}

func TestSnapshot_UnconfiguredCohort(t *testing.T) {
	e := newTestServer(defaultService(), nil)

	rec := do(e, http.MethodGet, "/api/cohorts/nand/snapshot")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_NOT_FOUND")
}

func TestCohorts(t *testing.T) {
	e := newTestServer(defaultService(), nil)

	rec := do(e, http.MethodGet, "/api/cohorts")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status int             `json:"status"`
		Data   []CohortSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, "dram", body.Data[0].ID)
	assert.Equal(t, "foundry", body.Data[1].ID)
	assert.Equal(t, "micron", body.Data[0].Entities[0].ID)
}

func TestInvalidate(t *testing.T) {
	svc := defaultService()
	e := newTestServer(svc, nil)

	rec := do(e, http.MethodDelete, "/api/cohorts/dram/cache")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(e, http.MethodDelete, "/api/cache")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	assert.Equal(t, []string{"dram", ""}, svc.invalidated)
}

func TestInvalidate_Unknown(t *testing.T) {
	svc := defaultService()
	svc.InvalidateFunc = func(_ context.Context, cohort string) error {
		return fmt.Errorf("%w: %s", usecase.ErrUnknownCohort, cohort)
	}
	e := newTestServer(svc, nil)

	rec := do(e, http.MethodDelete, "/api/cohorts/nand/cache")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	e := newTestServer(defaultService(), nil)
	rec := do(e, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSnapshot_ServiceError(t *testing.T) {
	svc := defaultService()
	svc.SnapshotFunc = func(context.Context, string, bool) (models.SnapshotResponse, error) {
		return models.SnapshotResponse{}, fmt.Errorf("registry closed")
	}
	e := newTestServer(svc, nil)

	rec := do(e, http.MethodGet, "/api/cohorts/foundry/snapshot")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_INTERNAL")
}
