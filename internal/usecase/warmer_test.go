package usecase

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SemiDash/internal/domain/models"
)

func TestWarmer_RunNowRefreshesEveryCohort(t *testing.T) {
	h := newHarness()
	var calls atomic.Int32
	h.statements.FetchFunc = func(context.Context, string) ([]models.RawStatement, error) {
		calls.Add(1)
		return quarterSeries(10), nil
	}
	reg := NewRegistry(h.cache,
		h.orchestrator("dram", micron),
		h.orchestrator("nand", wdc),
	)
	// Warm entries are bypassed: the warmer always forces.
	h.cache.Set(context.Background(), CacheKey("dram"), models.DashboardSnapshot{Cohort: "dram"})

	NewWarmer(reg, nil).RunNow()

	assert.Equal(t, int32(2), calls.Load())
	snap, ok := h.cache.Get(context.Background(), CacheKey("dram"))
	require.True(t, ok)
	assert.Contains(t, snap.Entities, "micron")
	_, ok = h.cache.Get(context.Background(), CacheKey("nand"))
	assert.True(t, ok)
}

func TestWarmer_SlowCohortDoesNotStarveLaterOnes(t *testing.T) {
	h := newHarness()
	h.statements.FetchFunc = func(_ context.Context, symbol string) ([]models.RawStatement, error) {
		if symbol == "MU" {
			time.Sleep(80 * time.Millisecond)
		}
		return quarterSeries(10), nil
	}
	reg := NewRegistry(h.cache,
		h.orchestrator("dram", micron),
		h.orchestrator("nand", wdc),
	)
	w := NewWarmer(reg, nil)
	w.timeout = 50 * time.Millisecond

	w.RunNow()

	_, ok := h.cache.Get(context.Background(), CacheKey("dram"))
	assert.False(t, ok, "dram overran its own deadline")
	_, ok = h.cache.Get(context.Background(), CacheKey("nand"))
	assert.True(t, ok, "nand runs under a fresh deadline")
}

func TestWarmer_BadSchedule(t *testing.T) {
	w := NewWarmer(NewRegistry(NewMockCache()), nil)
	assert.Error(t, w.Start("not a cron line"))
	assert.Error(t, w.AddJob("every tuesday", "sweep", func() {}))
	require.NoError(t, w.AddJob("@every 1h", "sweep", func() {}))
}

func TestWarmer_StartStop(t *testing.T) {
	w := NewWarmer(NewRegistry(NewMockCache()), nil)
	require.NoError(t, w.Start(""))
	w.Stop()
}
