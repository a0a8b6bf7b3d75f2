package usecase

import (
	"context"
	"sync"

	"SemiDash/internal/domain/models"
)

// Collaborators the orchestrator depends on. The concrete types in this
// package satisfy them; tests substitute fakes.

type StatementLoader interface {
	Fetch(ctx context.Context, symbol string) ([]models.RawStatement, error)
}

type FilingLoader interface {
	Decompose(ctx context.Context, corpCode string) ([]models.RawStatement, error)
}

type RateLookup interface {
	Resolve(ctx context.Context, currency string, dates []string) models.ExchangeRateSeries
}

type nopMetrics struct{}

func (nopMetrics) RecordAggregation(string, string) {}
func (nopMetrics) RecordUpstreamError(string)       {}
func (nopMetrics) RecordCache(string)               {}
func (nopMetrics) RecordLatency(string, float64)    {}

// panicTrap keeps the first panic raised by the goroutines that defer
// catch, so the joining goroutine can re-raise it with rethrow.
type panicTrap struct {
	once sync.Once
	val  any
}

func (p *panicTrap) catch() {
	if r := recover(); r != nil {
		p.once.Do(func() { p.val = r })
	}
}

func (p *panicTrap) rethrow() {
	if p.val != nil {
		panic(p.val)
	}
}
