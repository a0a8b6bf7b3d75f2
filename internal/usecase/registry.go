package usecase

import (
	"context"
	"errors"
	"fmt"

	"SemiDash/internal/domain/models"
	domrepo "SemiDash/internal/domain/repository"
)

var ErrUnknownCohort = errors.New("unknown cohort")

// Registry routes cohort ids to their orchestrators.
type Registry struct {
	orchestrators map[string]*Orchestrator
	order         []string
	cache         domrepo.SnapshotCache
}

func NewRegistry(cache domrepo.SnapshotCache, orchestrators ...*Orchestrator) *Registry {
	r := &Registry{
		orchestrators: make(map[string]*Orchestrator, len(orchestrators)),
		cache:         cache,
	}
	for _, o := range orchestrators {
		if _, dup := r.orchestrators[o.Cohort()]; !dup {
			r.order = append(r.order, o.Cohort())
		}
		r.orchestrators[o.Cohort()] = o
	}
	return r
}

// Cohorts returns the registered cohort ids in registration order.
func (r *Registry) Cohorts() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Roster returns the entity definitions of a cohort.
func (r *Registry) Roster(cohort string) ([]models.EntityDefinition, error) {
	o, ok := r.orchestrators[cohort]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCohort, cohort)
	}
	return o.Roster(), nil
}

func (r *Registry) Snapshot(ctx context.Context, cohort string, forceRefresh bool) (models.SnapshotResponse, error) {
	o, ok := r.orchestrators[cohort]
	if !ok {
		return models.SnapshotResponse{}, fmt.Errorf("%w: %s", ErrUnknownCohort, cohort)
	}
	return o.GetSnapshot(ctx, forceRefresh), nil
}

// Invalidate drops the cached snapshot of cohort, or every cached snapshot
// when cohort is empty.
func (r *Registry) Invalidate(ctx context.Context, cohort string) error {
	if cohort == "" {
		r.cache.Invalidate(ctx)
		return nil
	}
	if _, ok := r.orchestrators[cohort]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCohort, cohort)
	}
	r.cache.Invalidate(ctx, CacheKey(cohort))
	return nil
}
