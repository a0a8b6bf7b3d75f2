package usecase

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"SemiDash/internal/domain/models"
	domrepo "SemiDash/internal/domain/repository"
	"SemiDash/pkg/cache"
	"SemiDash/pkg/logger"
)

const DefaultMaxConcurrency = 8

// MetricsMerger attaches static metrics to an entity. latestRate is the rate
// of the entity's newest quarter that resolved one; ok is false when none
// did.
type MetricsMerger func(def models.EntityDefinition, metrics []models.DomainMetric, latestRate float64, ok bool) []models.DomainMetric

// LatestRateMerger copies metrics unchanged, except that currency-denominated
// metrics of entities reporting outside common get ValueKRW at the latest
// rate instead of a per-quarter one.
func LatestRateMerger(common string) MetricsMerger {
	return func(def models.EntityDefinition, metrics []models.DomainMetric, latestRate float64, ok bool) []models.DomainMetric {
		out := make([]models.DomainMetric, len(metrics))
		for i, m := range metrics {
			out[i] = m
			switch {
			case m.Currency == "":
			case m.Currency == common:
				v := m.Value
				out[i].ValueKRW = &v
			case def.Currency != common && ok:
				v := m.Value * latestRate
				out[i].ValueKRW = &v
			}
		}
		return out
	}
}

// OrchestratorConfig parameterizes one cohort's aggregation.
type OrchestratorConfig struct {
	Cohort         string
	Roster         []models.EntityDefinition
	CommonCurrency string
	MaxConcurrency int
	Merge          MetricsMerger
}

// OrchestratorDeps are the collaborators of an Orchestrator. StaticMetrics,
// Notifier and Metrics are optional.
type OrchestratorDeps struct {
	Statements    StatementLoader
	Filings       FilingLoader
	Rates         RateLookup
	StaticMetrics domrepo.StaticMetricsSource
	Demo          domrepo.DemoDataSource
	Cache         domrepo.SnapshotCache
	Notifier      domrepo.SnapshotNotifier
	Metrics       domrepo.Metrics
	Logger        *logger.Logger
	Clock         func() time.Time
}

// Orchestrator aggregates one cohort into a DashboardSnapshot. It never
// fails: every error ends up in the snapshot's error list, and a run that
// yields nothing, or panics, returns demo data.
type Orchestrator struct {
	cfg  OrchestratorConfig
	deps OrchestratorDeps
	log  *logger.Logger
}

func NewOrchestrator(cfg OrchestratorConfig, deps OrchestratorDeps) *Orchestrator {
	if cfg.CommonCurrency == "" {
		cfg.CommonCurrency = DefaultCommonCurrency
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = DefaultMaxConcurrency
	}
	if cfg.Merge == nil {
		cfg.Merge = LatestRateMerger(cfg.CommonCurrency)
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	if deps.Metrics == nil {
		deps.Metrics = nopMetrics{}
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &Orchestrator{
		cfg:  cfg,
		deps: deps,
		log:  deps.Logger.With(logger.String("cohort", cfg.Cohort)),
	}
}

// CacheKey is the snapshot cache key for a cohort.
func CacheKey(cohort string) string {
	return cache.GenerateKey("snapshot", cohort)
}

func (o *Orchestrator) Cohort() string {
	return o.cfg.Cohort
}

func (o *Orchestrator) Roster() []models.EntityDefinition {
	return o.cfg.Roster
}

// entityOutcome is the settled result of one entity's fetch.
type entityOutcome struct {
	def        models.EntityDefinition
	statements []models.RawStatement
	err        error
	metrics    []models.DomainMetric
}

// GetSnapshot returns the cached snapshot unless forceRefresh is set or the
// cache has nothing fresh, in which case it runs the aggregation.
func (o *Orchestrator) GetSnapshot(ctx context.Context, forceRefresh bool) (resp models.SnapshotResponse) {
	key := CacheKey(o.cfg.Cohort)
	if !forceRefresh {
		if snap, ok := o.deps.Cache.Get(ctx, key); ok {
			o.deps.Metrics.RecordCache("hit")
			return respond(snap)
		}
		o.deps.Metrics.RecordCache("miss")
	}

	runID := uuid.NewString()
	start := o.deps.Clock()
	log := o.log.With(logger.String("run_id", runID))

	defer func() {
		if r := recover(); r != nil {
			log.Error("aggregation panicked", logger.Any("panic", r))
			o.deps.Metrics.RecordAggregation(o.cfg.Cohort, "panic")
			snap := o.demo(fmt.Sprintf("unexpected aggregation error: %v; showing demo data", r))
			resp = respond(snap)
		}
	}()

	outcomes := o.fetchAll(ctx, log)
	rates := o.resolveRates(ctx, outcomes)
	o.attachStaticMetrics(outcomes, log)

	snap, live := assembleSnapshot(o.cfg.Cohort, outcomes, rates, o.cfg.Merge, o.deps.Clock())
	elapsed := o.deps.Clock().Sub(start)
	o.deps.Metrics.RecordLatency("aggregate_"+o.cfg.Cohort, elapsed.Seconds())

	if !live {
		log.Warn("every entity failed, serving demo data",
			logger.Int("entities", len(outcomes)),
			logger.Strings("errors", snap.Errors),
		)
		o.deps.Metrics.RecordAggregation(o.cfg.Cohort, "demo")
		return respond(o.demo(fmt.Sprintf("all data sources failed for %s; showing demo data", o.cfg.Cohort)))
	}

	log.Info("aggregation complete",
		logger.Int("entities", len(outcomes)),
		logger.Int("errors", len(snap.Errors)),
		logger.Duration("duration_ms", elapsed),
	)
	o.deps.Metrics.RecordAggregation(o.cfg.Cohort, "live")

	if err := ctx.Err(); err != nil {
		log.Warn("request abandoned, skipping cache write", logger.Error(err))
		return respond(snap)
	}
	o.deps.Cache.Set(ctx, key, snap)

	if o.deps.Notifier != nil {
		if err := o.deps.Notifier.Notify(ctx, snap); err != nil {
			log.Warn("snapshot notification failed", logger.Error(err))
		}
	}
	return respond(snap)
}

// fetchAll runs one fetch per entity with bounded concurrency. Failures are
// captured per entity. A panic in any task is re-raised on the caller's
// goroutine once all tasks settle.
func (o *Orchestrator) fetchAll(ctx context.Context, log *logger.Logger) []entityOutcome {
	outcomes := make([]entityOutcome, len(o.cfg.Roster))

	var (
		g    errgroup.Group
		trap panicTrap
	)
	g.SetLimit(o.cfg.MaxConcurrency)

	for i, def := range o.cfg.Roster {
		g.Go(func() error {
			defer trap.catch()
			stmts, err := o.fetchEntity(ctx, def)
			if err != nil {
				log.Warn("entity fetch failed",
					logger.String("entity", def.ID),
					logger.String("source", string(def.Source)),
					logger.Error(err),
				)
			}
			outcomes[i] = entityOutcome{def: def, statements: stmts, err: err}
			return nil
		})
	}
	_ = g.Wait()

	trap.rethrow()
	return outcomes
}

func (o *Orchestrator) fetchEntity(ctx context.Context, def models.EntityDefinition) ([]models.RawStatement, error) {
	switch def.Source {
	case models.SourceFiling:
		if o.deps.Filings == nil {
			return nil, fmt.Errorf("no filing source configured")
		}
		return o.deps.Filings.Decompose(ctx, def.CorpCode)
	default:
		if o.deps.Statements == nil {
			return nil, fmt.Errorf("no statement source configured")
		}
		return o.deps.Statements.Fetch(ctx, def.Symbol)
	}
}

// resolveRates issues one rate lookup per distinct currency over the union of
// that currency's statement dates. A panicking lookup is re-raised here.
func (o *Orchestrator) resolveRates(ctx context.Context, outcomes []entityOutcome) map[string]models.ExchangeRateSeries {
	datesByCurrency := collectDates(outcomes)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		trap panicTrap
		out  = make(map[string]models.ExchangeRateSeries, len(datesByCurrency))
	)
	for currency, dates := range datesByCurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer trap.catch()
			series := o.deps.Rates.Resolve(ctx, currency, dates)
			mu.Lock()
			out[currency] = series
			mu.Unlock()
		}()
	}
	wg.Wait()

	trap.rethrow()
	return out
}

// collectDates returns, per currency, the sorted distinct dates across every
// entity reporting in it.
func collectDates(outcomes []entityOutcome) map[string][]string {
	sets := make(map[string]map[string]struct{})
	for _, oc := range outcomes {
		if len(oc.statements) == 0 {
			continue
		}
		set, ok := sets[oc.def.Currency]
		if !ok {
			set = make(map[string]struct{})
			sets[oc.def.Currency] = set
		}
		for _, s := range oc.statements {
			set[s.Date] = struct{}{}
		}
	}

	out := make(map[string][]string, len(sets))
	for currency, set := range sets {
		dates := make([]string, 0, len(set))
		for d := range set {
			dates = append(dates, d)
		}
		slices.Sort(dates)
		out[currency] = dates
	}
	return out
}

func (o *Orchestrator) attachStaticMetrics(outcomes []entityOutcome, log *logger.Logger) {
	if o.deps.StaticMetrics == nil {
		return
	}
	for i := range outcomes {
		metrics, err := o.deps.StaticMetrics.Read(outcomes[i].def.ID)
		if err != nil {
			log.Warn("static metrics unavailable", logger.String("entity", outcomes[i].def.ID), logger.Error(err))
			continue
		}
		outcomes[i].metrics = metrics
	}
}

// assembleSnapshot builds the snapshot from settled outcomes. live is false
// when no entity produced a single quarterly record.
func assembleSnapshot(cohort string, outcomes []entityOutcome, rates map[string]models.ExchangeRateSeries, merge MetricsMerger, now time.Time) (snap models.DashboardSnapshot, live bool) {
	snap = models.DashboardSnapshot{
		Cohort:      cohort,
		Entities:    make(map[string]models.EntityResult, len(outcomes)),
		LastUpdated: now,
		Errors:      []string{},
	}

	for _, oc := range outcomes {
		series := rates[oc.def.Currency]
		records := Normalize(oc.statements, oc.def.Currency, series)

		result := models.EntityResult{
			Definition:       oc.def,
			QuarterlyRecords: records,
			Growth:           ComputeGrowth(records),
		}
		if oc.err != nil {
			result.Error = oc.err.Error()
			snap.Errors = append(snap.Errors, fmt.Sprintf("%s: %v", oc.def.DisplayName(), oc.err))
		}
		if len(oc.metrics) > 0 && merge != nil {
			latest, ok := LatestRecordRate(records)
			result.DomainMetrics = merge(oc.def, oc.metrics, latest, ok)
		}
		if len(records) > 0 {
			live = true
		}
		snap.Entities[oc.def.ID] = result
	}
	return snap, live
}

func (o *Orchestrator) demo(message string) models.DashboardSnapshot {
	snap := o.deps.Demo.Generate(o.cfg.Cohort, o.cfg.Roster)
	snap.Cohort = o.cfg.Cohort
	snap.Demo = true
	snap.Errors = []string{message}
	return snap
}

func respond(snap models.DashboardSnapshot) models.SnapshotResponse {
	return models.SnapshotResponse{
		Success:     true,
		Data:        snap,
		LastUpdated: snap.LastUpdated,
	}
}
