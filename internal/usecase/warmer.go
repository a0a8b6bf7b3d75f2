package usecase

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"SemiDash/pkg/logger"
)

const DefaultWarmSchedule = "0 */6 * * *"

// Warmer refreshes every cohort's snapshot on a cron schedule so callers
// rarely wait on a cold aggregation.
type Warmer struct {
	registry *Registry
	cron     *cron.Cron
	timeout  time.Duration
	log      *logger.Logger
}

func NewWarmer(registry *Registry, log *logger.Logger) *Warmer {
	if log == nil {
		log = logger.Nop()
	}
	return &Warmer{
		registry: registry,
		cron:     cron.New(),
		timeout:  5 * time.Minute,
		log:      log,
	}
}

// Start schedules the refresh job. An empty schedule uses DefaultWarmSchedule.
func (w *Warmer) Start(schedule string) error {
	if schedule == "" {
		schedule = DefaultWarmSchedule
	}

	if _, err := w.cron.AddFunc(schedule, w.RunNow); err != nil {
		return err
	}

	w.cron.Start()
	w.log.Info("snapshot warmer started", logger.String("schedule", schedule))
	return nil
}

// AddJob schedules an extra maintenance job on the warmer's cron. Jobs run
// only once Start has been called.
func (w *Warmer) AddJob(schedule, name string, fn func()) error {
	_, err := w.cron.AddFunc(schedule, func() {
		w.log.Debug("maintenance job", logger.String("job", name))
		fn()
	})
	return err
}

// Stop halts scheduling and waits for a running job to finish.
func (w *Warmer) Stop() {
	<-w.cron.Stop().Done()
	w.log.Info("snapshot warmer stopped")
}

// RunNow refreshes every cohort once, sequentially. Each cohort gets its
// own timeout.
func (w *Warmer) RunNow() {
	for _, cohort := range w.registry.Cohorts() {
		w.warm(cohort)
	}
}

func (w *Warmer) warm(cohort string) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	start := time.Now()
	resp, err := w.registry.Snapshot(ctx, cohort, true)
	if err != nil {
		w.log.Error("warm refresh failed", logger.String("cohort", cohort), logger.Error(err))
		return
	}
	w.log.Info("cohort warmed",
		logger.String("cohort", cohort),
		logger.Int("entities", len(resp.Data.Entities)),
		logger.Int("errors", len(resp.Data.Errors)),
		logger.Bool("demo", resp.Data.Demo),
		logger.Duration("duration_ms", time.Since(start)),
	)
}
