package di

import (
	"fmt"
	"time"

	"SemiDash/internal/domain/models"
	"SemiDash/internal/domain/repository"
	"SemiDash/internal/handler/api"
	internalrepo "SemiDash/internal/repository"
	"SemiDash/internal/service/dart"
	"SemiDash/internal/service/ratelimit"
	"SemiDash/internal/service/yahoo"
	"SemiDash/internal/usecase"
	"SemiDash/pkg/cache"
	"SemiDash/pkg/config"
	xhttp "SemiDash/pkg/http"
	pkgkafka "SemiDash/pkg/kafka"
	"SemiDash/pkg/logger"
	"SemiDash/pkg/metrics"
	"SemiDash/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(logger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideYahooClient creates the market-data client. It serves both
// statements and FX closes.
func ProvideYahooClient(cfg *config.Config, l *logger.Logger) *yahoo.Client {
	return yahoo.NewClient(yahoo.Config{
		BaseURL:      cfg.Yahoo.BaseURL,
		Timeout:      cfg.Yahoo.Timeout,
		RateLimit:    cfg.Yahoo.RPS,
		UserAgent:    cfg.Yahoo.UserAgent,
		HistoryYears: cfg.Yahoo.HistoryYears,
	}, l)
}

// ProvideDartClient creates the OpenDART filing client.
func ProvideDartClient(cfg *config.Config, l *logger.Logger) *dart.Client {
	return dart.NewClient(dart.Config{
		BaseURL:   cfg.Dart.BaseURL,
		APIKey:    cfg.Dart.APIKey,
		Timeout:   cfg.Dart.Timeout,
		RateLimit: cfg.Dart.RPS,
	}, l)
}

// ProvideStatementFetcher creates the Statement Fetcher over Yahoo.
func ProvideStatementFetcher(yc *yahoo.Client, l *logger.Logger, m repository.Metrics) *usecase.StatementFetcher {
	return usecase.NewStatementFetcher(yc, l, m)
}

// ProvideFilingDecomposer creates the Filing Decomposer over OpenDART.
func ProvideFilingDecomposer(dc *dart.Client, cfg *config.Config, l *logger.Logger, m repository.Metrics) *usecase.FilingDecomposer {
	return usecase.NewFilingDecomposer(dc, l,
		usecase.WithFilingYears(cfg.Aggregation.FilingYears),
		usecase.WithFilingMetrics(m),
	)
}

// ProvideRateResolver creates the Rate Resolver over Yahoo FX closes.
func ProvideRateResolver(yc *yahoo.Client, cfg *config.Config, l *logger.Logger, m repository.Metrics) *usecase.RateResolver {
	return usecase.NewRateResolver(yc, l,
		usecase.WithCommonCurrency(cfg.Aggregation.CommonCurrency),
		usecase.WithFxWindowDays(cfg.Aggregation.FxWindowDays),
		usecase.WithRateMetrics(m),
	)
}

// ProvidePersister creates the persisted cache tier selected by
// cache.backend.
func ProvidePersister(cfg *config.Config) (cache.Persister, func(), error) {
	switch cfg.Cache.Backend {
	case "redis":
		rc, err := cache.NewRedisCache(
			cache.WithRedisAddr(cfg.Cache.Redis.Addr),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
			// Outlive the TTL; the store decides freshness.
			cache.WithRedisExpiration(2*cfg.Cache.TTL),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("redis cache: %w", err)
		}
		return rc, func() { _ = rc.Close() }, nil
	default:
		fc, err := cache.NewFileCache(cfg.Cache.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("file cache: %w", err)
		}
		return fc, func() {}, nil
	}
}

// ProvideSnapshotCache creates the two-tier snapshot store.
func ProvideSnapshotCache(p cache.Persister, cfg *config.Config, l *logger.Logger) repository.SnapshotCache {
	return cache.NewStore[models.DashboardSnapshot](p,
		cache.WithTTL(cfg.Cache.TTL),
		cache.WithStoreMemorySize(cfg.Cache.MemoryMaxSize),
		cache.WithLogger(l),
	)
}

// ProvideStaticMetrics creates the file-backed domain metrics source.
func ProvideStaticMetrics(cfg *config.Config) repository.StaticMetricsSource {
	return internalrepo.NewFileStaticMetrics(cfg.StaticMetrics.Path)
}

// ProvideDemoGenerator creates the synthetic fallback source.
func ProvideDemoGenerator() repository.DemoDataSource {
	return usecase.NewDemoGenerator()
}

// ProvideNotifier creates the snapshot-refreshed publisher. Without brokers
// no events are published.
func ProvideNotifier(cfg *config.Config, l *logger.Logger) (repository.SnapshotNotifier, func(), error) {
	if len(cfg.Kafka.Brokers) == 0 {
		l.Info("kafka disabled: no brokers configured")
		return nil, func() {}, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithTopic(cfg.Kafka.Topic),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}

	cleanup := func() {
		if err := producer.Close(); err != nil {
			l.Warn("kafka producer close error", logger.Error(err))
		}
	}
	return internalrepo.NewKafkaNotifier(producer), cleanup, nil
}

// ProvideRegistry builds one Orchestrator per configured cohort.
func ProvideRegistry(
	cfg *config.Config,
	fetcher *usecase.StatementFetcher,
	decomposer *usecase.FilingDecomposer,
	resolver *usecase.RateResolver,
	static repository.StaticMetricsSource,
	demo repository.DemoDataSource,
	snapshots repository.SnapshotCache,
	notifier repository.SnapshotNotifier,
	m repository.Metrics,
	l *logger.Logger,
) *usecase.Registry {
	deps := usecase.OrchestratorDeps{
		Statements:    fetcher,
		Filings:       decomposer,
		Rates:         resolver,
		StaticMetrics: static,
		Demo:          demo,
		Cache:         snapshots,
		Notifier:      notifier,
		Metrics:       m,
		Logger:        l,
	}

	var orchestrators []*usecase.Orchestrator
	for _, cohort := range cfg.CohortIDs() {
		orchestrators = append(orchestrators, usecase.NewOrchestrator(usecase.OrchestratorConfig{
			Cohort:         cohort,
			Roster:         cfg.Cohorts[cohort],
			CommonCurrency: cfg.Aggregation.CommonCurrency,
			MaxConcurrency: cfg.Aggregation.MaxConcurrency,
		}, deps))
	}
	return usecase.NewRegistry(snapshots, orchestrators...)
}

// ProvideRefreshLimiter creates the per-client forced refresh limiter.
func ProvideRefreshLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.Server.RefreshRPS, cfg.Server.RefreshBurst)
}

// ProvideWarmer creates the cron cache warmer and schedules limiter
// housekeeping on it.
func ProvideWarmer(registry *usecase.Registry, limiter *ratelimit.Limiter, l *logger.Logger) (*usecase.Warmer, error) {
	w := usecase.NewWarmer(registry, l)
	if err := w.AddJob("@every 10m", "refresh limiter sweep", func() {
		limiter.Sweep(30 * time.Minute)
	}); err != nil {
		return nil, fmt.Errorf("warmer: %w", err)
	}
	return w, nil
}

// ProvideSnapshotHandler creates the snapshot HTTP handler.
func ProvideSnapshotHandler(l *logger.Logger, registry *usecase.Registry, limiter *ratelimit.Limiter) *api.SnapshotEchoHandler {
	return api.NewSnapshotEchoHandler(l, registry, limiter)
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(cfg *config.Config, l *logger.Logger, h *api.SnapshotEchoHandler) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(h,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithLogger(l),
	)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, l *logger.Logger, srv *xhttp.Server, w *usecase.Warmer) *server.App {
	return server.New(cfg, l, srv, w)
}
