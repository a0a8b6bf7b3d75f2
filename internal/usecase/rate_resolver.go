package usecase

import (
	"context"
	"math"
	"slices"
	"time"

	"SemiDash/internal/domain/models"
	domrepo "SemiDash/internal/domain/repository"
	"SemiDash/pkg/logger"
)

const (
	DefaultCommonCurrency = "KRW"
	DefaultFxWindowDays   = 10
)

// RateResolver answers "native to common rate on date D" from one daily
// series fetch per call, falling back to the nearest quoted date.
type RateResolver struct {
	fx         domrepo.FxSource
	common     string
	windowDays int
	log        *logger.Logger
	metrics    domrepo.Metrics
}

type RateResolverOption func(*RateResolver)

func WithCommonCurrency(code string) RateResolverOption {
	return func(r *RateResolver) {
		if code != "" {
			r.common = code
		}
	}
}

func WithFxWindowDays(days int) RateResolverOption {
	return func(r *RateResolver) {
		if days > 0 {
			r.windowDays = days
		}
	}
}

func WithRateMetrics(m domrepo.Metrics) RateResolverOption {
	return func(r *RateResolver) {
		if m != nil {
			r.metrics = m
		}
	}
}

func NewRateResolver(fx domrepo.FxSource, log *logger.Logger, opts ...RateResolverOption) *RateResolver {
	if log == nil {
		log = logger.Nop()
	}
	r := &RateResolver{
		fx:         fx,
		common:     DefaultCommonCurrency,
		windowDays: DefaultFxWindowDays,
		log:        log,
		metrics:    nopMetrics{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// PairSymbol builds the market-data symbol for a currency pair, e.g. USDKRW=X.
func PairSymbol(currency, common string) string {
	return currency + common + "=X"
}

// Resolve returns a rate for each requested date that has coverage. Dates
// with no quote inside the window are omitted. A failed fetch yields an
// empty map.
func (r *RateResolver) Resolve(ctx context.Context, currency string, dates []string) models.ExchangeRateSeries {
	out := make(models.ExchangeRateSeries, len(dates))
	if len(dates) == 0 {
		return out
	}

	if currency == r.common {
		for _, d := range dates {
			out[d] = 1.0
		}
		return out
	}

	parsed := make(map[string]time.Time, len(dates))
	var minDate, maxDate time.Time
	for _, d := range dates {
		t, err := time.Parse(dateLayout, d)
		if err != nil {
			continue
		}
		parsed[d] = t
		if minDate.IsZero() || t.Before(minDate) {
			minDate = t
		}
		if maxDate.IsZero() || t.After(maxDate) {
			maxDate = t
		}
	}
	if len(parsed) == 0 {
		return out
	}

	window := time.Duration(r.windowDays) * 24 * time.Hour
	pair := PairSymbol(currency, r.common)
	from := minDate.Add(-window).Format(dateLayout)
	to := maxDate.Add(window).Format(dateLayout)

	quotes, err := r.fx.FetchDailySeries(ctx, pair, from, to)
	if err != nil {
		r.log.Warn("fx series fetch failed",
			logger.String("pair", pair),
			logger.String("from", from),
			logger.String("to", to),
			logger.Error(err),
		)
		r.metrics.RecordUpstreamError("fx")
		return models.ExchangeRateSeries{}
	}

	series := usableQuotes(quotes)
	for d, t := range parsed {
		if rate, ok := nearestRate(series, d, t); ok {
			out[d] = rate
		}
	}
	return out
}

type datedQuote struct {
	date  string
	at    time.Time
	close float64
}

// usableQuotes drops unparseable dates and non-positive closes and sorts the
// remainder oldest first.
func usableQuotes(quotes []models.FxQuote) []datedQuote {
	series := make([]datedQuote, 0, len(quotes))
	for _, q := range quotes {
		if q.Close <= 0 || math.IsNaN(q.Close) || math.IsInf(q.Close, 0) {
			continue
		}
		t, err := time.Parse(dateLayout, q.Date)
		if err != nil {
			continue
		}
		series = append(series, datedQuote{date: q.Date, at: t, close: q.Close})
	}
	slices.SortStableFunc(series, func(a, b datedQuote) int {
		return a.at.Compare(b.at)
	})
	return series
}

// nearestRate returns the exact quote for date, else the closest one. Ties go
// to the earlier date.
func nearestRate(series []datedQuote, date string, at time.Time) (float64, bool) {
	best := -1
	var bestDist time.Duration
	for i, q := range series {
		if q.date == date {
			return q.close, true
		}
		dist := q.at.Sub(at)
		if dist < 0 {
			dist = -dist
		}
		if best < 0 || dist < bestDist {
			best = i
			bestDist = dist
		}
	}
	if best < 0 {
		return 0, false
	}
	return series[best].close, true
}

// LatestRecordRate returns the exchange rate of the newest record that has
// one. records must be sorted oldest first.
func LatestRecordRate(records []models.QuarterlyRecord) (float64, bool) {
	for i := len(records) - 1; i >= 0; i-- {
		if r := records[i].ExchangeRate; r > 0 {
			return r, true
		}
	}
	return 0, false
}
