package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"SemiDash/internal/domain/models"
)

// StatementVariant names one of the two market-data retrieval surfaces.
type StatementVariant string

const (
	// VariantDetailed carries richer line items, operating income included.
	VariantDetailed StatementVariant = "detailed"
	// VariantExtended reaches further back but with shallower fields.
	VariantExtended StatementVariant = "extended"
)

type StatementSource interface {
	Fetch(ctx context.Context, symbol string, variant StatementVariant) ([]models.RawStatement, error)
}

// Canonical account keys returned by a FilingSource.
const (
	AccountRevenue         = "revenue"
	AccountOperatingIncome = "operating_income"
	AccountNetIncome       = "net_income"
)

// PeriodCode identifies a periodic regulatory filing within a year.
type PeriodCode string

const (
	PeriodQ1     PeriodCode = "Q1"
	PeriodHalf   PeriodCode = "H1"
	PeriodQ3     PeriodCode = "Q3"
	PeriodAnnual PeriodCode = "FY"
)

// PeriodCodes lists the four filings issued per year.
var PeriodCodes = []PeriodCode{PeriodQ1, PeriodHalf, PeriodQ3, PeriodAnnual}

type FilingSource interface {
	// FetchPeriod returns the filing's accounts keyed by the Account* names.
	// An empty map means the filing is not available.
	FetchPeriod(ctx context.Context, corpKey string, year int, period PeriodCode) (map[string]decimal.Decimal, error)
}

type FxSource interface {
	// FetchDailySeries returns daily closes for pair between from and to
	// (YYYY-MM-DD, inclusive).
	FetchDailySeries(ctx context.Context, pair, from, to string) ([]models.FxQuote, error)
}

type StaticMetricsSource interface {
	Read(entityID string) ([]models.DomainMetric, error)
}

type DemoDataSource interface {
	Generate(cohort string, roster []models.EntityDefinition) models.DashboardSnapshot
}

// SnapshotCache is the two-tier store as seen by the aggregation.
type SnapshotCache interface {
	Get(ctx context.Context, key string) (models.DashboardSnapshot, bool)
	Set(ctx context.Context, key string, data models.DashboardSnapshot)
	Invalidate(ctx context.Context, keys ...string)
}

type SnapshotNotifier interface {
	Notify(ctx context.Context, snapshot models.DashboardSnapshot) error
}

type Metrics interface {
	RecordAggregation(cohort, outcome string)
	RecordUpstreamError(source string)
	RecordCache(result string)
	RecordLatency(op string, seconds float64)
}
