package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"SemiDash/internal/domain/models"
	domrepo "SemiDash/internal/domain/repository"
	"SemiDash/pkg/logger"
)

const DefaultFilingYears = 3

// FilingDecomposer rebuilds standalone quarters from periodic regulatory
// filings. The Q1, half-year and Q3 filings already carry single-quarter
// amounts; Q4 is the annual total less the other three.
type FilingDecomposer struct {
	source   domrepo.FilingSource
	years    int
	currency string
	now      func() time.Time
	log      *logger.Logger
	metrics  domrepo.Metrics
}

type FilingDecomposerOption func(*FilingDecomposer)

func WithFilingYears(n int) FilingDecomposerOption {
	return func(d *FilingDecomposer) {
		if n > 0 {
			d.years = n
		}
	}
}

func WithFilingClock(now func() time.Time) FilingDecomposerOption {
	return func(d *FilingDecomposer) {
		d.now = now
	}
}

func WithFilingMetrics(m domrepo.Metrics) FilingDecomposerOption {
	return func(d *FilingDecomposer) {
		if m != nil {
			d.metrics = m
		}
	}
}

func NewFilingDecomposer(source domrepo.FilingSource, log *logger.Logger, opts ...FilingDecomposerOption) *FilingDecomposer {
	if log == nil {
		log = logger.Nop()
	}
	d := &FilingDecomposer{
		source:   source,
		years:    DefaultFilingYears,
		currency: DefaultCommonCurrency,
		now:      time.Now,
		log:      log,
		metrics:  nopMetrics{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type filingKey struct {
	year   int
	period domrepo.PeriodCode
}

// Decompose returns standalone quarterly statements for the most recent
// years, oldest first. A panicking period fetch is re-raised on the caller.
func (d *FilingDecomposer) Decompose(ctx context.Context, corpCode string) ([]models.RawStatement, error) {
	currentYear := d.now().Year()
	firstYear := currentYear - d.years + 1

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		trap    panicTrap
		filings = make(map[filingKey]map[string]decimal.Decimal)
	)

	for year := firstYear; year <= currentYear; year++ {
		for _, period := range domrepo.PeriodCodes {
			wg.Add(1)
			go func(year int, period domrepo.PeriodCode) {
				defer wg.Done()
				defer trap.catch()
				accounts, err := d.source.FetchPeriod(ctx, corpCode, year, period)
				if err != nil {
					d.log.Debug("filing period unavailable",
						logger.String("corp_code", corpCode),
						logger.Int("year", year),
						logger.String("period", string(period)),
						logger.Error(err),
					)
					d.metrics.RecordUpstreamError("filing")
					return
				}
				if len(accounts) == 0 {
					return
				}
				mu.Lock()
				filings[filingKey{year, period}] = accounts
				mu.Unlock()
			}(year, period)
		}
	}
	wg.Wait()
	trap.rethrow()

	var out []models.RawStatement
	for year := firstYear; year <= currentYear; year++ {
		out = append(out, ReconstructYear(year,
			filings[filingKey{year, domrepo.PeriodQ1}],
			filings[filingKey{year, domrepo.PeriodHalf}],
			filings[filingKey{year, domrepo.PeriodQ3}],
			filings[filingKey{year, domrepo.PeriodAnnual}],
		)...)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w for filings of %s", ErrNoData, corpCode)
	}
	return out, nil
}

// DecomposeFilings is Decompose followed by normalization in the reporting
// currency, which is the common currency, so every rate is 1. It serves
// callers outside a cohort run. The Orchestrator takes the raw Decompose
// output and normalizes it with the rest of the roster, which yields the same
// records.
func (d *FilingDecomposer) DecomposeFilings(ctx context.Context, corpCode string) ([]models.QuarterlyRecord, error) {
	stmts, err := d.Decompose(ctx, corpCode)
	if err != nil {
		return nil, err
	}
	rates := make(models.ExchangeRateSeries, len(stmts))
	for _, s := range stmts {
		rates[s.Date] = 1.0
	}
	return Normalize(stmts, d.currency, rates), nil
}

var quarterEnds = [4]string{"03-31", "06-30", "09-30", "12-31"}

// ReconstructYear builds up to four standalone quarters for one year. A nil
// filing is absent. Q4 needs the annual filing; absent Q1..Q3 count as zero
// in its subtraction. EBITDA is not reported and stays zero.
func ReconstructYear(year int, q1, half, q3, annual map[string]decimal.Decimal) []models.RawStatement {
	var out []models.RawStatement
	for i, f := range []map[string]decimal.Decimal{q1, half, q3} {
		if f == nil {
			continue
		}
		out = append(out, statementFromAccounts(year, i, f))
	}

	if annual != nil {
		q4 := make(map[string]decimal.Decimal, 3)
		for _, account := range []string{domrepo.AccountRevenue, domrepo.AccountOperatingIncome, domrepo.AccountNetIncome} {
			v := annual[account]
			for _, f := range []map[string]decimal.Decimal{q1, half, q3} {
				v = v.Sub(f[account])
			}
			q4[account] = v
		}
		out = append(out, statementFromAccounts(year, 3, q4))
	}
	return out
}

func statementFromAccounts(year, quarterIdx int, accounts map[string]decimal.Decimal) models.RawStatement {
	return models.RawStatement{
		Date:            fmt.Sprintf("%d-%s", year, quarterEnds[quarterIdx]),
		TotalRevenue:    accounts[domrepo.AccountRevenue].InexactFloat64(),
		OperatingIncome: accounts[domrepo.AccountOperatingIncome].InexactFloat64(),
		NetIncome:       accounts[domrepo.AccountNetIncome].InexactFloat64(),
	}
}
