package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"SemiDash/internal/domain/models"
	domrepo "SemiDash/internal/domain/repository"
	"SemiDash/pkg/logger"
)

// ErrNoData is returned when no source produced any statement for an entity.
var ErrNoData = errors.New("no data returned")

// StatementFetcher reads quarterly statements for a ticker from the two
// market-data variants and merges them per date.
type StatementFetcher struct {
	source  domrepo.StatementSource
	log     *logger.Logger
	metrics domrepo.Metrics
}

func NewStatementFetcher(source domrepo.StatementSource, log *logger.Logger, metrics domrepo.Metrics) *StatementFetcher {
	if log == nil {
		log = logger.Nop()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &StatementFetcher{source: source, log: log, metrics: metrics}
}

// Fetch queries both variants in parallel. A failing variant counts as empty;
// only an empty merge is an error. A panic in either variant is re-raised on
// the calling goroutine once both settle.
func (f *StatementFetcher) Fetch(ctx context.Context, symbol string) ([]models.RawStatement, error) {
	var (
		wg       sync.WaitGroup
		trap     panicTrap
		detailed []models.RawStatement
		extended []models.RawStatement
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		defer trap.catch()
		detailed = f.fetchVariant(ctx, symbol, domrepo.VariantDetailed)
	}()
	go func() {
		defer wg.Done()
		defer trap.catch()
		extended = f.fetchVariant(ctx, symbol, domrepo.VariantExtended)
	}()
	wg.Wait()
	trap.rethrow()

	merged := MergeStatements(extended, detailed)
	if len(merged) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoData, symbol)
	}
	return merged, nil
}

func (f *StatementFetcher) fetchVariant(ctx context.Context, symbol string, variant domrepo.StatementVariant) []models.RawStatement {
	stmts, err := f.source.Fetch(ctx, symbol, variant)
	if err != nil {
		f.log.Warn("statement variant failed",
			logger.String("symbol", symbol),
			logger.String("variant", string(variant)),
			logger.Error(err),
		)
		f.metrics.RecordUpstreamError("statements_" + string(variant))
		return nil
	}
	return stmts
}

// MergeStatements combines two series keyed by date. Entries from richer
// replace entries from broader at the same date. Output is sorted by date.
func MergeStatements(broader, richer []models.RawStatement) []models.RawStatement {
	byDate := make(map[string]models.RawStatement, len(broader)+len(richer))
	for _, s := range broader {
		byDate[s.Date] = s
	}
	for _, s := range richer {
		byDate[s.Date] = s
	}

	merged := make([]models.RawStatement, 0, len(byDate))
	for _, s := range byDate {
		merged = append(merged, s)
	}
	slices.SortFunc(merged, func(a, b models.RawStatement) int {
		return strings.Compare(a.Date, b.Date)
	})
	return merged
}
