package usecase

import (
	"hash/fnv"
	"math/rand/v2"
	"time"

	"SemiDash/internal/domain/models"
)

const demoQuarters = 8

// Approximate native-to-KRW rates and revenue scales used for synthetic data.
var (
	demoRates = map[string]float64{
		"KRW": 1, "USD": 1380, "JPY": 9.2, "TWD": 43, "CNY": 190, "EUR": 1490,
	}
	demoRevenueBase = map[string]float64{
		"KRW": 8e12, "USD": 6e9, "JPY": 9e11, "TWD": 2e11, "CNY": 4e10, "EUR": 5e9,
	}
)

// DemoGenerator builds deterministic synthetic snapshots. The same cohort and
// roster always produce the same figures for a given quarter window.
type DemoGenerator struct {
	now func() time.Time
}

func NewDemoGenerator() *DemoGenerator {
	return &DemoGenerator{now: time.Now}
}

// WithClock returns a copy of g that reads time from now.
func (g *DemoGenerator) WithClock(now func() time.Time) *DemoGenerator {
	return &DemoGenerator{now: now}
}

func (g *DemoGenerator) Generate(cohort string, roster []models.EntityDefinition) models.DashboardSnapshot {
	now := g.now()
	dates := demoQuarterEnds(now, demoQuarters)

	entities := make(map[string]models.EntityResult, len(roster))
	for _, def := range roster {
		rng := rand.New(rand.NewPCG(seedFor(cohort, def.ID), uint64(len(def.ID))))
		rate, ok := demoRates[def.Currency]
		if !ok {
			rate = 1
		}
		base, ok := demoRevenueBase[def.Currency]
		if !ok {
			base = 1e10
		}
		base *= 0.5 + rng.Float64()

		stmts := make([]models.RawStatement, 0, len(dates))
		rates := make(models.ExchangeRateSeries, len(dates))
		revenue := base
		for _, d := range dates {
			revenue *= 0.94 + rng.Float64()*0.16
			opMargin := 0.05 + rng.Float64()*0.25
			netMargin := opMargin * (0.6 + rng.Float64()*0.3)
			stmts = append(stmts, models.RawStatement{
				Date:            d,
				TotalRevenue:    revenue,
				OperatingIncome: revenue * opMargin,
				NetIncome:       revenue * netMargin,
				EBITDA:          revenue * (opMargin + 0.1),
			})
			rates[d] = rate
		}

		records := Normalize(stmts, def.Currency, rates)
		entities[def.ID] = models.EntityResult{
			Definition:       def,
			QuarterlyRecords: records,
			Growth:           ComputeGrowth(records),
		}
	}

	return models.DashboardSnapshot{
		Cohort:      cohort,
		Entities:    entities,
		LastUpdated: now,
		Errors:      []string{},
		Demo:        true,
	}
}

// demoQuarterEnds returns the n most recent completed quarter-end dates,
// oldest first.
func demoQuarterEnds(now time.Time, n int) []string {
	qStart := time.Date(now.Year(), time.Month((int(now.Month())-1)/3*3+1), 1, 0, 0, 0, 0, time.UTC)
	dates := make([]string, n)
	for i := n - 1; i >= 0; i-- {
		end := qStart.AddDate(0, 0, -1)
		dates[i] = end.Format(dateLayout)
		qStart = qStart.AddDate(0, -3, 0)
	}
	return dates
}

func seedFor(cohort, id string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(cohort))
	h.Write([]byte{0})
	h.Write([]byte(id))
	return h.Sum64()
}
