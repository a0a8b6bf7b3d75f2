package usecase

import (
	"math"

	"SemiDash/internal/domain/models"
)

// PercentChange returns (current-previous)/|previous|*100, or nil when the
// base is zero.
func PercentChange(current, previous float64) *float64 {
	if previous == 0 {
		return nil
	}
	v := (current - previous) / math.Abs(previous) * 100
	return &v
}

// ComputeGrowth derives QoQ and YoY growth for the latest record of a series
// sorted oldest first.
func ComputeGrowth(records []models.QuarterlyRecord) models.GrowthRateSet {
	var g models.GrowthRateSet
	if len(records) < 2 {
		return g
	}

	latest := records[len(records)-1]
	prev := records[len(records)-2]

	g.RevenueQoQ = PercentChange(latest.Revenue, prev.Revenue)
	g.OperatingIncomeQoQ = PercentChange(latest.OperatingIncome, prev.OperatingIncome)
	g.NetIncomeQoQ = PercentChange(latest.NetIncome, prev.NetIncome)
	g.EBITDAQoQ = PercentChange(latest.EBITDA, prev.EBITDA)

	for _, r := range records {
		if r.Period == latest.Period && r.CalendarYear == latest.CalendarYear-1 {
			g.RevenueYoY = PercentChange(latest.Revenue, r.Revenue)
			g.OperatingIncomeYoY = PercentChange(latest.OperatingIncome, r.OperatingIncome)
			g.NetIncomeYoY = PercentChange(latest.NetIncome, r.NetIncome)
			g.EBITDAYoY = PercentChange(latest.EBITDA, r.EBITDA)
			break
		}
	}
	return g
}
