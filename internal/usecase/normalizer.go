package usecase

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"SemiDash/internal/domain/models"
	"SemiDash/pkg/util"
)

const dateLayout = util.DateLayout

// MonthToQuarter maps a period-end month to its calendar quarter label.
func MonthToQuarter(month time.Month) string {
	switch {
	case month <= time.March:
		return "Q1"
	case month <= time.June:
		return "Q2"
	case month <= time.September:
		return "Q3"
	default:
		return "Q4"
	}
}

// Normalize turns raw statements into canonical records sorted oldest first.
// A date missing from rates gets a zero rate, so its KRW values are zero.
// Statements whose date does not parse are skipped.
func Normalize(statements []models.RawStatement, currency string, rates models.ExchangeRateSeries) []models.QuarterlyRecord {
	records := make([]models.QuarterlyRecord, 0, len(statements))
	for _, s := range statements {
		d, err := time.Parse(dateLayout, s.Date)
		if err != nil {
			continue
		}
		period := MonthToQuarter(d.Month())
		rate := rates[s.Date]

		records = append(records, models.QuarterlyRecord{
			Date:               s.Date,
			CalendarYear:       d.Year(),
			Period:             period,
			Quarter:            fmt.Sprintf("%d %s", d.Year(), period),
			Currency:           currency,
			ExchangeRate:       rate,
			Revenue:            s.TotalRevenue,
			OperatingIncome:    s.OperatingIncome,
			NetIncome:          s.NetIncome,
			EBITDA:             s.EBITDA,
			RevenueKRW:         s.TotalRevenue * rate,
			OperatingIncomeKRW: s.OperatingIncome * rate,
			NetIncomeKRW:       s.NetIncome * rate,
			EBITDAKRW:          s.EBITDA * rate,
			OperatingMargin:    margin(s.OperatingIncome, s.TotalRevenue),
			NetMargin:          margin(s.NetIncome, s.TotalRevenue),
		})
	}

	slices.SortStableFunc(records, func(a, b models.QuarterlyRecord) int {
		return strings.Compare(a.Date, b.Date)
	})
	return records
}

func margin(part, revenue float64) float64 {
	if revenue == 0 {
		return 0
	}
	return part / revenue * 100
}
