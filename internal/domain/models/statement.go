package models

// RawStatement is one reporting period for one entity as an upstream returned
// it, in the entity's native currency. Absent line items are zero.
type RawStatement struct {
	Date            string  `json:"date"` // YYYY-MM-DD period end
	TotalRevenue    float64 `json:"totalRevenue"`
	OperatingIncome float64 `json:"operatingIncome"`
	NetIncome       float64 `json:"netIncome"`
	EBITDA          float64 `json:"ebitda"`
}

// ExchangeRateSeries maps ISO dates to a native-to-common currency multiplier.
type ExchangeRateSeries map[string]float64

// FxQuote is one daily close of a currency pair.
type FxQuote struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// QuarterlyRecord is the canonical entity-quarter.
type QuarterlyRecord struct {
	Date         string  `json:"date"`
	CalendarYear int     `json:"calendarYear"`
	Period       string  `json:"period"`  // Q1..Q4
	Quarter      string  `json:"quarter"` // "2024 Q3"
	Currency     string  `json:"currency"`
	ExchangeRate float64 `json:"exchangeRate"`

	Revenue         float64 `json:"revenue"`
	OperatingIncome float64 `json:"operatingIncome"`
	NetIncome       float64 `json:"netIncome"`
	EBITDA          float64 `json:"ebitda"`

	RevenueKRW         float64 `json:"revenueKRW"`
	OperatingIncomeKRW float64 `json:"operatingIncomeKRW"`
	NetIncomeKRW       float64 `json:"netIncomeKRW"`
	EBITDAKRW          float64 `json:"ebitdaKRW"`

	OperatingMargin float64 `json:"operatingMargin"`
	NetMargin       float64 `json:"netMargin"`
}

// GrowthRateSet holds QoQ and YoY percentages for the latest quarter.
// A nil field means the comparison base was zero or missing.
type GrowthRateSet struct {
	RevenueQoQ         *float64 `json:"revenueQoQ"`
	RevenueYoY         *float64 `json:"revenueYoY"`
	OperatingIncomeQoQ *float64 `json:"operatingIncomeQoQ"`
	OperatingIncomeYoY *float64 `json:"operatingIncomeYoY"`
	NetIncomeQoQ       *float64 `json:"netIncomeQoQ"`
	NetIncomeYoY       *float64 `json:"netIncomeYoY"`
	EBITDAQoQ          *float64 `json:"ebitdaQoQ"`
	EBITDAYoY          *float64 `json:"ebitdaYoY"`
}
