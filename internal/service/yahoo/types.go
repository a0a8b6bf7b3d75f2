package yahoo

import "encoding/json"

// Every field is optional: the upstream schema is not contractual.

type rawValue struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt"`
}

func (v *rawValue) value() float64 {
	if v == nil || v.Raw == nil {
		return 0
	}
	return *v.Raw
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// quoteSummary?modules=incomeStatementHistoryQuarterly

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			IncomeStatementHistoryQuarterly *struct {
				IncomeStatementHistory []incomeStatement `json:"incomeStatementHistory"`
			} `json:"incomeStatementHistoryQuarterly"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"quoteSummary"`
}

type incomeStatement struct {
	EndDate         *rawValue `json:"endDate"`
	TotalRevenue    *rawValue `json:"totalRevenue"`
	OperatingIncome *rawValue `json:"operatingIncome"`
	NetIncome       *rawValue `json:"netIncome"`
	EBITDA          *rawValue `json:"ebitda"`
}

// ws/fundamentals-timeseries

type timeseriesResponse struct {
	Timeseries struct {
		Result []map[string]json.RawMessage `json:"result"`
		Error  *apiError                    `json:"error"`
	} `json:"timeseries"`
}

type timeseriesMeta struct {
	Type []string `json:"type"`
}

type timeseriesPoint struct {
	AsOfDate      string    `json:"asOfDate"`
	PeriodType    string    `json:"periodType"`
	ReportedValue *rawValue `json:"reportedValue"`
}

// v8/finance/chart

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				GMTOffset int `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"chart"`
}
