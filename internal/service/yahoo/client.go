package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"SemiDash/internal/domain/models"
	domrepo "SemiDash/internal/domain/repository"
	xhttp "SemiDash/pkg/http"
	"SemiDash/pkg/logger"
	"SemiDash/pkg/util"
)

const (
	DefaultBaseURL      = "https://query2.finance.yahoo.com"
	DefaultTimeout      = 15 * time.Second
	DefaultRateLimit    = 4
	DefaultHistoryYears = 5
	DefaultUserAgent    = "Mozilla/5.0 (compatible; semidash/1.0)"
)

// Timeseries types requested by the extended variant. Operating income is
// not among them.
var extendedTypes = []string{"quarterlyTotalRevenue", "quarterlyNetIncome", "quarterlyEBITDA"}

// APIError is an error object embedded in a 2xx Yahoo payload.
type APIError struct {
	Endpoint    string
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("yahoo %s: %s: %s", e.Endpoint, e.Code, e.Description)
}

type Config struct {
	BaseURL      string
	Timeout      time.Duration
	RateLimit    float64
	UserAgent    string
	HistoryYears int
}

// Client reads quarterly income statements and daily FX closes from Yahoo
// Finance. It implements StatementSource and FxSource.
type Client struct {
	baseURL      string
	historyYears int
	http         *xhttp.Client
	log          *logger.Logger
	now          func() time.Time
}

var (
	_ domrepo.StatementSource = (*Client)(nil)
	_ domrepo.FxSource        = (*Client)(nil)
)

func NewClient(cfg Config, log *logger.Logger, opts ...xhttp.ClientOption) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = DefaultRateLimit
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.HistoryYears <= 0 {
		cfg.HistoryYears = DefaultHistoryYears
	}
	if log == nil {
		log = logger.Nop()
	}

	httpOpts := append([]xhttp.ClientOption{
		xhttp.WithTimeout(cfg.Timeout),
		xhttp.WithRateLimit(cfg.RateLimit, 2),
		xhttp.WithUserAgent(cfg.UserAgent),
	}, opts...)

	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		historyYears: cfg.HistoryYears,
		http:         xhttp.NewClient(httpOpts...),
		log:          log,
		now:          time.Now,
	}
}

func (c *Client) Fetch(ctx context.Context, symbol string, variant domrepo.StatementVariant) ([]models.RawStatement, error) {
	switch variant {
	case domrepo.VariantDetailed:
		return c.fetchQuoteSummary(ctx, symbol)
	case domrepo.VariantExtended:
		return c.fetchTimeseries(ctx, symbol)
	default:
		return nil, fmt.Errorf("unknown statement variant %q", variant)
	}
}

func (c *Client) fetchQuoteSummary(ctx context.Context, symbol string) ([]models.RawStatement, error) {
	endpoint := c.baseURL + "/v10/finance/quoteSummary/" + url.PathEscape(symbol)

	var resp quoteSummaryResponse
	err := c.http.GetJSON(ctx, endpoint, map[string][]string{
		"modules": {"incomeStatementHistoryQuarterly"},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("quote summary %s: %w", symbol, err)
	}
	if e := resp.QuoteSummary.Error; e != nil {
		return nil, &APIError{Endpoint: "quoteSummary", Code: e.Code, Description: e.Description}
	}

	var out []models.RawStatement
	for _, r := range resp.QuoteSummary.Result {
		if r.IncomeStatementHistoryQuarterly == nil {
			continue
		}
		for _, s := range r.IncomeStatementHistoryQuarterly.IncomeStatementHistory {
			if s.EndDate == nil || s.EndDate.Raw == nil {
				continue
			}
			out = append(out, models.RawStatement{
				Date:            util.DateFromUnix(int64(*s.EndDate.Raw)),
				TotalRevenue:    s.TotalRevenue.value(),
				OperatingIncome: s.OperatingIncome.value(),
				NetIncome:       s.NetIncome.value(),
				EBITDA:          s.EBITDA.value(),
			})
		}
	}

	c.log.Debug("yahoo quote summary",
		logger.String("symbol", symbol),
		logger.Int("statements", len(out)),
	)
	return out, nil
}

func (c *Client) fetchTimeseries(ctx context.Context, symbol string) ([]models.RawStatement, error) {
	endpoint := c.baseURL + "/ws/fundamentals-timeseries/v1/finance/timeseries/" + url.PathEscape(symbol)
	now := c.now()

	var resp timeseriesResponse
	err := c.http.GetJSON(ctx, endpoint, map[string][]string{
		"type":    {strings.Join(extendedTypes, ",")},
		"period1": {strconv.FormatInt(now.AddDate(-c.historyYears, 0, 0).Unix(), 10)},
		"period2": {strconv.FormatInt(now.Unix(), 10)},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("timeseries %s: %w", symbol, err)
	}
	if e := resp.Timeseries.Error; e != nil {
		return nil, &APIError{Endpoint: "timeseries", Code: e.Code, Description: e.Description}
	}

	byDate := make(map[string]*models.RawStatement)
	var order []string
	for _, result := range resp.Timeseries.Result {
		var meta timeseriesMeta
		if raw, ok := result["meta"]; !ok || json.Unmarshal(raw, &meta) != nil || len(meta.Type) == 0 {
			continue
		}
		kind := meta.Type[0]
		raw, ok := result[kind]
		if !ok {
			continue
		}
		var points []*timeseriesPoint
		if err := json.Unmarshal(raw, &points); err != nil {
			c.log.Debug("yahoo timeseries series unreadable", logger.String("type", kind), logger.Error(err))
			continue
		}

		for _, p := range points {
			if p == nil || p.AsOfDate == "" || p.ReportedValue == nil {
				continue
			}
			s, ok := byDate[p.AsOfDate]
			if !ok {
				s = &models.RawStatement{Date: p.AsOfDate}
				byDate[p.AsOfDate] = s
				order = append(order, p.AsOfDate)
			}
			v := p.ReportedValue.value()
			switch kind {
			case "quarterlyTotalRevenue":
				s.TotalRevenue = v
			case "quarterlyNetIncome":
				s.NetIncome = v
			case "quarterlyEBITDA":
				s.EBITDA = v
			}
		}
	}

	out := make([]models.RawStatement, 0, len(order))
	for _, d := range order {
		out = append(out, *byDate[d])
	}
	return out, nil
}

// FetchDailySeries returns daily closes for pair (e.g. USDKRW=X) between
// from and to inclusive. Null closes are skipped.
func (c *Client) FetchDailySeries(ctx context.Context, pair, from, to string) ([]models.FxQuote, error) {
	start, ok := util.ParseDate(from)
	if !ok {
		return nil, fmt.Errorf("invalid from date %q", from)
	}
	end, ok := util.ParseDate(to)
	if !ok {
		return nil, fmt.Errorf("invalid to date %q", to)
	}

	endpoint := c.baseURL + "/v8/finance/chart/" + url.PathEscape(pair)
	var resp chartResponse
	err := c.http.GetJSON(ctx, endpoint, map[string][]string{
		"period1":  {strconv.FormatInt(start.Unix(), 10)},
		"period2":  {strconv.FormatInt(end.AddDate(0, 0, 1).Unix(), 10)},
		"interval": {"1d"},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", pair, err)
	}
	if e := resp.Chart.Error; e != nil {
		return nil, &APIError{Endpoint: "chart", Code: e.Code, Description: e.Description}
	}

	var out []models.FxQuote
	for _, r := range resp.Chart.Result {
		if len(r.Indicators.Quote) == 0 {
			continue
		}
		closes := r.Indicators.Quote[0].Close
		for i, ts := range r.Timestamp {
			if i >= len(closes) || closes[i] == nil {
				continue
			}
			// Bars are stamped at the exchange's local session start.
			out = append(out, models.FxQuote{Date: util.DateFromUnixOffset(ts, r.Meta.GMTOffset), Close: *closes[i]})
		}
	}
	return out, nil
}
