package dart

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domrepo "SemiDash/internal/domain/repository"
	xhttp "SemiDash/pkg/http"
	"SemiDash/pkg/logger"
)

const (
	DefaultBaseURL   = "https://opendart.fss.or.kr/api"
	DefaultTimeout   = 15 * time.Second
	DefaultRateLimit = 5

	statusOK     = "000"
	statusNoData = "013"
)

// Report codes per period.
var reportCodes = map[domrepo.PeriodCode]string{
	domrepo.PeriodQ1:     "11013",
	domrepo.PeriodHalf:   "11012",
	domrepo.PeriodQ3:     "11014",
	domrepo.PeriodAnnual: "11011",
}

// Account-name variants mapped to canonical keys. Companies label the same
// line differently, and loss-making periods add a suffix.
var accountNames = map[string]string{
	"매출액":       domrepo.AccountRevenue,
	"수익(매출액)":   domrepo.AccountRevenue,
	"영업수익":      domrepo.AccountRevenue,
	"영업이익":      domrepo.AccountOperatingIncome,
	"영업이익(손실)":  domrepo.AccountOperatingIncome,
	"당기순이익":     domrepo.AccountNetIncome,
	"당기순이익(손실)": domrepo.AccountNetIncome,
	"분기순이익":     domrepo.AccountNetIncome,
	"분기순이익(손실)": domrepo.AccountNetIncome,
	"반기순이익":     domrepo.AccountNetIncome,
	"반기순이익(손실)": domrepo.AccountNetIncome,
}

// ErrMissingAPIKey is returned when no OpenDART key is configured.
var ErrMissingAPIKey = errors.New("dart: api key is not configured")

// StatusError is a non-success status in an OpenDART payload.
type StatusError struct {
	Status  string
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("dart status %s: %s", e.Status, e.Message)
}

type Config struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	RateLimit float64
}

// Client reads single-company key accounts from OpenDART. It implements
// FilingSource.
type Client struct {
	baseURL string
	apiKey  string
	http    *xhttp.Client
	log     *logger.Logger
}

var _ domrepo.FilingSource = (*Client)(nil)

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
	if log == nil {
		log = logger.Nop()
	}

	httpOpts := append([]xhttp.ClientOption{
		xhttp.WithTimeout(cfg.Timeout),
		xhttp.WithRateLimit(cfg.RateLimit, 4),
	}, opts...)

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    xhttp.NewClient(httpOpts...),
		log:     log,
	}
}

type singleAccountResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	List    []accountRecord `json:"list"`
}

type accountRecord struct {
	FsDiv        string `json:"fs_div"` // CFS consolidated, OFS separate
	SjDiv        string `json:"sj_div"` // BS, IS, CIS
	AccountName  string `json:"account_nm"`
	ThisTermAmt  string `json:"thstrm_amount"`
	CurrencyCode string `json:"currency"`
}

// FetchPeriod returns the canonical income-statement accounts of one filing.
// Consolidated figures win over separate ones. A filing that does not exist
// yields an empty map and no error.
func (c *Client) FetchPeriod(ctx context.Context, corpKey string, year int, period domrepo.PeriodCode) (map[string]decimal.Decimal, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	code, ok := reportCodes[period]
	if !ok {
		return nil, fmt.Errorf("dart: unknown period %q", period)
	}

	var resp singleAccountResponse
	err := c.http.GetJSON(ctx, c.baseURL+"/fnlttSinglAcnt.json", map[string][]string{
		"crtfc_key":  {c.apiKey},
		"corp_code":  {corpKey},
		"bsns_year":  {strconv.Itoa(year)},
		"reprt_code": {code},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("dart %s %d %s: %w", corpKey, year, period, err)
	}

	switch resp.Status {
	case statusOK:
	case statusNoData:
		return map[string]decimal.Decimal{}, nil
	default:
		return nil, &StatusError{Status: resp.Status, Message: resp.Message}
	}

	return extractAccounts(resp.List), nil
}

func extractAccounts(list []accountRecord) map[string]decimal.Decimal {
	byDiv := map[string]map[string]decimal.Decimal{}
	for _, rec := range list {
		if rec.SjDiv != "IS" && rec.SjDiv != "CIS" {
			continue
		}
		key, ok := accountNames[strings.ReplaceAll(rec.AccountName, " ", "")]
		if !ok {
			continue
		}
		amount, ok := ParseAmount(rec.ThisTermAmt)
		if !ok {
			continue
		}
		accounts, ok := byDiv[rec.FsDiv]
		if !ok {
			accounts = map[string]decimal.Decimal{}
			byDiv[rec.FsDiv] = accounts
		}
		if _, seen := accounts[key]; !seen {
			accounts[key] = amount
		}
	}

	if cfs := byDiv["CFS"]; len(cfs) > 0 {
		return cfs
	}
	if ofs := byDiv["OFS"]; len(ofs) > 0 {
		return ofs
	}
	return map[string]decimal.Decimal{}
}

// ParseAmount parses amounts like "74,068,302,000,000" or "-1,234". A dash
// or blank means no value.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" || s == "-" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
