package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domrepo "SemiDash/internal/domain/repository"
	xhttp "SemiDash/pkg/http"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(Config{BaseURL: srv.URL, RateLimit: -1}, nil)
	c.now = func() time.Time { return time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC) }
	return c
}

func TestClient_DetailedVariant(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v10/finance/quoteSummary/MU", r.URL.Path)
		assert.Equal(t, "incomeStatementHistoryQuarterly", r.URL.Query().Get("modules"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(`{"quoteSummary":{"result":[{"incomeStatementHistoryQuarterly":{"incomeStatementHistory":[
			{"endDate":{"raw":1725062400,"fmt":"2024-08-31"},"totalRevenue":{"raw":7750000000},"operatingIncome":{"raw":1340000000},"netIncome":{"raw":887000000}},
			{"endDate":{"raw":1717113600},"totalRevenue":{"raw":6811000000},"netIncome":{}},
			{"totalRevenue":{"raw":1}}
		]}}],"error":null}}`))
	})

	got, err := c.Fetch(context.Background(), "MU", domrepo.VariantDetailed)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "2024-08-31", got[0].Date)
	assert.Equal(t, 7.75e9, got[0].TotalRevenue)
	assert.Equal(t, 1.34e9, got[0].OperatingIncome)
	assert.Zero(t, got[0].EBITDA, "absent field defaults to zero")

	assert.Equal(t, "2024-05-31", got[1].Date)
	assert.Zero(t, got[1].NetIncome)
	assert.Zero(t, got[1].OperatingIncome)
}

func TestClient_ExtendedVariant(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ws/fundamentals-timeseries/v1/finance/timeseries/WDC", r.URL.Path)
		assert.Equal(t, "quarterlyTotalRevenue,quarterlyNetIncome,quarterlyEBITDA", r.URL.Query().Get("type"))
		w.Write([]byte(`{"timeseries":{"result":[
			{"meta":{"type":["quarterlyTotalRevenue"]},"quarterlyTotalRevenue":[
				{"asOfDate":"2023-12-31","periodType":"3M","reportedValue":{"raw":3032000000}},
				null,
				{"asOfDate":"2024-03-31","periodType":"3M","reportedValue":{"raw":3457000000}}]},
			{"meta":{"type":["quarterlyNetIncome"]},"quarterlyNetIncome":[
				{"asOfDate":"2024-03-31","periodType":"3M","reportedValue":{"raw":135000000}}]},
			{"meta":{"type":["quarterlyEBITDA"]}}
		],"error":null}}`))
	})

	got, err := c.Fetch(context.Background(), "WDC", domrepo.VariantExtended)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2023-12-31", got[0].Date)
	assert.Equal(t, 3.032e9, got[0].TotalRevenue)
	assert.Equal(t, 1.35e8, got[1].NetIncome)
	assert.Zero(t, got[1].OperatingIncome)
}

func TestClient_EmbeddedError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteSummary":{"result":null,"error":{"code":"Not Found","description":"Quote not found for symbol: NOPE"}}}`))
	})

	_, err := c.Fetch(context.Background(), "NOPE", domrepo.VariantDetailed)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Not Found", apiErr.Code)
}

func TestClient_HTTPStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
	})

	_, err := c.Fetch(context.Background(), "MU", domrepo.VariantExtended)
	var statusErr *xhttp.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
}

func TestClient_FetchDailySeries(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/USDKRW=X", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.Equal(t, "1711065600", r.URL.Query().Get("period1"))
		w.Write([]byte(`{"chart":{"result":[{"timestamp":[1711584000,1711670400,1711929600],
			"indicators":{"quote":[{"close":[1347.5,null,1351.2]}]}}],"error":null}}`))
	})

	got, err := c.FetchDailySeries(context.Background(), "USDKRW=X", "2024-03-22", "2024-04-10")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-03-28", got[0].Date)
	assert.Equal(t, 1347.5, got[0].Close)
	assert.Equal(t, "2024-04-01", got[1].Date)
}

func TestClient_FetchDailySeries_UsesExchangeOffset(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// 2024-03-28T15:00:00Z is midnight 2024-03-29 in a UTC+9 session.
		w.Write([]byte(`{"chart":{"result":[{"meta":{"gmtoffset":32400},"timestamp":[1711638000],
			"indicators":{"quote":[{"close":[1349.1]}]}}],"error":null}}`))
	})

	got, err := c.FetchDailySeries(context.Background(), "USDKRW=X", "2024-03-22", "2024-04-10")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2024-03-29", got[0].Date)
}

func TestClient_UnknownVariant(t *testing.T) {
	c := NewClient(Config{}, nil)
	_, err := c.Fetch(context.Background(), "MU", domrepo.StatementVariant("weekly"))
	assert.Error(t, err)
}
