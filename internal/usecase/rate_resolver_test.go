package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SemiDash/internal/domain/models"
)

func TestRateResolver_CommonCurrencyIsIdentity(t *testing.T) {
	fx := &MockFxSource{}
	r := NewRateResolver(fx, nil)

	got := r.Resolve(context.Background(), "KRW", []string{"2024-03-31", "2024-06-30", "whatever"})

	assert.Equal(t, models.ExchangeRateSeries{"2024-03-31": 1, "2024-06-30": 1, "whatever": 1}, got)
	assert.Empty(t, fx.Calls(), "no network call for the common currency")
}

func TestRateResolver_SingleFetchOverWidenedWindow(t *testing.T) {
	var gotFrom, gotTo string
	fx := &MockFxSource{FetchDailySeriesFunc: func(_ context.Context, pair, from, to string) ([]models.FxQuote, error) {
		gotFrom, gotTo = from, to
		return []models.FxQuote{
			{Date: "2024-03-29", Close: 1347},
			{Date: "2024-06-28", Close: 1376},
		}, nil
	}}
	r := NewRateResolver(fx, nil)

	got := r.Resolve(context.Background(), "USD", []string{"2024-06-30", "2024-03-31"})

	assert.Equal(t, []string{"USDKRW=X"}, fx.Calls())
	assert.Equal(t, "2024-03-21", gotFrom)
	assert.Equal(t, "2024-07-10", gotTo)
	assert.Equal(t, 1347.0, got["2024-03-31"])
	assert.Equal(t, 1376.0, got["2024-06-30"])
}

func TestRateResolver_NearestDateFallback(t *testing.T) {
	fx := &MockFxSource{FetchDailySeriesFunc: func(context.Context, string, string, string) ([]models.FxQuote, error) {
		// Friday and the following Monday; the weekend has no quotes.
		return []models.FxQuote{
			{Date: "2024-04-01", Close: 1350},
			{Date: "2024-03-28", Close: 1330},
			{Date: "2024-03-29", Close: 1340},
			{Date: "2024-03-30", Close: 0},
		}, nil
	}}
	r := NewRateResolver(fx, nil)

	got := r.Resolve(context.Background(), "USD", []string{"2024-03-30", "2024-03-31", "2024-03-28"})

	assert.Equal(t, 1340.0, got["2024-03-30"], "saturday resolves to friday")
	assert.Equal(t, 1350.0, got["2024-03-31"], "sunday resolves to monday")
	assert.Equal(t, 1330.0, got["2024-03-28"], "exact match")
}

func TestRateResolver_TieGoesToEarlierDate(t *testing.T) {
	fx := &MockFxSource{FetchDailySeriesFunc: func(context.Context, string, string, string) ([]models.FxQuote, error) {
		return []models.FxQuote{
			{Date: "2024-03-31", Close: 1360},
			{Date: "2024-03-29", Close: 1340},
		}, nil
	}}
	got := NewRateResolver(fx, nil).Resolve(context.Background(), "USD", []string{"2024-03-30"})
	assert.Equal(t, 1340.0, got["2024-03-30"])
}

func TestRateResolver_NoCoverageOmitsDate(t *testing.T) {
	fx := &MockFxSource{FetchDailySeriesFunc: func(context.Context, string, string, string) ([]models.FxQuote, error) {
		return nil, nil
	}}
	got := NewRateResolver(fx, nil).Resolve(context.Background(), "JPY", []string{"2024-03-31"})

	_, ok := got["2024-03-31"]
	assert.False(t, ok)
}

func TestRateResolver_FetchFailureReturnsEmptyMap(t *testing.T) {
	fx := &MockFxSource{FetchDailySeriesFunc: func(context.Context, string, string, string) ([]models.FxQuote, error) {
		return nil, errors.New("503 service unavailable")
	}}
	got := NewRateResolver(fx, nil).Resolve(context.Background(), "TWD", []string{"2024-03-31"})

	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLatestRecordRate(t *testing.T) {
	rate, ok := LatestRecordRate([]models.QuarterlyRecord{
		{Date: "2024-03-31", ExchangeRate: 1300},
		{Date: "2024-06-30", ExchangeRate: 1380},
		{Date: "2024-09-30"},
	})
	require.True(t, ok)
	assert.Equal(t, 1380.0, rate, "newest quarter without a rate is skipped")

	_, ok = LatestRecordRate([]models.QuarterlyRecord{{Date: "2024-03-31"}})
	assert.False(t, ok)

	_, ok = LatestRecordRate(nil)
	assert.False(t, ok)
}
