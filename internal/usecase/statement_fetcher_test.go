package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SemiDash/internal/domain/models"
	domrepo "SemiDash/internal/domain/repository"
)

func TestStatementFetcher_RicherSourceWinsAtSameDate(t *testing.T) {
	src := &MockStatementSource{FetchFunc: func(_ context.Context, _ string, v domrepo.StatementVariant) ([]models.RawStatement, error) {
		switch v {
		case domrepo.VariantDetailed:
			return []models.RawStatement{
				{Date: "2024-06-30", TotalRevenue: 200, OperatingIncome: 40},
			}, nil
		default:
			return []models.RawStatement{
				{Date: "2023-06-30", TotalRevenue: 150},
				{Date: "2024-06-30", TotalRevenue: 199, OperatingIncome: 0},
			}, nil
		}
	}}

	got, err := NewStatementFetcher(src, nil, nil).Fetch(context.Background(), "MU")
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "2023-06-30", got[0].Date, "sorted ascending")
	assert.Equal(t, 150.0, got[0].TotalRevenue)
	assert.Equal(t, 40.0, got[1].OperatingIncome)
	assert.Equal(t, 200.0, got[1].TotalRevenue)
}

func TestStatementFetcher_OneVariantFailing(t *testing.T) {
	src := &MockStatementSource{FetchFunc: func(_ context.Context, _ string, v domrepo.StatementVariant) ([]models.RawStatement, error) {
		if v == domrepo.VariantDetailed {
			return nil, errors.New("401 unauthorized")
		}
		return []models.RawStatement{{Date: "2024-03-31", TotalRevenue: 10}}, nil
	}}

	got, err := NewStatementFetcher(src, nil, nil).Fetch(context.Background(), "WDC")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestStatementFetcher_BothEmpty(t *testing.T) {
	src := &MockStatementSource{FetchFunc: func(_ context.Context, _ string, v domrepo.StatementVariant) ([]models.RawStatement, error) {
		if v == domrepo.VariantDetailed {
			return nil, errors.New("timeout")
		}
		return nil, nil
	}}

	_, err := NewStatementFetcher(src, nil, nil).Fetch(context.Background(), "XXXX")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoData)
	assert.Contains(t, err.Error(), "XXXX")
}

func TestMergeStatements_KeepsUniqueEntries(t *testing.T) {
	got := MergeStatements(
		[]models.RawStatement{{Date: "2022-12-31"}, {Date: "2023-03-31"}},
		[]models.RawStatement{{Date: "2023-06-30"}},
	)
	dates := make([]string, len(got))
	for i, s := range got {
		dates[i] = s.Date
	}
	assert.Equal(t, []string{"2022-12-31", "2023-03-31", "2023-06-30"}, dates)
}
