package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const metricsYAML = `
micron:
  - name: hbm_share
    label: HBM share
    value: 21.5
    unit: "%"
    as_of: "2024-Q4"
  - name: capex
    value: 8.2
    unit: B
    currency: USD
`

func TestFileStaticMetrics_Read(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.yaml")
	require.NoError(t, os.WriteFile(path, []byte(metricsYAML), 0o644))

	src := NewFileStaticMetrics(path)

	metrics, err := src.Read("micron")
	require.NoError(t, err)
	require.Len(t, metrics, 2)
	assert.Equal(t, "hbm_share", metrics[0].Name)
	assert.Equal(t, "HBM share", metrics[0].Label)
	assert.InDelta(t, 21.5, metrics[0].Value, 1e-9)
	assert.Equal(t, "2024-Q4", metrics[0].AsOf)
	assert.Equal(t, "USD", metrics[1].Currency)
	assert.Nil(t, metrics[1].ValueKRW)

	unknown, err := src.Read("kioxia")
	require.NoError(t, err)
	assert.Empty(t, unknown)
}

func TestFileStaticMetrics_PicksUpEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a:\n  - name: x\n    value: 1\n"), 0o644))
	src := NewFileStaticMetrics(path)

	first, err := src.Read("a")
	require.NoError(t, err)
	require.Len(t, first, 1)

	require.NoError(t, os.WriteFile(path, []byte("a:\n  - name: x\n    value: 2\n"), 0o644))
	second, err := src.Read("a")
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.InDelta(t, 2.0, second[0].Value, 1e-9)
}

func TestFileStaticMetrics_MissingFile(t *testing.T) {
	src := NewFileStaticMetrics(filepath.Join(t.TempDir(), "absent.yaml"))
	metrics, err := src.Read("micron")
	require.NoError(t, err)
	assert.Empty(t, metrics)
}

func TestFileStaticMetrics_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.yaml")
	require.NoError(t, os.WriteFile(path, []byte("micron: [unclosed"), 0o644))

	_, err := NewFileStaticMetrics(path).Read("micron")
	assert.Error(t, err)
}
