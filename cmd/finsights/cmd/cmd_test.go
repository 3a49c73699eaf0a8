package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "finsights version "+version)
}

func TestTaxCmd(t *testing.T) {
	out, err := execute(t, "tax", "--year", "2018", "20000", "10000")
	require.NoError(t, err)
	assert.Contains(t, out, "## FY2018 income tax")
	assert.Contains(t, out, "| $20,000.00 | $342.00 | 1.71% |")
	assert.Contains(t, out, "| $10,000.00 | $0.00 | 0.00% |")

	_, err = execute(t, "tax", "--year", "2018", "lots")
	assert.Error(t, err)

	_, err = execute(t, "tax", "--year", "1999", "1")
	assert.Error(t, err)
}

func TestFrankingCmd(t *testing.T) {
	out, err := execute(t, "franking", "700", "--ratio", "1", "--corp-rate", "0.3")
	require.NoError(t, err)
	assert.Contains(t, out, "| $700.00 | $300.00 | $1,000.00 |")

	_, err = execute(t, "franking", "700", "--ratio", "1", "--corp-rate", "1")
	assert.Error(t, err)
}

func TestGrowthCmd(t *testing.T) {
	out, err := execute(t, "growth",
		"--salary", "0", "--start", "10000", "--growth", "0.05", "--payout", "0", "--years", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "| 1 | $0.00 | $0.00 | $0.00 | $10,500.00 |")
	assert.Contains(t, out, "## Summary")

	out, err = execute(t, "growth",
		"--salary", "0", "--start", "10000", "--growth", "0.05", "--payout", "0", "--years", "1",
		"--vs-growth", "0.1")
	require.NoError(t, err)
	assert.Contains(t, out, "## Comparison")
	assert.Contains(t, out, "$11,000.00")

	_, err = execute(t, "growth", "--years", "0")
	assert.Error(t, err)
}

func TestMarginCmd_BadLayout(t *testing.T) {
	_, err := execute(t, "margin", "VAS.AX", "--layout", "diagonal")
	assert.Error(t, err)
}
