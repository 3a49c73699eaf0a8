package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diabolical-ninja/Finsights/internal/calculator"
	"github.com/diabolical-ninja/Finsights/internal/model"
	"github.com/diabolical-ninja/Finsights/internal/tax"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "yahoo", cfg.DataSource.Provider)
	assert.Equal(t, 0.7, cfg.Margin.MaxLVR)
	assert.Equal(t, 0.1, cfg.Margin.Buffer)
	assert.Equal(t, 0.01, cfg.Margin.Step)
	assert.Equal(t, 252, cfg.Margin.DrawdownWindow)
	assert.Equal(t, calculator.StrictDecline, cfg.DeclineFilter())

	agg, err := cfg.Aggregation()
	require.NoError(t, err)
	assert.Equal(t, model.Daily, agg)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
data_source:
  provider: alphavantage
  aggregation: weekly
growth:
  salary: 85000
  starting_investment: 20000
  capital_growth: 0.06
  dividend_payout: 0.04
  years: 10
  franking_ratio: 1
margin:
  symbols: [VAS.AX]
  legacy_decline_filter: true
tax:
  tables:
    - year: 2025
      brackets:
        - {threshold: 0, rate: 0}
        - {threshold: 18200, rate: 0.16}
        - {threshold: 45000, rate: 0.30}
`)
	t.Setenv("ALPHAVANTAGE_API_KEY", "secret")
	t.Setenv("WATCH_SYMBOLS", "AFI.AX, VGS.AX,")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "secret", cfg.DataSource.APIKey)
	assert.Equal(t, []string{"AFI.AX", "VGS.AX"}, cfg.Margin.Symbols)
	assert.Equal(t, calculator.LegacyDecline, cfg.DeclineFilter())
	assert.Equal(t, 85000.0, cfg.Growth.Salary)
	assert.Equal(t, 10, cfg.Growth.Years)
	assert.Equal(t, tax.DefaultCorporateRate, cfg.Growth.CorporateTaxRate)

	reg, err := cfg.TaxRegistry()
	require.NoError(t, err)
	year, tbl, err := reg.Latest()
	require.NoError(t, err)
	assert.Equal(t, 2025, year)
	owed, err := tax.Tax(20000, tbl)
	require.NoError(t, err)
	assert.InDelta(t, 288, owed, 1e-9)
}

func TestLoad_ExplicitZeroBuffer(t *testing.T) {
	cfg, err := Load(writeConfig(t, "margin: {buffer: 0, max_lvr: 0.8}"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 0.0, cfg.Margin.Buffer)
	assert.Equal(t, 0.8, cfg.Margin.MaxLVR)
	assert.Equal(t, 0.01, cfg.Margin.Step, "unset keys keep their defaults")
	assert.Equal(t, 252, cfg.Margin.DrawdownWindow)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown provider", "data_source: {provider: bloomberg}"},
		{"alphavantage without key", "data_source: {provider: alphavantage}"},
		{"bad aggregation", "data_source: {aggregation: hourly}"},
		{"negative window", "margin: {drawdown_window: -3}"},
		{"zero max lvr", "margin: {max_lvr: 0}"},
		{"ceiling above one", "margin: {max_lvr: 0.95, buffer: 0.1}"},
		{"zero step", "margin: {step: 0}"},
		{"bad tax table", "tax: {tables: [{year: 2025, brackets: [{threshold: 5, rate: 0.1}]}]}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ALPHAVANTAGE_API_KEY", "")
			cfg, err := Load(writeConfig(t, tt.body))
			require.NoError(t, err)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateWatch(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	t.Setenv("WATCH_SYMBOLS", "")

	cfg, err := Load(writeConfig(t, "telegram: {bot_token: t, chat_id: c}"))
	require.NoError(t, err)
	assert.Error(t, cfg.ValidateWatch(), "symbols missing")

	cfg.Margin.Symbols = []string{"VAS.AX"}
	assert.NoError(t, cfg.ValidateWatch())

	cfg.Telegram.ChatID = ""
	assert.Error(t, cfg.ValidateWatch())
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "margin: [unterminated"))
	assert.Error(t, err)
}

func TestLoad_ExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "config.example.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"VAS.AX", "VGS.AX"}, cfg.Margin.Symbols)
	assert.True(t, cfg.Growth.FinalYearLiquidation)
	reg, err := cfg.TaxRegistry()
	require.NoError(t, err)
	assert.Equal(t, []int{2018, 2019, 2025}, reg.Years())
}
