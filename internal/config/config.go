package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/diabolical-ninja/Finsights/internal/calculator"
	"github.com/diabolical-ninja/Finsights/internal/growth"
	"github.com/diabolical-ninja/Finsights/internal/model"
	"github.com/diabolical-ninja/Finsights/internal/tax"
)

// TaxTable is a bracket table for one financial year.
type TaxTable struct {
	Year     int                `yaml:"year"`
	Brackets []model.TaxBracket `yaml:"brackets"`
}

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider     string `yaml:"provider"` // yahoo or alphavantage
		APIKey       string `yaml:"api_key"`
		Aggregation  string `yaml:"aggregation"`
		FillCalendar bool   `yaml:"fill_calendar"`
	} `yaml:"data_source"`
	Tax struct {
		Year   int        `yaml:"year"` // 0 selects the latest table
		Tables []TaxTable `yaml:"tables"`
	} `yaml:"tax"`
	Growth growth.Params `yaml:"growth"`
	Margin struct {
		Symbols             []string `yaml:"symbols"`
		MaxLVR              float64  `yaml:"max_lvr"`
		Buffer              float64  `yaml:"buffer"`
		Step                float64  `yaml:"step"`
		DrawdownWindow      int      `yaml:"drawdown_window"`
		InitialInvestment   float64  `yaml:"initial_investment"`
		InitialLVR          float64  `yaml:"initial_lvr"`
		CurrentLVR          float64  `yaml:"current_lvr"`
		LegacyDeclineFilter bool     `yaml:"legacy_decline_filter"`
		Concurrency         int      `yaml:"concurrency"`
	} `yaml:"margin"`
	Schedule struct {
		WatchCron string `yaml:"watch_cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("PRICE_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("CRON_WATCH"); v != "" {
		cfg.Schedule.WatchCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("WATCH_SYMBOLS"); v != "" {
		cfg.Margin.Symbols = splitSymbols(v)
	}

	if cfg.Growth.CorporateTaxRate == 0 && cfg.Growth.FrankingRatio > 0 {
		cfg.Growth.CorporateTaxRate = tax.DefaultCorporateRate
	}

	return cfg, nil
}

// defaultConfig is decoded over, so a key set explicitly to zero stays zero.
func defaultConfig() *Config {
	cfg := &Config{}
	cfg.DataSource.Provider = "yahoo"
	cfg.DataSource.Aggregation = string(model.Daily)
	cfg.Margin.MaxLVR = 0.7
	cfg.Margin.Buffer = 0.1
	cfg.Margin.Step = 0.01
	cfg.Margin.DrawdownWindow = 252
	cfg.Margin.Concurrency = 4
	cfg.Schedule.WatchCron = "0 30 18 * * 1-5"
	return cfg
}

func splitSymbols(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate checks the settings every command relies on.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo":
	case "alphavantage":
		if c.DataSource.APIKey == "" {
			return fmt.Errorf("data_source.api_key is required for alphavantage")
		}
	default:
		return fmt.Errorf("data_source.provider must be yahoo or alphavantage, got %q", c.DataSource.Provider)
	}
	if _, err := c.Aggregation(); err != nil {
		return err
	}
	if c.Margin.DrawdownWindow < 1 {
		return fmt.Errorf("margin.drawdown_window must be positive")
	}
	if _, err := calculator.BuildLVRLookup(c.Margin.MaxLVR, c.Margin.Buffer, c.Margin.Step); err != nil {
		return fmt.Errorf("margin: %w", err)
	}
	if _, err := c.TaxRegistry(); err != nil {
		return err
	}
	return nil
}

// ValidateWatch additionally checks what the scheduled watch needs.
func (c *Config) ValidateWatch() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if len(c.Margin.Symbols) == 0 {
		return fmt.Errorf("margin.symbols must list at least one symbol")
	}
	return nil
}

// Aggregation parses data_source.aggregation.
func (c *Config) Aggregation() (model.Aggregation, error) {
	return model.ParseAggregation(c.DataSource.Aggregation)
}

// DeclineFilter returns the margin call decline filter in effect.
func (c *Config) DeclineFilter() calculator.DeclineFilter {
	if c.Margin.LegacyDeclineFilter {
		return calculator.LegacyDecline
	}
	return calculator.StrictDecline
}

// TaxRegistry returns the built-in tables overlaid with the configured ones.
func (c *Config) TaxRegistry() (*tax.Registry, error) {
	reg := tax.DefaultRegistry()
	for _, t := range c.Tax.Tables {
		tbl, err := tax.NewTable(t.Brackets)
		if err != nil {
			return nil, fmt.Errorf("tax table %d: %w", t.Year, err)
		}
		if err := reg.Add(t.Year, tbl); err != nil {
			return nil, fmt.Errorf("tax table %d: %w", t.Year, err)
		}
	}
	return reg, nil
}
