package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/diabolical-ninja/Finsights/internal/collector"
	"github.com/diabolical-ninja/Finsights/internal/config"
	"github.com/diabolical-ninja/Finsights/internal/notifier"
	"github.com/diabolical-ninja/Finsights/internal/recorder"
)

var (
	cfgFile string
	style   string
	width   int

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "finsights",
	Short: "Tax-aware investment growth and margin loan risk analysis",
	Long: `Finsights models personal investment outcomes and margin loan risk.

It provides tools for:
  - Comparing capital growth and dividend strategies net of income tax
  - Progressive income tax and franked dividend calculations
  - Historical LVR and drawdown analysis of margin loans
  - A scheduled margin watch with Telegram alerts`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
		path := cfgFile
		if path == "" {
			path = "configs/config.yaml"
			if v := os.Getenv("CONFIG_PATH"); v != "" {
				path = v
			}
		}
		c, err := config.Load(path)
		if err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("config validation: %w", err)
		}
		cfg = c
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default $CONFIG_PATH or configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&style, "style", "", "render tables with a glamour style (dark, light, notty); empty prints markdown")
	rootCmd.PersistentFlags().IntVar(&width, "width", 120, "word wrap width for rendered output")
}

// printMarkdown writes md, styled when --style is set.
func printMarkdown(w io.Writer, md string) error {
	out, err := notifier.Render(md, style, width)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, out)
	return err
}

// newFetcher builds the configured price provider.
func newFetcher() collector.Fetcher {
	switch cfg.DataSource.Provider {
	case "alphavantage":
		return collector.NewAlphaVantageFetcher(cfg.DataSource.APIKey, cfg.Proxy)
	default:
		f := collector.NewYahooFetcher(cfg.Proxy)
		f.FillCalendar = cfg.DataSource.FillCalendar
		return f
	}
}

// newCollector wires the price provider to the configured cache. The
// returned func closes the cache.
func newCollector() (*collector.Collector, func()) {
	fetcher := newFetcher()
	log.Printf("[INFO] data source: %s", fetcher.Name())

	var cache recorder.PriceCache = recorder.NewNoopCache()
	if cfg.Database.SQLitePath != "" {
		sc, err := recorder.NewSQLiteCache(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite price cache failed, using noop: %v", err)
		} else {
			cache = sc
		}
	}
	return collector.NewCollector(fetcher, cache), func() {
		if err := cache.Close(); err != nil {
			log.Printf("[WARN] close price cache: %v", err)
		}
	}
}
