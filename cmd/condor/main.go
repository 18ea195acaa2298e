// Command condor backtests iron-condor credit-spread strategies over
// historical intraday option archives.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/eddiefleurent/stamford_condor/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "condor",
	Short: "Iron condor credit-spread backtester",
	Long: "condor discovers vertical credit spreads in historical option archives,\n" +
		"simulates stop-limit entries and stop-loss exits, and reports aggregate\n" +
		"performance per run.",
	SilenceUsage: true,
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to configuration file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(fetchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadApp loads .env (when present), the YAML config, and a logger at the
// configured level. Every subcommand starts here.
func loadApp() (*config.Config, *logrus.Logger, error) {
	// A missing .env is fine; the config file expands whatever is set.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.Environment.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return cfg, logger, nil
}
