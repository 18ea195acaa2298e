package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/eddiefleurent/stamford_condor/internal/fetch"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download daily option archives for every configured date",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadApp()
		if err != nil {
			return err
		}
		if cfg.Fetch.BaseURL == "" {
			return fmt.Errorf("fetch.base_url is not configured")
		}

		// The bounds table is the authoritative date list.
		dates := make([]string, 0, len(cfg.Bounds))
		for date := range cfg.Bounds {
			dates = append(dates, date)
		}
		sort.Strings(dates)

		client := fetch.NewClient(cfg.Fetch.BaseURL, logger)
		if err := client.FetchArchives(context.Background(), dates, cfg.Data.Dir); err != nil {
			return err
		}

		logger.Infof("Archives up to date in %s", cfg.Data.Dir)
		return nil
	},
}
