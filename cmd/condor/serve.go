package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eddiefleurent/stamford_condor/internal/api"
	"github.com/eddiefleurent/stamford_condor/internal/marketdata"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the backtest API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadApp()
		if err != nil {
			return err
		}

		store := marketdata.NewCache(marketdata.NewArchiveStore(cfg.Data.Dir))
		server := api.NewServer(cfg, store, logger)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

		errChan := make(chan error, 1)
		go func() {
			errChan <- server.Start()
		}()

		select {
		case err := <-errChan:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		case sig := <-sigChan:
			logger.Infof("Received %s, shutting down", sig)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return err
			}
		}

		logger.Info("Server stopped")
		return nil
	},
}
