// Package api exposes the backtest engine over HTTP as JSON.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/eddiefleurent/stamford_condor/internal/config"
	"github.com/eddiefleurent/stamford_condor/internal/engine"
	"github.com/eddiefleurent/stamford_condor/internal/marketdata"
	"github.com/eddiefleurent/stamford_condor/internal/models"
)

// Server hosts the backtest API. Each request runs one full simulation; the
// engine and store are shared and safe for concurrent requests.
type Server struct {
	router *chi.Mux
	server *http.Server
	engine *engine.Engine
	logger *logrus.Logger
	port   int
}

// backtestRequest mirrors models.Params with pointer fields so missing
// parameters are distinguishable from zero values and rejected up front.
type backtestRequest struct {
	EntryTime          *int32   `json:"entryTime"`
	SpreadWidth        *int     `json:"spreadWidth"`
	EntryCredit        *float64 `json:"entryCredit"`
	NumberOfSpreads    *int     `json:"numberOfSpreads"`
	StopPrice          *float64 `json:"stopPrice"`
	LimitPrice         *float64 `json:"limitPrice"`
	StopLossMultiplier *float64 `json:"stopLossMultiplier"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewServer creates the API server around a configured store and engine.
func NewServer(cfg *config.Config, store marketdata.Provider, logger *logrus.Logger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		engine: engine.New(store, cfg.Bounds, cfg.Engine.Parallelism, logger),
		logger: logger,
		port:   cfg.Server.Port,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(5 * time.Minute))

	s.router.Post("/api/backtest", s.handleBacktest)
	s.router.Get("/health", s.handleHealth)
}

// Handler returns the configured router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks serving the API until Shutdown or a listener error.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Infof("Starting backtest API on port %d", s.port)
	return s.server.ListenAndServe()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	var req backtestRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("malformed request body: %w", err))
		return
	}

	params, err := req.toParams()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	report, err := s.engine.Run(r.Context(), params)
	if err != nil {
		s.logger.WithError(err).Error("Backtest run failed")
		status := http.StatusInternalServerError
		if errors.Is(err, config.ErrMissingBound) {
			status = http.StatusUnprocessableEntity
		}
		s.writeError(w, status, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		s.logger.WithError(err).Error("Failed to encode report")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(health); err != nil {
		s.logger.WithError(err).Error("Failed to encode health response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(errorResponse{Error: err.Error()}); encErr != nil {
		s.logger.WithError(encErr).Error("Failed to encode error response")
	}
}

func (r backtestRequest) toParams() (models.Params, error) {
	missing := func(name string) (models.Params, error) {
		return models.Params{}, fmt.Errorf("missing required parameter %q", name)
	}
	switch {
	case r.EntryTime == nil:
		return missing("entryTime")
	case r.SpreadWidth == nil:
		return missing("spreadWidth")
	case r.EntryCredit == nil:
		return missing("entryCredit")
	case r.NumberOfSpreads == nil:
		return missing("numberOfSpreads")
	case r.StopPrice == nil:
		return missing("stopPrice")
	case r.LimitPrice == nil:
		return missing("limitPrice")
	case r.StopLossMultiplier == nil:
		return missing("stopLossMultiplier")
	}

	p := models.Params{
		EntryTime:          *r.EntryTime,
		SpreadWidth:        *r.SpreadWidth,
		MinCredit:          *r.EntryCredit,
		SpreadsPerSide:     *r.NumberOfSpreads,
		StopPrice:          *r.StopPrice,
		LimitPrice:         *r.LimitPrice,
		StopLossMultiplier: *r.StopLossMultiplier,
	}
	if err := p.Validate(); err != nil {
		return models.Params{}, err
	}
	return p, nil
}
