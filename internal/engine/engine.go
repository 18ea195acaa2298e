// Package engine runs the full backtest: spread discovery, per-spread order
// simulation, and aggregation across trading dates.
package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/eddiefleurent/stamford_condor/internal/config"
	"github.com/eddiefleurent/stamford_condor/internal/marketdata"
	"github.com/eddiefleurent/stamford_condor/internal/models"
	"github.com/eddiefleurent/stamford_condor/internal/scanner"
	"github.com/eddiefleurent/stamford_condor/internal/simulator"
	"github.com/eddiefleurent/stamford_condor/internal/stats"
)

// Engine wires the scanner and simulator over a shared price-series store
// and folds outcomes into a stats tracker.
type Engine struct {
	store   marketdata.Provider
	scanner *scanner.Scanner
	sim     *simulator.Simulator
	bounds  map[string]models.SearchBound
	logger  *logrus.Logger

	// parallelism is how many dates are simulated concurrently. Outcomes
	// are always folded in date order, so results are identical at any
	// setting.
	parallelism int
}

// New creates an engine. The bounds table seeds each date's ladder scan and
// is read-only; passing it explicitly keeps concurrent parameter sweeps from
// interfering.
func New(store marketdata.Provider, bounds map[string]models.SearchBound, parallelism int, logger *logrus.Logger) *Engine {
	if parallelism < 1 {
		parallelism = 1
	}
	return &Engine{
		store:       store,
		scanner:     scanner.New(store, logger),
		sim:         simulator.New(store),
		bounds:      bounds,
		logger:      logger,
		parallelism: parallelism,
	}
}

// dayResult carries one date's simulated outcomes to the deterministic fold.
type dayResult struct {
	date     string
	outcomes []models.TradeOutcome
}

// Run executes one backtest over every date the store has archives for.
// Parameters are validated before any data is touched. A date without a
// search bound fails the whole run: the scan has no seed strike, and
// silently skipping the date would bias the aggregate statistics.
func (e *Engine) Run(ctx context.Context, p models.Params) (*stats.Report, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	dates, err := e.store.Dates()
	if err != nil {
		return nil, fmt.Errorf("listing trading dates: %w", err)
	}

	// Fail fast on configuration gaps before simulating anything.
	for _, date := range dates {
		if _, ok := e.bounds[date]; !ok {
			return nil, fmt.Errorf("%w: %s", config.ErrMissingBound, date)
		}
	}

	e.logger.WithFields(logrus.Fields{
		"dates":       len(dates),
		"parallelism": e.parallelism,
	}).Info("starting backtest")

	results := make([]dayResult, len(dates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)
	for i, date := range dates {
		i, date := i, date
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes, err := e.simulateDate(date, p)
			if err != nil {
				return fmt.Errorf("simulating %s: %w", date, err)
			}
			results[i] = dayResult{date: date, outcomes: outcomes}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Fold strictly in date order: each day's cumulative figure depends on
	// every prior day.
	tracker := stats.NewTracker()
	for _, day := range results {
		var dailyProfit, dailyLoss float64
		for _, o := range day.outcomes {
			if !o.Entered() {
				continue
			}
			tracker.RecordTrade(o)
			dailyProfit += o.Profit
			if o.Stopped() {
				dailyLoss += o.Profit
			}
		}
		tracker.RecordDay(day.date, dailyProfit, dailyLoss)
	}

	report := tracker.Finalize()
	report.RunID = uuid.NewString()

	e.logger.WithFields(logrus.Fields{
		"run_id":       report.RunID,
		"total_profit": report.TotalProfit,
		"trades":       report.TotalTrades,
		"win_rate":     report.WinRate,
	}).Info("backtest complete")
	return report, nil
}

// simulateDate discovers the date's spreads and runs the order simulation
// for each. Call and put lists are truncated to the shorter of the two so
// the day always holds paired condors, calls first.
func (e *Engine) simulateDate(date string, p models.Params) ([]models.TradeOutcome, error) {
	bound := e.bounds[date]

	calls, err := e.scanner.FindBearishCallSpreads(date, p.EntryTime, p.MinCredit, p.SpreadWidth, p.SpreadsPerSide, bound.Upper)
	if err != nil {
		return nil, err
	}
	puts, err := e.scanner.FindBullishPutSpreads(date, p.EntryTime, p.MinCredit, p.SpreadWidth, p.SpreadsPerSide, bound.Lower)
	if err != nil {
		return nil, err
	}

	if len(calls) > len(puts) {
		calls = calls[:len(puts)]
	} else if len(puts) > len(calls) {
		puts = puts[:len(calls)]
	}

	spreads := make([]models.Spread, 0, len(calls)+len(puts))
	spreads = append(spreads, calls...)
	spreads = append(spreads, puts...)

	outcomes := make([]models.TradeOutcome, 0, len(spreads))
	for _, sp := range spreads {
		outcome, err := e.sim.Run(date, sp, p)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, outcome)

		e.logger.WithFields(logrus.Fields{
			"date":    date,
			"spread":  sp.String(),
			"entered": outcome.Entered(),
			"stopped": outcome.Stopped(),
			"profit":  outcome.Profit,
		}).Debug("spread simulated")
	}
	return outcomes, nil
}
