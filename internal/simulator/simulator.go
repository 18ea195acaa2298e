// Package simulator replays a spread's two leg series against a stop-limit
// entry order and a stop-loss exit order.
package simulator

import (
	"fmt"

	"github.com/eddiefleurent/stamford_condor/internal/marketdata"
	"github.com/eddiefleurent/stamford_condor/internal/models"
	"github.com/eddiefleurent/stamford_condor/internal/util"
)

// contractMultiplier scales per-unit P&L to per-contract dollars.
const contractMultiplier = 100

// Simulator runs order triggers for one spread at a time. It holds no
// per-run state and is safe for concurrent use when its store is.
type Simulator struct {
	store marketdata.Provider
}

// New creates a simulator over the given price-series store.
func New(store marketdata.Provider) *Simulator {
	return &Simulator{store: store}
}

// SimulateEntry replays the stop-limit entry order, watching from entryTS
// onward. NoData when either leg is empty; NotTriggered when the walk
// exhausts without a fill inside the limit band.
func (s *Simulator) SimulateEntry(date string, sp models.Spread, entryTS int32, stopPrice, limitPrice float64) (models.Trigger, error) {
	return s.runTrigger(date, sp, entryTS, &stopLimit{stop: stopPrice, limit: limitPrice})
}

// SimulateExit replays the stop-loss order starting after the entry fill.
// The threshold is entryCredit x multiplier; NotTriggered means the position
// was held to expiration.
func (s *Simulator) SimulateExit(date string, sp models.Spread, entryTS int32, entryCredit, multiplier float64) (models.Trigger, error) {
	return s.runTrigger(date, sp, entryTS, &stopLoss{threshold: entryCredit * multiplier})
}

// Run simulates the full lifecycle of one spread on one date: entry, then
// exit if entered, then the profit rule. A spread that never enters carries
// zero profit and is excluded from aggregation by the engine.
func (s *Simulator) Run(date string, sp models.Spread, p models.Params) (models.TradeOutcome, error) {
	outcome := models.TradeOutcome{Date: date, Spread: sp}

	entry, err := s.SimulateEntry(date, sp, p.EntryTime, p.StopPrice, p.LimitPrice)
	if err != nil {
		return outcome, err
	}
	outcome.Entry = entry
	if !entry.Filled() {
		return outcome, nil
	}

	exit, err := s.SimulateExit(date, sp, entry.Time, entry.Price, p.StopLossMultiplier)
	if err != nil {
		return outcome, err
	}
	outcome.Exit = exit

	if exit.Filled() {
		outcome.Profit = (entry.Price - exit.Price) * contractMultiplier
	} else {
		outcome.Profit = entry.Price * contractMultiplier
	}
	return outcome, nil
}

func (s *Simulator) runTrigger(date string, sp models.Spread, gate int32, cond condition) (models.Trigger, error) {
	near, err := s.store.Load(date, sp.ShortStrike, sp.Kind)
	if err != nil {
		return models.Trigger{}, fmt.Errorf("loading near leg %s%d: %w", sp.Kind.Prefix(), sp.ShortStrike, err)
	}
	far, err := s.store.Load(date, sp.LongStrike, sp.Kind)
	if err != nil {
		return models.Trigger{}, fmt.Errorf("loading far leg %s%d: %w", sp.Kind.Prefix(), sp.LongStrike, err)
	}

	if near.Empty() || far.Empty() {
		return models.Trigger{State: models.TriggerNoData}, nil
	}

	result := models.Trigger{State: models.TriggerNotTriggered}
	mergeWalk(near, far, gate, func(pos float64, ts int32) bool {
		if cond.step(pos) {
			result = models.Trigger{
				State: models.TriggerFilled,
				Time:  ts,
				Price: util.Round3(pos),
			}
			return true
		}
		return false
	})
	return result, nil
}
