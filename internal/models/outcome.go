package models

import "fmt"

// TriggerState is the terminal state of one simulated order trigger.
type TriggerState string

const (
	// TriggerNoData means at least one leg had no recorded samples, so the
	// order could never be evaluated.
	TriggerNoData TriggerState = "no_data"
	// TriggerNotTriggered means both legs had data but the condition never
	// fired before the series ran out.
	TriggerNotTriggered TriggerState = "not_triggered"
	// TriggerFilled means the condition fired; Time and Price are set.
	TriggerFilled TriggerState = "filled"
)

// Trigger is the result of simulating one order (entry stop-limit or exit
// stop-loss) against the merged leg series. Time and Price are meaningful
// only when State == TriggerFilled.
type Trigger struct {
	State TriggerState `json:"state"`
	Time  int32        `json:"time,omitempty"`
	Price float64      `json:"price,omitempty"`
}

// Filled reports whether the trigger fired.
func (t Trigger) Filled() bool { return t.State == TriggerFilled }

// TradeOutcome is the result of simulating one spread on one date. Created
// once per (spread, date); never mutated afterwards.
type TradeOutcome struct {
	Date   string  `json:"date"`
	Spread Spread  `json:"spread"`
	Entry  Trigger `json:"entry"`
	Exit   Trigger `json:"exit"`
	// Profit is the realized P&L scaled by the 100x contract multiplier.
	// Zero and meaningless when the spread never entered.
	Profit float64 `json:"profit"`
}

// Entered reports whether the stop-limit entry filled.
func (o TradeOutcome) Entered() bool { return o.Entry.Filled() }

// Stopped reports whether the position was closed by the stop-loss rather
// than held to expiration.
func (o TradeOutcome) Stopped() bool { return o.Entered() && o.Exit.Filled() }

// Params are the invocation parameters of one backtest run. All fields are
// required; Validate rejects anything the simulation cannot act on before
// any data is touched.
type Params struct {
	// EntryTime is the intraday timestamp the entry order starts watching
	// from (HHMMSS-millisecond scale, e.g. 90000000 for 09:00).
	EntryTime int32 `json:"entryTime"`
	// SpreadWidth is the strike distance between the short and long leg.
	SpreadWidth int `json:"spreadWidth"`
	// MinCredit is the minimum opening credit a spread must offer.
	MinCredit float64 `json:"entryCredit"`
	// SpreadsPerSide caps how many call and how many put spreads are taken.
	SpreadsPerSide int `json:"numberOfSpreads"`
	// StopPrice and LimitPrice define the stop-limit entry band: the order
	// arms above StopPrice and fills strictly inside (LimitPrice, StopPrice).
	StopPrice  float64 `json:"stopPrice"`
	LimitPrice float64 `json:"limitPrice"`
	// StopLossMultiplier scales the entry credit into the exit threshold.
	StopLossMultiplier float64 `json:"stopLossMultiplier"`
}

// Validate checks the parameters for values the simulation cannot act on.
func (p Params) Validate() error {
	if p.EntryTime <= 0 {
		return fmt.Errorf("entryTime must be positive, got %d", p.EntryTime)
	}
	if p.SpreadWidth <= 0 {
		return fmt.Errorf("spreadWidth must be positive, got %d", p.SpreadWidth)
	}
	if p.MinCredit <= 0 {
		return fmt.Errorf("entryCredit must be positive, got %v", p.MinCredit)
	}
	if p.SpreadsPerSide <= 0 {
		return fmt.Errorf("numberOfSpreads must be positive, got %d", p.SpreadsPerSide)
	}
	if p.StopPrice <= 0 || p.LimitPrice <= 0 {
		return fmt.Errorf("stopPrice and limitPrice must be positive, got %v and %v", p.StopPrice, p.LimitPrice)
	}
	if p.LimitPrice >= p.StopPrice {
		return fmt.Errorf("limitPrice %v must be below stopPrice %v", p.LimitPrice, p.StopPrice)
	}
	if p.StopLossMultiplier <= 0 {
		return fmt.Errorf("stopLossMultiplier must be positive, got %v", p.StopLossMultiplier)
	}
	return nil
}
