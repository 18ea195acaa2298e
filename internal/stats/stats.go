// Package stats accumulates per-trade, per-day, and run-level backtest
// metrics.
package stats

import (
	mstats "github.com/montanaflynn/stats"

	"github.com/eddiefleurent/stamford_condor/internal/models"
	"github.com/eddiefleurent/stamford_condor/internal/util"
)

// TradeRow is one line of the flat trade log, one per executed trade, with
// display-ready fields.
type TradeRow struct {
	Date        string   `json:"date"`
	Kind        string   `json:"kind"`
	ShortStrike int      `json:"shortStrike"`
	LongStrike  int      `json:"longStrike"`
	OpenCredit  float64  `json:"openCredit"`
	EntryTime   string   `json:"entryTime"`
	EntryCredit float64  `json:"entryCredit"`
	// ExitTime is "expired" and ExitPrice null when the position was held
	// to expiration.
	ExitTime  string   `json:"exitTime"`
	ExitPrice *float64 `json:"exitPrice"`
	Profit    float64  `json:"profit"`
}

// HeldToExpiry is the ExitTime sentinel for positions never stopped out.
const HeldToExpiry = "expired"

// Summary holds distribution statistics over the per-day net profits.
type Summary struct {
	MeanDailyProfit   float64 `json:"meanDailyProfit"`
	MedianDailyProfit float64 `json:"medianDailyProfit"`
	StdDevDailyProfit float64 `json:"stdDevDailyProfit"`
}

// Report is the finalized result of one backtest run. Read-only once built.
type Report struct {
	RunID       string  `json:"runId"`
	TotalProfit float64 `json:"totalProfit"`

	TotalTrades int     `json:"totalTrades"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	WinRate     float64 `json:"winRate"`

	MaxDailyWin  float64 `json:"maxDailyWin"`
	MaxDailyLoss float64 `json:"maxDailyLoss"`

	// Parallel per-day arrays, index-aligned with Dates.
	Dates             []string  `json:"dates"`
	CumulativeProfits []float64 `json:"cumulativeProfits"`
	DailyProfits      []float64 `json:"dailyProfits"`
	DailyLosses       []float64 `json:"dailyLosses"`

	Trades  []TradeRow `json:"trades"`
	Summary Summary    `json:"summary"`
}

// Tracker folds trade outcomes and day totals into a Report. One instance
// per backtest run; RecordTrade/RecordDay must follow the engine's per-date
// order, and Finalize is called exactly once after the last date.
type Tracker struct {
	totalProfit float64
	trades      int
	wins        int
	losses      int

	maxDailyWin  float64
	maxDailyLoss float64

	dates             []string
	cumulativeProfits []float64
	dailyProfits      []float64
	dailyLosses       []float64

	rows []TradeRow

	report *Report
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// RecordTrade folds one executed trade: counters, running total, trade-log
// row. A win is a position held to expiration; a loss is a stop-loss exit.
// Outcomes that never entered must not be passed here.
func (t *Tracker) RecordTrade(o models.TradeOutcome) {
	t.trades++
	if o.Stopped() {
		t.losses++
	} else {
		t.wins++
	}
	t.totalProfit += o.Profit

	row := TradeRow{
		Date:        o.Date,
		Kind:        string(o.Spread.Kind),
		ShortStrike: o.Spread.ShortStrike,
		LongStrike:  o.Spread.LongStrike,
		OpenCredit:  o.Spread.Credit,
		EntryTime:   util.FormatClock(o.Entry.Time),
		EntryCredit: o.Entry.Price,
		ExitTime:    HeldToExpiry,
		Profit:      util.Round2(o.Profit),
	}
	if o.Exit.Filled() {
		row.ExitTime = util.FormatClock(o.Exit.Time)
		price := o.Exit.Price
		row.ExitPrice = &price
	}
	t.rows = append(t.rows, row)
}

// RecordDay closes out one trading date. dailyProfit is the day's net P&L;
// dailyLoss is the sum of the day's stop-loss exits (<= 0). Days with no
// executed trades still get a record so the cumulative series stays aligned
// with the date list.
func (t *Tracker) RecordDay(date string, dailyProfit, dailyLoss float64) {
	t.dates = append(t.dates, date)
	t.cumulativeProfits = append(t.cumulativeProfits, util.Round2(t.totalProfit))
	t.dailyProfits = append(t.dailyProfits, util.Round2(dailyProfit))
	t.dailyLosses = append(t.dailyLosses, util.Round2(dailyLoss))

	if len(t.dates) == 1 {
		t.maxDailyWin = dailyProfit
		t.maxDailyLoss = dailyLoss
		return
	}
	if dailyProfit > t.maxDailyWin {
		t.maxDailyWin = dailyProfit
	}
	if dailyLoss < t.maxDailyLoss {
		t.maxDailyLoss = dailyLoss
	}
}

// Finalize computes the win rate and summary and freezes the report.
// Subsequent calls return the same report.
func (t *Tracker) Finalize() *Report {
	if t.report != nil {
		return t.report
	}

	winRate := 0.0
	if t.trades > 0 {
		winRate = util.Round2(float64(t.wins) / float64(t.trades) * 100)
	}

	t.report = &Report{
		TotalProfit:       util.Round2(t.totalProfit),
		TotalTrades:       t.trades,
		Wins:              t.wins,
		Losses:            t.losses,
		WinRate:           winRate,
		MaxDailyWin:       util.Round2(t.maxDailyWin),
		MaxDailyLoss:      util.Round2(t.maxDailyLoss),
		Dates:             t.dates,
		CumulativeProfits: t.cumulativeProfits,
		DailyProfits:      t.dailyProfits,
		DailyLosses:       t.dailyLosses,
		Trades:            t.rows,
		Summary:           t.summarize(),
	}
	return t.report
}

func (t *Tracker) summarize() Summary {
	if len(t.dailyProfits) == 0 {
		return Summary{}
	}

	data := mstats.Float64Data(t.dailyProfits)
	// The only error mode is an empty input, guarded above.
	mean, _ := mstats.Mean(data)
	median, _ := mstats.Median(data)
	stddev, _ := mstats.StandardDeviation(data)

	return Summary{
		MeanDailyProfit:   util.Round2(mean),
		MedianDailyProfit: util.Round2(median),
		StdDevDailyProfit: util.Round2(stddev),
	}
}
