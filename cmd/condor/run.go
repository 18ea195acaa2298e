package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/eddiefleurent/stamford_condor/internal/engine"
	"github.com/eddiefleurent/stamford_condor/internal/marketdata"
	"github.com/eddiefleurent/stamford_condor/internal/models"
	"github.com/eddiefleurent/stamford_condor/internal/stats"
)

var runParams models.Params

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one backtest over every archived trading date",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadApp()
		if err != nil {
			return err
		}

		store := marketdata.NewCache(marketdata.NewArchiveStore(cfg.Data.Dir))
		eng := engine.New(store, cfg.Bounds, cfg.Engine.Parallelism, logger)

		report, err := eng.Run(context.Background(), runParams)
		if err != nil {
			return err
		}

		printReport(report)
		return nil
	},
}

func init() {
	f := runCmd.Flags()
	f.Int32Var(&runParams.EntryTime, "entry-time", 93000000, "clock gate before which no entry evaluates (HHMMSSmmm)")
	f.IntVar(&runParams.SpreadWidth, "spread-width", 30, "points between short and long strike")
	f.Float64Var(&runParams.MinCredit, "entry-credit", 1.0, "minimum opening credit per spread")
	f.IntVar(&runParams.SpreadsPerSide, "spreads", 5, "maximum spreads per side")
	f.Float64Var(&runParams.StopPrice, "stop-price", 1.4, "entry arms once the spread trades above this")
	f.Float64Var(&runParams.LimitPrice, "limit-price", 1.2, "armed entry fills strictly between limit and stop")
	f.Float64Var(&runParams.StopLossMultiplier, "stop-loss-multiplier", 2.0, "exit when price exceeds entry credit times this")
}

func printReport(report *stats.Report) {
	fmt.Printf("Run %s\n\n", report.RunID)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Date", "Side", "Short", "Long", "Entry", "Exit", "Profit")
	for _, row := range report.Trades {
		exit := row.ExitTime
		if row.ExitPrice != nil {
			exit = fmt.Sprintf("%s @ %.3f", row.ExitTime, *row.ExitPrice)
		}
		table.Append(
			row.Date,
			row.Kind,
			strconv.Itoa(row.ShortStrike),
			strconv.Itoa(row.LongStrike),
			fmt.Sprintf("%s @ %.3f", row.EntryTime, row.EntryCredit),
			exit,
			fmt.Sprintf("%.2f", row.Profit),
		)
	}
	table.Render()

	fmt.Printf("\nTrades: %d (%d wins / %d losses, %.2f%% win rate)\n",
		report.TotalTrades, report.Wins, report.Losses, report.WinRate)
	fmt.Printf("Total profit:    %.2f\n", report.TotalProfit)
	fmt.Printf("Best day:        %.2f\n", report.MaxDailyWin)
	fmt.Printf("Worst day loss:  %.2f\n", report.MaxDailyLoss)
	fmt.Printf("Daily profit:    mean %.2f, median %.2f, stddev %.2f\n",
		report.Summary.MeanDailyProfit, report.Summary.MedianDailyProfit, report.Summary.StdDevDailyProfit)
}
