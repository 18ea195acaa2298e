package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceAtForwardLooking(t *testing.T) {
	series := PriceSeries{
		{Time: 1000, Mid: 2.0},
		{Time: 2000, Mid: 2.5},
		{Time: 2000, Mid: 2.6}, // duplicate timestamp: first one wins
		{Time: 5000, Mid: 3.0},
	}

	tests := []struct {
		name    string
		ts      int32
		wantMid float64
		wantOK  bool
	}{
		{"before first sample", 500, 2.0, true},
		{"exact match", 2000, 2.5, true},
		{"between samples lands forward", 2001, 3.0, true},
		{"just before a sample", 4999, 3.0, true},
		{"exactly last sample", 5000, 3.0, true},
		{"past the end", 5001, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mid, ok := series.PriceAt(tt.ts)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantMid, mid)
			}
		})
	}
}

func TestPriceAtEmptySeries(t *testing.T) {
	var series PriceSeries
	assert.True(t, series.Empty())

	_, ok := series.PriceAt(0)
	assert.False(t, ok)
}

func TestOptionKind(t *testing.T) {
	assert.Equal(t, "C", Call.Prefix())
	assert.Equal(t, "P", Put.Prefix())
	assert.True(t, Call.Valid())
	assert.True(t, Put.Valid())
	assert.False(t, OptionKind("straddle").Valid())
}

func TestParamsValidate(t *testing.T) {
	valid := Params{
		EntryTime:          90000000,
		SpreadWidth:        30,
		MinCredit:          1.3,
		SpreadsPerSide:     3,
		StopPrice:          1.2,
		LimitPrice:         1.0,
		StopLossMultiplier: 2.0,
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero entry time", func(p *Params) { p.EntryTime = 0 }},
		{"negative width", func(p *Params) { p.SpreadWidth = -5 }},
		{"zero min credit", func(p *Params) { p.MinCredit = 0 }},
		{"zero spreads per side", func(p *Params) { p.SpreadsPerSide = 0 }},
		{"limit above stop", func(p *Params) { p.LimitPrice = 1.5 }},
		{"limit equal to stop", func(p *Params) { p.LimitPrice = p.StopPrice }},
		{"zero stop-loss multiplier", func(p *Params) { p.StopLossMultiplier = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			assert.Error(t, p.Validate())
		})
	}
}

func TestTradeOutcomeClassification(t *testing.T) {
	held := TradeOutcome{
		Entry: Trigger{State: TriggerFilled, Time: 93000000, Price: 1.1},
		Exit:  Trigger{State: TriggerNotTriggered},
	}
	assert.True(t, held.Entered())
	assert.False(t, held.Stopped())

	stopped := TradeOutcome{
		Entry: Trigger{State: TriggerFilled, Time: 93000000, Price: 1.1},
		Exit:  Trigger{State: TriggerFilled, Time: 100000000, Price: 2.3},
	}
	assert.True(t, stopped.Stopped())

	never := TradeOutcome{Entry: Trigger{State: TriggerNotTriggered}}
	assert.False(t, never.Entered())
	assert.False(t, never.Stopped())
}
