package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddiefleurent/stamford_condor/internal/marketdata"
	"github.com/eddiefleurent/stamford_condor/internal/models"
)

const testDate = "20240201"

var testSpread = models.Spread{
	Kind:        models.Call,
	ShortStrike: 5000,
	LongStrike:  5030,
	Credit:      1.5,
}

func storeWith(near, far models.PriceSeries) *marketdata.Memory {
	store := marketdata.NewMemory()
	store.Put(testDate, testSpread.ShortStrike, testSpread.Kind, near)
	store.Put(testDate, testSpread.LongStrike, testSpread.Kind, far)
	return store
}

func TestSimulateEntryFillsInsideBand(t *testing.T) {
	near := models.PriceSeries{
		{Time: 900, Mid: 0.5},
		{Time: 1000, Mid: 1.6},
		{Time: 1100, Mid: 1.5},
	}
	far := models.PriceSeries{
		{Time: 900, Mid: 0.1},
		{Time: 1000, Mid: 0.1},
		{Time: 1100, Mid: 0.2},
	}
	sim := New(storeWith(near, far))

	// Position 1.5 at t=1000 arms above stop 1.4; position 1.3 at t=1100
	// sits inside (1.2, 1.4) and fills.
	entry, err := sim.SimulateEntry(testDate, testSpread, 900, 1.4, 1.2)
	require.NoError(t, err)
	assert.Equal(t, models.Trigger{State: models.TriggerFilled, Time: 1100, Price: 1.3}, entry)
}

func TestSimulateEntryNeverArmedNeverFills(t *testing.T) {
	// Positions pass through the limit band without ever exceeding the
	// stop: the order must stay unfilled regardless of band re-entry.
	near := models.PriceSeries{
		{Time: 900, Mid: 1.0},
		{Time: 1000, Mid: 1.3},
		{Time: 1100, Mid: 1.3},
		{Time: 1200, Mid: 1.35},
	}
	far := models.PriceSeries{
		{Time: 900, Mid: 0.0},
		{Time: 1000, Mid: 0.0},
		{Time: 1100, Mid: 0.0},
		{Time: 1200, Mid: 0.0},
	}
	sim := New(storeWith(near, far))

	entry, err := sim.SimulateEntry(testDate, testSpread, 800, 1.4, 1.2)
	require.NoError(t, err)
	assert.Equal(t, models.Trigger{State: models.TriggerNotTriggered}, entry)
}

func TestSimulateEntryStrictBoundaries(t *testing.T) {
	// Position exactly at the stop never arms; once armed, a position
	// exactly at the limit never fills.
	near := models.PriceSeries{
		{Time: 900, Mid: 0.0},
		{Time: 1000, Mid: 1.4}, // == stop: no arm
		{Time: 1100, Mid: 1.3}, // inside band but still seeking
		{Time: 1200, Mid: 1.41}, // arms
		{Time: 1300, Mid: 1.2}, // == limit: no fill
		{Time: 1400, Mid: 1.25}, // fills
	}
	far := models.PriceSeries{{Time: 900, Mid: 0.0}, {Time: 1400, Mid: 0.0}}
	sim := New(storeWith(near, far))

	entry, err := sim.SimulateEntry(testDate, testSpread, 800, 1.4, 1.2)
	require.NoError(t, err)
	require.True(t, entry.Filled())
	assert.Equal(t, int32(1400), entry.Time)
	assert.InDelta(t, 1.25, entry.Price, 1e-9)
}

func TestSimulateEntrySingleSampleLegs(t *testing.T) {
	// One sample per leg: the walk ends before any evaluation, so even a
	// position beyond the stop yields no entry.
	near := models.PriceSeries{{Time: 1000, Mid: 2.0}}
	far := models.PriceSeries{{Time: 1000, Mid: 0.5}}
	sim := New(storeWith(near, far))

	entry, err := sim.SimulateEntry(testDate, testSpread, 900, 1.0, 1.2)
	require.NoError(t, err)
	assert.Equal(t, models.Trigger{State: models.TriggerNotTriggered}, entry)
}

func TestSimulateEntryNoData(t *testing.T) {
	store := marketdata.NewMemory()
	store.Put(testDate, testSpread.ShortStrike, testSpread.Kind, models.PriceSeries{{Time: 1000, Mid: 2.0}})
	// Long leg never registered: empty series.
	sim := New(store)

	entry, err := sim.SimulateEntry(testDate, testSpread, 900, 1.4, 1.2)
	require.NoError(t, err)
	assert.Equal(t, models.Trigger{State: models.TriggerNoData}, entry)
}

func TestSimulateExitThreshold(t *testing.T) {
	// Entry credit 1.3 at multiplier 2.0 puts the threshold at 2.6; the
	// position of 2.7 at t=2000 must fire the stop-loss there.
	near := models.PriceSeries{
		{Time: 1000, Mid: 1.5},
		{Time: 2000, Mid: 3.0},
	}
	far := models.PriceSeries{
		{Time: 1000, Mid: 0.2},
		{Time: 2000, Mid: 0.3},
	}
	sim := New(storeWith(near, far))

	exit, err := sim.SimulateExit(testDate, testSpread, 1000, 1.3, 2.0)
	require.NoError(t, err)
	assert.Equal(t, models.Trigger{State: models.TriggerFilled, Time: 2000, Price: 2.7}, exit)
}

func TestSimulateExitHeldToExpiry(t *testing.T) {
	near := models.PriceSeries{
		{Time: 1000, Mid: 1.5},
		{Time: 2000, Mid: 1.6},
		{Time: 3000, Mid: 0.4},
	}
	far := models.PriceSeries{
		{Time: 1000, Mid: 0.2},
		{Time: 2000, Mid: 0.2},
		{Time: 3000, Mid: 0.1},
	}
	sim := New(storeWith(near, far))

	exit, err := sim.SimulateExit(testDate, testSpread, 1000, 1.3, 2.0)
	require.NoError(t, err)
	assert.Equal(t, models.Trigger{State: models.TriggerNotTriggered}, exit)
}

func TestRunStopLossLoss(t *testing.T) {
	near := models.PriceSeries{
		{Time: 900, Mid: 0.5},
		{Time: 1000, Mid: 1.6},
		{Time: 1100, Mid: 1.5},
		{Time: 1200, Mid: 2.9},
	}
	far := models.PriceSeries{
		{Time: 900, Mid: 0.1},
		{Time: 1000, Mid: 0.1},
		{Time: 1100, Mid: 0.2},
		{Time: 1200, Mid: 0.2},
	}
	sim := New(storeWith(near, far))

	p := models.Params{
		EntryTime:          900,
		SpreadWidth:        30,
		MinCredit:          1.0,
		SpreadsPerSide:     1,
		StopPrice:          1.4,
		LimitPrice:         1.2,
		StopLossMultiplier: 2.0,
	}
	outcome, err := sim.Run(testDate, testSpread, p)
	require.NoError(t, err)

	// Entry fills at 1.3 (t=1100); threshold 2.6 is breached by 2.7 at
	// t=1200; loss is (1.3 - 2.7) x 100.
	require.True(t, outcome.Entered())
	require.True(t, outcome.Stopped())
	assert.Equal(t, int32(1100), outcome.Entry.Time)
	assert.InDelta(t, 1.3, outcome.Entry.Price, 1e-9)
	assert.Equal(t, int32(1200), outcome.Exit.Time)
	assert.InDelta(t, 2.7, outcome.Exit.Price, 1e-9)
	assert.InDelta(t, -140.0, outcome.Profit, 1e-9)
}

func TestRunHeldToExpiryWin(t *testing.T) {
	near := models.PriceSeries{
		{Time: 900, Mid: 0.5},
		{Time: 1000, Mid: 1.6},
		{Time: 1100, Mid: 1.5},
		{Time: 1200, Mid: 0.2},
	}
	far := models.PriceSeries{
		{Time: 900, Mid: 0.1},
		{Time: 1000, Mid: 0.1},
		{Time: 1100, Mid: 0.2},
		{Time: 1200, Mid: 0.1},
	}
	sim := New(storeWith(near, far))

	p := models.Params{
		EntryTime:          900,
		StopPrice:          1.4,
		LimitPrice:         1.2,
		StopLossMultiplier: 2.0,
	}
	outcome, err := sim.Run(testDate, testSpread, p)
	require.NoError(t, err)

	require.True(t, outcome.Entered())
	assert.False(t, outcome.Stopped())
	assert.InDelta(t, 130.0, outcome.Profit, 1e-9)
}

func TestRunNoEntryNoProfit(t *testing.T) {
	near := models.PriceSeries{
		{Time: 900, Mid: 0.5},
		{Time: 1000, Mid: 0.6},
	}
	far := models.PriceSeries{
		{Time: 900, Mid: 0.1},
		{Time: 1000, Mid: 0.1},
	}
	sim := New(storeWith(near, far))

	p := models.Params{EntryTime: 900, StopPrice: 1.4, LimitPrice: 1.2, StopLossMultiplier: 2.0}
	outcome, err := sim.Run(testDate, testSpread, p)
	require.NoError(t, err)

	assert.False(t, outcome.Entered())
	assert.Zero(t, outcome.Profit)
}

func TestRunDeterministic(t *testing.T) {
	near := models.PriceSeries{
		{Time: 900, Mid: 0.5},
		{Time: 1000, Mid: 1.6},
		{Time: 1100, Mid: 1.5},
		{Time: 1200, Mid: 2.9},
	}
	far := models.PriceSeries{
		{Time: 900, Mid: 0.1},
		{Time: 1000, Mid: 0.1},
		{Time: 1100, Mid: 0.2},
		{Time: 1200, Mid: 0.2},
	}
	sim := New(storeWith(near, far))
	p := models.Params{EntryTime: 900, StopPrice: 1.4, LimitPrice: 1.2, StopLossMultiplier: 2.0}

	first, err := sim.Run(testDate, testSpread, p)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := sim.Run(testDate, testSpread, p)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
