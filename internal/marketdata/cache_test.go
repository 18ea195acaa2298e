package marketdata

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddiefleurent/stamford_condor/internal/models"
)

// countingProvider wraps Memory and counts Load calls.
type countingProvider struct {
	*Memory
	mu    sync.Mutex
	loads int
}

func (p *countingProvider) Load(date string, strike int, kind models.OptionKind) (models.PriceSeries, error) {
	p.mu.Lock()
	p.loads++
	p.mu.Unlock()
	return p.Memory.Load(date, strike, kind)
}

func TestCacheMemoizesLoads(t *testing.T) {
	inner := &countingProvider{Memory: NewMemory()}
	inner.Put("20240201", 4860, models.Call, models.PriceSeries{{Time: 93000000, Mid: 2.5}})

	cache := NewCache(inner)

	for i := 0; i < 3; i++ {
		series, err := cache.Load("20240201", 4860, models.Call)
		require.NoError(t, err)
		require.Len(t, series, 1)
	}
	assert.Equal(t, 1, inner.loads)
	assert.Equal(t, 1, cache.Len())

	// Empty results are memoized too: absent strikes are re-asked for every
	// rung of the ladder scan.
	for i := 0; i < 3; i++ {
		series, err := cache.Load("20240201", 9999, models.Call)
		require.NoError(t, err)
		assert.True(t, series.Empty())
	}
	assert.Equal(t, 2, inner.loads)
}

func TestCacheConcurrentAccess(t *testing.T) {
	inner := NewMemory()
	inner.Put("20240201", 4860, models.Call, models.PriceSeries{{Time: 93000000, Mid: 2.5}})
	cache := NewCache(inner)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			series, err := cache.Load("20240201", 4860, models.Call)
			assert.NoError(t, err)
			assert.Len(t, series, 1)
		}()
	}
	wg.Wait()
}

func TestMemoryDates(t *testing.T) {
	m := NewMemory()
	m.Put("20240202", 4900, models.Put, nil)
	m.AddDate("20240201")

	dates, err := m.Dates()
	require.NoError(t, err)
	assert.Equal(t, []string{"20240201", "20240202"}, dates)
}
