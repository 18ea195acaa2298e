package marketdata

import (
	"sync"

	"github.com/eddiefleurent/stamford_condor/internal/models"
)

// Cache memoizes Load results per (date, strike, kind). One backtest reads
// the same series several times - once for discovery, once for entry, once
// for exit - so the wrapper pays for itself on the first spread.
type Cache struct {
	inner  Provider
	mu     sync.RWMutex
	series map[seriesKey]models.PriceSeries
}

// NewCache wraps a provider with an unbounded per-run memo.
func NewCache(inner Provider) *Cache {
	return &Cache{
		inner:  inner,
		series: make(map[seriesKey]models.PriceSeries),
	}
}

// Load returns the cached series, loading and memoizing on first use.
// Errors are not cached; a failed load is retried on the next call.
func (c *Cache) Load(date string, strike int, kind models.OptionKind) (models.PriceSeries, error) {
	key := seriesKey{date: date, strike: strike, kind: kind}

	c.mu.RLock()
	series, ok := c.series[key]
	c.mu.RUnlock()
	if ok {
		return series, nil
	}

	series, err := c.inner.Load(date, strike, kind)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.series[key] = series
	c.mu.Unlock()
	return series, nil
}

// Dates delegates to the wrapped provider.
func (c *Cache) Dates() ([]string, error) {
	return c.inner.Dates()
}

// Len returns the number of memoized series.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.series)
}
