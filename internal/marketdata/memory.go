package marketdata

import (
	"sort"
	"sync"

	"github.com/eddiefleurent/stamford_condor/internal/models"
)

// Memory is an in-memory Provider for tests and synthetic datasets.
type Memory struct {
	mu     sync.RWMutex
	series map[seriesKey]models.PriceSeries
	dates  map[string]struct{}
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		series: make(map[seriesKey]models.PriceSeries),
		dates:  make(map[string]struct{}),
	}
}

// Put registers a series for one contract. The date becomes visible in
// Dates even if the series is empty.
func (m *Memory) Put(date string, strike int, kind models.OptionKind, series models.PriceSeries) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.series[seriesKey{date: date, strike: strike, kind: kind}] = series
	m.dates[date] = struct{}{}
}

// AddDate registers a trading date with no contracts, mirroring an archive
// that exists but holds no in-range strikes.
func (m *Memory) AddDate(date string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dates[date] = struct{}{}
}

// Load returns the registered series, or an empty series when the contract
// was never registered.
func (m *Memory) Load(date string, strike int, kind models.OptionKind) (models.PriceSeries, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.series[seriesKey{date: date, strike: strike, kind: kind}], nil
}

// Dates lists the registered dates, sorted.
func (m *Memory) Dates() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dates := make([]string, 0, len(m.dates))
	for d := range m.dates {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates, nil
}
