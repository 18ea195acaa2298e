// Package scanner discovers candidate vertical credit spreads by walking a
// strike ladder outward from a per-date center strike.
package scanner

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/eddiefleurent/stamford_condor/internal/marketdata"
	"github.com/eddiefleurent/stamford_condor/internal/models"
	"github.com/eddiefleurent/stamford_condor/internal/util"
)

const (
	// StrikeStep is the ladder increment between adjacent short strikes.
	StrikeStep = 5
	// ScanRange caps how far from the center strike the ladder walks.
	ScanRange = 50
)

// Scanner finds qualifying spreads at a given entry timestamp. Both scans
// are greedy and nearest-to-center first: they stop at the first maxCount
// matches rather than searching for the globally best credit.
type Scanner struct {
	store  marketdata.Provider
	logger *logrus.Logger
}

// New creates a scanner over the given price-series store.
func New(store marketdata.Provider, logger *logrus.Logger) *Scanner {
	return &Scanner{store: store, logger: logger}
}

// FindBearishCallSpreads scans short strikes upward from center. Each rung
// sells the short strike and buys short+width; the pair qualifies when its
// opening credit (short mid - long mid, rounded to 3 decimals) is at least
// minCredit. Rungs with a missing leg price are skipped.
func (s *Scanner) FindBearishCallSpreads(date string, entryTS int32, minCredit float64, width, maxCount, center int) ([]models.Spread, error) {
	var spreads []models.Spread
	for short := center; short < center+ScanRange; short += StrikeStep {
		long := short + width

		credit, ok, err := s.openingCredit(date, entryTS, short, long, models.Call)
		if err != nil {
			return nil, err
		}
		if !ok || credit < minCredit {
			continue
		}

		spreads = append(spreads, models.Spread{
			Kind:        models.Call,
			ShortStrike: short,
			LongStrike:  long,
			Credit:      credit,
		})
		if len(spreads) == maxCount {
			break
		}
	}

	s.logger.WithFields(logrus.Fields{
		"date":  date,
		"kind":  models.Call,
		"found": len(spreads),
	}).Debug("spread scan complete")
	return spreads, nil
}

// FindBullishPutSpreads is the mirror image: short strikes walk downward
// from center and each rung buys short-width as the long leg.
func (s *Scanner) FindBullishPutSpreads(date string, entryTS int32, minCredit float64, width, maxCount, center int) ([]models.Spread, error) {
	var spreads []models.Spread
	for short := center; short > center-ScanRange; short -= StrikeStep {
		long := short - width

		credit, ok, err := s.openingCredit(date, entryTS, short, long, models.Put)
		if err != nil {
			return nil, err
		}
		if !ok || credit < minCredit {
			continue
		}

		spreads = append(spreads, models.Spread{
			Kind:        models.Put,
			ShortStrike: short,
			LongStrike:  long,
			Credit:      credit,
		})
		if len(spreads) == maxCount {
			break
		}
	}

	s.logger.WithFields(logrus.Fields{
		"date":  date,
		"kind":  models.Put,
		"found": len(spreads),
	}).Debug("spread scan complete")
	return spreads, nil
}

// openingCredit prices both legs at the entry timestamp. ok is false when
// either leg has no sample at or after entryTS.
func (s *Scanner) openingCredit(date string, entryTS int32, short, long int, kind models.OptionKind) (float64, bool, error) {
	shortSeries, err := s.store.Load(date, short, kind)
	if err != nil {
		return 0, false, fmt.Errorf("loading short leg %s%d: %w", kind.Prefix(), short, err)
	}
	longSeries, err := s.store.Load(date, long, kind)
	if err != nil {
		return 0, false, fmt.Errorf("loading long leg %s%d: %w", kind.Prefix(), long, err)
	}

	shortMid, ok := shortSeries.PriceAt(entryTS)
	if !ok {
		return 0, false, nil
	}
	longMid, ok := longSeries.PriceAt(entryTS)
	if !ok {
		return 0, false, nil
	}
	return util.Round3(shortMid - longMid), true, nil
}
