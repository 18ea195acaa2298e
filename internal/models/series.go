// Package models provides the data structures shared across the backtester:
// price series, spreads, simulated triggers, and trade outcomes.
package models

// OptionKind selects the call or put file namespace of the archive.
type OptionKind string

const (
	// Call denotes a call option leg (archive prefix "C").
	Call OptionKind = "call"
	// Put denotes a put option leg (archive prefix "P").
	Put OptionKind = "put"
)

// Valid returns true if the OptionKind is one of the defined constants.
func (k OptionKind) Valid() bool {
	switch k {
	case Call, Put:
		return true
	default:
		return false
	}
}

// Prefix returns the archive file-name prefix for the kind.
func (k OptionKind) Prefix() string {
	if k == Put {
		return "P"
	}
	return "C"
}

// PriceSample is a single (timestamp, mid-price) observation. Timestamps use
// the intraday HHMMSS-millisecond scale (09:30:00.000 == 93000000).
type PriceSample struct {
	Time int32   `json:"time"`
	Mid  float64 `json:"mid"`
}

// PriceSeries is the ordered mid-price series of one (date, strike, kind)
// contract. Timestamps are non-decreasing. An absent strike file yields an
// empty series rather than an error.
type PriceSeries []PriceSample

// Empty reports whether the series holds no samples.
func (s PriceSeries) Empty() bool { return len(s) == 0 }

// PriceAt returns the mid of the first sample whose timestamp is at or after
// ts. The lookup is forward-looking only: a sample just before ts is never
// returned, no matter how close. The second return is false when ts is past
// the end of the series or the series is empty.
func (s PriceSeries) PriceAt(ts int32) (float64, bool) {
	for _, sample := range s {
		if sample.Time >= ts {
			return sample.Mid, true
		}
	}
	return 0, false
}
