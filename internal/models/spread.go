package models

import "fmt"

// Spread is a two-leg vertical credit spread discovered by the scanner.
// The short leg is always the one sold, nearer the money: for a call spread
// ShortStrike < LongStrike, for a put spread ShortStrike > LongStrike.
// Immutable once found.
type Spread struct {
	Kind        OptionKind `json:"kind"`
	ShortStrike int        `json:"short_strike"`
	LongStrike  int        `json:"long_strike"`
	// Credit is the opening credit (short mid - long mid) rounded to 3
	// decimals at discovery time.
	Credit float64 `json:"credit"`
}

func (s Spread) String() string {
	return fmt.Sprintf("%s spread %d/%d @ %.3f", s.Kind, s.ShortStrike, s.LongStrike, s.Credit)
}

// SearchBound is the per-date center-strike reference seeding the ladder
// scan. The call scan starts at Upper and walks up; the put scan starts at
// Lower and walks down. In the production dataset Lower == Upper.
type SearchBound struct {
	Lower int `yaml:"lower" json:"lower"`
	Upper int `yaml:"upper" json:"upper"`
}
