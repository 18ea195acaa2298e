package simulator

// triggerState tracks one order condition through the merged walk.
type triggerState int

const (
	// stateSeeking: waiting for the arming (or firing) level.
	stateSeeking triggerState = iota
	// stateArmed: stop level breached; waiting for the limit band.
	stateArmed
	// stateTriggered: the order filled.
	stateTriggered
)

// condition is one order trigger evaluated against the merged position.
// step returns true at the sample the order fills on.
type condition interface {
	step(pos float64) bool
}

// stopLimit models the entry order: arm the first time the position exceeds
// stop, then fill at the first later sample strictly inside (limit, stop).
// All comparisons are strict; a position exactly on either level neither
// arms nor fills.
type stopLimit struct {
	stop  float64
	limit float64
	state triggerState
}

func (c *stopLimit) step(pos float64) bool {
	if c.state == stateSeeking && pos > c.stop {
		c.state = stateArmed
	}
	if c.state == stateArmed && pos < c.stop && pos > c.limit {
		c.state = stateTriggered
		return true
	}
	return false
}

// stopLoss models the exit order: fire at the first position strictly above
// the threshold.
type stopLoss struct {
	threshold float64
	state     triggerState
}

func (c *stopLoss) step(pos float64) bool {
	if pos > c.threshold {
		c.state = stateTriggered
		return true
	}
	return false
}
