package simulator

import (
	"math"

	"github.com/eddiefleurent/stamford_condor/internal/models"
)

// mergeWalk drives a lazy, chronological merge of the two leg series and
// calls eval at each merged step. near is the short (sold) leg, far the long
// leg.
//
// Both cursors start on sample 0 and the walk advances before evaluating, so
// the initial pair itself is never evaluated: single-sample legs produce no
// evaluations at all. At each step the leg(s) with the smaller next
// timestamp advance (both on a tie). Evaluation is gated until BOTH current
// timestamps are strictly past gate; the evaluation timestamp is the smaller
// of the two current timestamps and the position is nearMid - farMid.
//
// eval returning true halts the walk.
func mergeWalk(near, far models.PriceSeries, gate int32, eval func(pos float64, ts int32) bool) {
	if near.Empty() || far.Empty() {
		return
	}

	curNear, curFar := near[0], far[0]
	i, j := 1, 1

	for i < len(near) || j < len(far) {
		nextNear := int64(math.MaxInt64)
		if i < len(near) {
			nextNear = int64(near[i].Time)
		}
		nextFar := int64(math.MaxInt64)
		if j < len(far) {
			nextFar = int64(far[j].Time)
		}

		// Compare before advancing so a tie moves both legs.
		if nextNear <= nextFar {
			curNear = near[i]
			i++
		}
		if nextFar <= nextNear {
			curFar = far[j]
			j++
		}

		if curNear.Time > gate && curFar.Time > gate {
			ts := curNear.Time
			if curFar.Time < ts {
				ts = curFar.Time
			}
			if eval(curNear.Mid-curFar.Mid, ts) {
				return
			}
		}
	}
}
