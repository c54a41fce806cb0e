package pipeline

import (
	"math"
	"time"
)

// maxEstimatedPercent is the ceiling for estimated progress. 100 is reserved
// for the Done transition, which the reconciler assigns directly.
const maxEstimatedPercent = 95.0

// DefaultExpected holds the expected wall-clock duration per stage, in
// pipeline order. These are UX heuristics for the progress animation, not
// measurements; config may override them.
var DefaultExpected = [NumStages]time.Duration{
	5 * time.Second,
	75 * time.Second,
	4 * time.Minute,
	45 * time.Second,
}

// Percent estimates completion of an active stage from elapsed wall-clock
// time against its expected duration. The result is in (0, 95], rounded to
// one decimal place, and non-decreasing in now for a fixed startedAt.
//
// A symmetric ease-in/ease-out curve keeps the bar moving steadily and
// decelerating near the unknown true completion time instead of sticking
// at 99% or finishing before the backend does.
func Percent(now, startedAt time.Time, expected time.Duration) float64 {
	if expected <= 0 {
		return 0
	}
	elapsed := now.Sub(startedAt)
	if elapsed < 0 {
		elapsed = 0
	}

	linear := elapsed.Seconds() / expected.Seconds()
	if linear > 0.95 {
		linear = 0.95
	}

	var eased float64
	if linear < 0.5 {
		eased = 2 * linear * linear
	} else {
		v := -2*linear + 2
		eased = 1 - v*v/2
	}

	pct := eased * 100
	if pct > maxEstimatedPercent {
		pct = maxEstimatedPercent
	}
	return math.Round(pct*10) / 10
}
