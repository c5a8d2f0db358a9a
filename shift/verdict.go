/*
verdict.go - Minute-quantized punctuality classification

PURPOSE:
  Compares a check-in instant against the planned handover instant and
  classifies it as EARLY, ON_TIME or LATE with a signed delta in minutes.

QUANTIZATION:
  Both instants are truncated to the minute before differencing. A stamp
  a few seconds after the planned minute still lands in that minute and
  is ON_TIME; sub-minute jitter never flips a verdict.

SEE ALSO:
  - engine.go: StampAndTakeover calls Classify
*/
package shift

import "time"

// Classify compares actual against planned with minute precision.
// Total and side-effect free: it never fails.
//
// The delta is the whole-minute difference after truncation, negative
// for EARLY, exactly 0 for ON_TIME, positive for LATE.
func Classify(actual, planned time.Time) (Verdict, int) {
	a := actual.Truncate(time.Minute)
	p := planned.Truncate(time.Minute)

	delta := int(a.Sub(p) / time.Minute)

	switch {
	case a.Before(p):
		return VerdictEarly, delta
	case a.Equal(p):
		// Forced 0 so the equal case can never carry a rounding artifact.
		return VerdictOnTime, 0
	default:
		return VerdictLate, delta
	}
}
