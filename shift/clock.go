package shift

import "time"

// =============================================================================
// CLOCK - Injected time source
// =============================================================================

// Clock supplies the current instant. The engine and aggregation layer
// never call time.Now directly; production wires SystemClock, tests wire
// FixedClock so verdicts and totals are reproducible.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in the local zone.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant. Advance it explicitly.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }

// Advance returns a clock moved forward by d.
func (c FixedClock) Advance(d time.Duration) FixedClock {
	return FixedClock{At: c.At.Add(d)}
}
