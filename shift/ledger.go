/*
ledger.go - Capped, newest-first shift interval log

PURPOSE:
  The Ledger records every handover as an interval. It is the source of
  truth for on-duty durations; totals are always computed by replaying
  intervals, never kept as counters that could drift.

CRITICAL INVARIANTS:
  1. At most ONE open interval at any time (zero only before the very
     first handover is recorded).
  2. Closed intervals never reopen and never change.
  3. Newest first: History(0) is the current or latest interval.
  4. Bounded: entries beyond ShiftLogCap are dropped oldest-first.

WHY RECORD-AND-CLOSE?
  A handover is one atomic fact: the previous interval ends exactly when
  the new one starts. RecordHandover does both in one step so no reader
  can observe zero or two open intervals.

SEE ALSO:
  - engine.go: The only caller of RecordHandover
  - stats: Pure aggregation over History
*/
package shift

import "time"

// Ledger is the newest-first interval log. It has value semantics:
// RecordHandover returns a new Ledger, leaving the receiver intact.
type Ledger []ShiftInterval

// RecordHandover closes the open interval (if any) at `at`, prepends a
// new open interval for operator/kind, and truncates to the retention
// cap. Inputs are pre-validated by the caller; this never fails.
func (l Ledger) RecordHandover(operator OperatorID, kind ShiftKind, at time.Time) (Ledger, ShiftInterval) {
	next := append(Ledger(nil), l...)

	for i := range next {
		if next[i].Open() {
			end := at
			next[i].EndedAt = &end
			break
		}
	}

	opened := ShiftInterval{
		ID:        newID("shift", at),
		Operator:  operator,
		Kind:      kind,
		StartedAt: at,
	}
	next = append(Ledger{opened}, next...)

	if len(next) > ShiftLogCap {
		next = next[:ShiftLogCap]
	}
	return next, opened
}

// OpenInterval returns the currently open interval, or nil before the
// first handover.
func (l Ledger) OpenInterval() *ShiftInterval {
	for i := range l {
		if l[i].Open() {
			iv := l[i]
			return &iv
		}
	}
	return nil
}

// History returns up to limit intervals, newest first. limit <= 0 means
// the whole (already capped) log.
func (l Ledger) History(limit int) []ShiftInterval {
	out := append([]ShiftInterval(nil), l...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
