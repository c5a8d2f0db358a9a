/*
Package stats derives read-side views from the shift ledger and stamp log.

PURPOSE:
  Pure aggregation: every function takes its inputs and an explicit `now`
  and touches no clock or store. The single Overlap primitive backs all
  three duration views (today, all time, selected day); the KPI layer
  (kpi.go) scores the stamp log.

KEY CONCEPTS IN THIS FILE (overlap.go):
  - Window: a [From, To) time range; open intervals extend to `now`
  - Overlap: clamped, non-negative intersection length
  - Totals: per-operator duration sums, sorted descending

SEE ALSO:
  - days.go: Local-midnight windows and day keys
  - kpi.go: Punctuality KPIs
*/
package stats

import (
	"sort"
	"time"

	"github.com/grindhub/shift-engine/shift"
)

// =============================================================================
// WINDOWS
// =============================================================================

// Window is a half-open [From, To) range. A zero From means unbounded on
// the left.
type Window struct {
	From time.Time
	To   time.Time
}

// AllTime covers everything recorded up to now.
func AllTime(now time.Time) Window {
	return Window{To: now}
}

// Today covers [local midnight of now, now].
func Today(now time.Time) Window {
	return Window{From: LocalMidnight(now), To: now}
}

// =============================================================================
// OVERLAP - The one clamped-duration primitive
// =============================================================================

// Overlap returns the length of the intersection between the interval's
// lifetime and the window. Open intervals are treated as running until
// `now`. Never negative; disjoint ranges yield 0.
func Overlap(iv shift.ShiftInterval, w Window, now time.Time) time.Duration {
	start := iv.StartedAt
	end := now
	if iv.EndedAt != nil {
		end = *iv.EndedAt
	}

	if !w.From.IsZero() && start.Before(w.From) {
		start = w.From
	}
	if end.After(w.To) {
		end = w.To
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start)
}

// =============================================================================
// TOTALS
// =============================================================================

// OperatorTotal is one row of a duration leaderboard.
type OperatorTotal struct {
	Operator shift.OperatorID `json:"operator"`
	Duration time.Duration    `json:"-"`
	Millis   int64            `json:"millis"`
}

// TotalsByOperator sums window-clamped durations per operator and sorts
// descending (ties broken by operator ID for determinism). Operators
// with zero overlap are omitted, matching the dashboard's display rule.
func TotalsByOperator(intervals []shift.ShiftInterval, w Window, now time.Time) []OperatorTotal {
	byOp := make(map[shift.OperatorID]time.Duration)
	for _, iv := range intervals {
		if d := Overlap(iv, w, now); d > 0 {
			byOp[iv.Operator] += d
		}
	}

	out := make([]OperatorTotal, 0, len(byOp))
	for op, d := range byOp {
		out = append(out, OperatorTotal{Operator: op, Duration: d, Millis: d.Milliseconds()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Duration != out[j].Duration {
			return out[i].Duration > out[j].Duration
		}
		return out[i].Operator < out[j].Operator
	})
	return out
}
