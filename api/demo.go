/*
demo.go - Demo history seeding

PURPOSE:
  Populates the state store with a realistic shift history for demos and
  frontend development: alternating 12h shifts from the event start, with
  a few seeded late handovers so the punctuality KPIs have something to
  show.

HOW THE GENERATOR WORKS:
 1. Start at the event start, 11:00, operator A on DAY
 2. Each shift runs 12h; the following handover lands at 23:30 (after a
    DAY shift) or 11:00 next morning (after NIGHT), plus any seeded delay
 3. Alternate operator and kind each handover until `now`
 4. The last interval stays open

NOTE:
  Seeding resets the whole state. Only use in development/demo
  environments.

SEE ALSO:
  - handlers.go: SeedDemo handler registration
  - shift/rotation.go: Seed state the generated history is grafted onto
*/
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/grindhub/shift-engine/shift"
	"github.com/grindhub/shift-engine/stats"
)

// lateOffsets seeds delays (minutes) for specific handover days so the
// demo KPIs are non-trivial. Keys are local day keys relative to the
// event start: day index -> minutes late.
var lateOffsets = map[int]int{
	5:  80,
	10: 35,
	13: 55,
}

// SeedDemo resets the state to a generated history.
// POST /api/admin/seed-demo
func (h *Handler) SeedDemo(w http.ResponseWriter, r *http.Request) {
	now := h.Clock.Now()
	s := h.buildDemoState(now)

	if err := h.Engine.Reset(r.Context(), s); err != nil {
		writeError(w, http.StatusInternalServerError, "STATE_WRITE_FAILED", err)
		return
	}

	dto := h.stateDTO(s, now)
	h.broadcast(dto)
	writeJSON(w, http.StatusOK, dto)
}

func (h *Handler) buildDemoState(now time.Time) shift.State {
	roster := h.Engine.Roster()
	rotation := shift.Rotation{Roster: roster}
	s := rotation.Seed(now)

	start := h.Config.EventStart
	cursor := time.Date(start.Year(), start.Month(), start.Day(), 11, 0, 0, 0, start.Location())
	eventMidnight := stats.LocalMidnight(start)

	current := roster.A.ID
	kind := shift.KindDay

	var ledger shift.Ledger
	var stamps []shift.StampEvent
	var plannedAt time.Time

	for cursor.Before(now) {
		ledger, _ = ledger.RecordHandover(current, kind, cursor)

		// Every handover after the opening one was planned, so it gets a
		// scored stamp just like a live check-in would.
		if !plannedAt.IsZero() {
			verdict, delta := shift.Classify(cursor, plannedAt)
			stamps = append([]shift.StampEvent{{
				ID:              fmt.Sprintf("stamp_demo_%03d", len(stamps)+1),
				Operator:        current,
				StampedAt:       cursor,
				PlannedAt:       plannedAt,
				PlannedOperator: current,
				PlannedKind:     kind,
				Verdict:         verdict,
				DeltaMinutes:    delta,
			}}, stamps...)
		}

		end := cursor.Add(12 * time.Hour)
		next := nextHandoverAfter(end, kind)
		plannedAt = next
		if dayIdx := int(next.Sub(eventMidnight) / (24 * time.Hour)); lateOffsets[dayIdx] > 0 {
			next = next.Add(time.Duration(lateOffsets[dayIdx]) * time.Minute)
		}

		current = rotation.Other(current)
		kind = shift.Flip(kind)
		cursor = next
	}

	if len(stamps) > shift.StampLogCap {
		stamps = stamps[:shift.StampLogCap]
	}

	// The last recorded shift keeps running; the pending handover becomes
	// the plan the dashboard counts down to.
	if open := ledger.OpenInterval(); open != nil {
		s.ActiveOperator = open.Operator
		s.ActiveKind = open.Kind
		s.NextOperator, s.NextKind = rotation.Advance(open.Operator, open.Kind)
	}
	if !plannedAt.IsZero() {
		s.PlannedHandoverAt = plannedAt
		s.PlannedTimeOfDay = plannedAt.Format("15:04")
	}
	s.ShiftLog = ledger
	s.Stamps = stamps
	return s
}

// nextHandoverAfter picks the nominal next handover instant: 23:30 the
// same evening after a day shift, 11:00 the following morning after a
// night shift, never before the shift actually ended.
func nextHandoverAfter(end time.Time, kind shift.ShiftKind) time.Time {
	var next time.Time
	if kind == shift.KindDay {
		next = time.Date(end.Year(), end.Month(), end.Day(), 23, 30, 0, 0, end.Location())
	} else {
		next = time.Date(end.Year(), end.Month(), end.Day(), 11, 0, 0, 0, end.Location())
	}
	if end.After(next) {
		next = end
	}
	return next
}
