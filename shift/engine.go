/*
engine.go - Handover transitions and the serialized write path

PURPOSE:
  Two layers:

  Transition - pure state transforms. Every operation takes a State value
  plus an explicit instant and returns a new State; validation happens
  fully before any part of the result is built, so a failed call leaves
  nothing half-applied.

  Engine - the single-writer wrapper. It serializes all mutations behind
  one mutex (read-modify-write against the store would otherwise lose
  updates), loads the current document, applies a Transition, saves, and
  returns the fresh snapshot.

TRANSITIONS:
  Takeover(op, kind, at)    unscored administrative override
  StampAndTakeover(at)      verdict-scored check-in of the scheduled next
  SetPlannedTime(hhmm, at)  re-plan the handover time of day

SEE ALSO:
  - rotation.go: Advance rule applied after every handover
  - verdict.go: Classify, called by StampAndTakeover
*/
package shift

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"sync"
	"time"
)

// =============================================================================
// PLANNED TIME
// =============================================================================

var hhmmPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// ParsePlanTime validates and splits an HH:MM string. Only the two-digit
// colon two-digit pattern is enforced; out-of-range values like "25:00"
// are accepted and normalize via date rollover in NextOccurrence, which
// is the behavior operators relied on in the original dashboard.
func ParsePlanTime(hhmm string) (hour, minute int, err error) {
	if !hhmmPattern.MatchString(hhmm) {
		return 0, 0, ErrBadTimeFormat
	}
	hour, _ = strconv.Atoi(hhmm[:2])
	minute, _ = strconv.Atoi(hhmm[3:])
	return hour, minute, nil
}

// NextOccurrence resolves hhmm to its next future occurrence after `at`
// in at's location: today's occurrence if strictly later than at,
// otherwise tomorrow's.
func NextOccurrence(hhmm string, at time.Time) (time.Time, error) {
	hour, minute, err := ParsePlanTime(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	plan := time.Date(at.Year(), at.Month(), at.Day(), hour, minute, 0, 0, at.Location())
	if !plan.After(at) {
		plan = plan.AddDate(0, 0, 1)
	}
	return plan, nil
}

// =============================================================================
// TRANSITION - Pure state transforms
// =============================================================================

// Transition bundles the rotation policy with the pure operations. It
// holds no mutable state and is safe to share.
type Transition struct {
	Rotation Rotation
}

// Takeover unconditionally hands the event to operator/kind at `at`:
// the open interval closes, a new one opens, and the rotation pointer is
// recomputed with the uniform Advance rule. No verdict is produced.
func (t Transition) Takeover(s State, operator OperatorID, kind ShiftKind, at time.Time) (State, error) {
	if !t.Rotation.Roster.Contains(operator) {
		return State{}, &TakeoverError{Operator: operator, Kind: kind, cause: ErrUnknownOperator}
	}
	if !ValidKind(kind) {
		return State{}, &TakeoverError{Operator: operator, Kind: kind, cause: ErrBadShiftKind}
	}

	out := s.Clone()
	out.ShiftLog, _ = out.ShiftLog.RecordHandover(operator, kind, at)
	out.ActiveOperator = operator
	out.ActiveKind = kind
	out.NextOperator, out.NextKind = t.Rotation.Advance(operator, kind)
	return out, nil
}

// StampAndTakeover checks in the scheduled next operator at `at`. The
// stamp is scored against the planned handover instant, the handover is
// recorded, and the plan is rebased to the next occurrence of the
// configured time of day.
func (t Transition) StampAndTakeover(s State, at time.Time) (State, StampEvent, error) {
	verdict, delta := Classify(at, s.PlannedHandoverAt)

	stamp := StampEvent{
		ID:              newID("stamp", at),
		Operator:        s.NextOperator,
		StampedAt:       at,
		PlannedAt:       s.PlannedHandoverAt,
		PlannedOperator: s.NextOperator,
		PlannedKind:     s.NextKind,
		Verdict:         verdict,
		DeltaMinutes:    delta,
	}

	out, err := t.Takeover(s, s.NextOperator, s.NextKind, at)
	if err != nil {
		// Next pointer can only be invalid if the stored document was
		// corrupted; surface it instead of stamping a broken rotation.
		return State{}, StampEvent{}, err
	}

	out.Stamps = append([]StampEvent{stamp}, out.Stamps...)
	if len(out.Stamps) > StampLogCap {
		out.Stamps = out.Stamps[:StampLogCap]
	}

	if planned, perr := NextOccurrence(out.PlannedTimeOfDay, at); perr == nil {
		out.PlannedHandoverAt = planned
	}
	return out, stamp, nil
}

// SetPlannedTime validates hhmm and rebases the planned handover instant
// to its next occurrence after `at`. Active/next pointers are untouched.
func (t Transition) SetPlannedTime(s State, hhmm string, at time.Time) (State, error) {
	planned, err := NextOccurrence(hhmm, at)
	if err != nil {
		return State{}, err
	}
	out := s.Clone()
	out.PlannedTimeOfDay = hhmm
	out.PlannedHandoverAt = planned
	return out, nil
}

// =============================================================================
// ENGINE - Serialized writes over the external store
// =============================================================================

// Engine funnels every mutation through one mutex and the Store. Reads
// return whole-document snapshots and take no lock beyond the store's own.
type Engine struct {
	mu         sync.Mutex
	store      Store
	transition Transition
}

func NewEngine(store Store, roster Roster) *Engine {
	return &Engine{
		store:      store,
		transition: Transition{Rotation: Rotation{Roster: roster}},
	}
}

// Roster exposes the configured pairing for display layers.
func (e *Engine) Roster() Roster { return e.transition.Rotation.Roster }

// Read returns the current snapshot, seeding the cold-start state on
// first contact so callers always see a well-formed document.
func (e *Engine) Read(ctx context.Context, now time.Time) (State, error) {
	s, err := e.store.Load(ctx)
	if errors.Is(err, ErrStateNotFound) {
		return e.seed(ctx, now)
	}
	if err != nil {
		return State{}, err
	}
	return s, nil
}

func (e *Engine) seed(ctx context.Context, now time.Time) (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Another writer may have seeded while we waited for the lock.
	if s, err := e.store.Load(ctx); err == nil {
		return s, nil
	} else if !errors.Is(err, ErrStateNotFound) {
		return State{}, err
	}

	s := e.transition.Rotation.Seed(now)
	if err := e.store.Save(ctx, s); err != nil {
		return State{}, err
	}
	return s, nil
}

// Takeover applies the administrative override transition.
func (e *Engine) Takeover(ctx context.Context, operator OperatorID, kind ShiftKind, at time.Time) (State, error) {
	return e.apply(ctx, at, func(s State) (State, error) {
		return e.transition.Takeover(s, operator, kind, at)
	})
}

// StampAndTakeover applies the scored check-in transition and returns
// the produced stamp for caller feedback.
func (e *Engine) StampAndTakeover(ctx context.Context, at time.Time) (State, StampEvent, error) {
	var stamp StampEvent
	s, err := e.apply(ctx, at, func(s State) (State, error) {
		out, st, err := e.transition.StampAndTakeover(s, at)
		if err != nil {
			return State{}, err
		}
		stamp = st
		return out, nil
	})
	return s, stamp, err
}

// SetPlannedTime applies the plan-edit transition.
func (e *Engine) SetPlannedTime(ctx context.Context, hhmm string, at time.Time) (State, error) {
	return e.apply(ctx, at, func(s State) (State, error) {
		return e.transition.SetPlannedTime(s, hhmm, at)
	})
}

// Reset overwrites the stored document, used by demo seeding.
func (e *Engine) Reset(ctx context.Context, s State) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Save(ctx, s)
}

func (e *Engine) apply(ctx context.Context, at time.Time, fn func(State) (State, error)) (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, err := e.store.Load(ctx)
	if errors.Is(err, ErrStateNotFound) {
		s = e.transition.Rotation.Seed(at)
	} else if err != nil {
		return State{}, err
	}

	out, err := fn(s)
	if err != nil {
		return State{}, err
	}
	if err := e.store.Save(ctx, out); err != nil {
		return State{}, err
	}
	return out, nil
}
