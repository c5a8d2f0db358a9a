/*
Package shift provides the core handover state engine.

PURPOSE:
  This package contains the domain types and algorithms for tracking
  handovers between two alternating on-duty operators: the shift ledger,
  the check-in ("stamp") log, the punctuality verdict, the rotation
  policy, and the state transitions that tie them together.

KEY CONCEPTS IN THIS FILE (types.go):
  - Operator/Roster: The two fixed on-duty identities
  - ShiftKind: DAY/NIGHT, toggled on every handover
  - ShiftInterval: One ledger entry; open until the next handover
  - StampEvent: An immutable, verdict-scored check-in
  - State: The single persisted unit (ledger + stamps + rotation)

DESIGN PRINCIPLES:
  1. Immutability: Intervals close exactly once, stamps never change
  2. Value semantics: State is copied in, transformed, returned out
  3. Bounded logs: Both logs are capped, oldest entries dropped first
  4. Type Safety: Strong typing for operator IDs and enumerations

SEE ALSO:
  - ledger.go: Ledger invariants and handover recording
  - verdict.go: Minute-quantized punctuality classification
  - engine.go: Takeover / stamp-and-takeover / plan transitions
*/
package shift

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// =============================================================================
// OPERATORS - The two fixed on-duty identities
// =============================================================================

type OperatorID string

// Operator is immutable reference data for one on-duty identity.
type Operator struct {
	ID   OperatorID `json:"id"`
	Name string     `json:"name"`
}

// Roster is the fixed two-operator pairing. The rotation policy assumes
// exactly two operators; the aggregation layer does not.
type Roster struct {
	A Operator
	B Operator
}

// DefaultRoster matches the event this system was built for.
func DefaultRoster() Roster {
	return Roster{
		A: Operator{ID: "NOOREAX", Name: "nooreax"},
		B: Operator{ID: "VETQ", Name: "Veto"},
	}
}

// Contains reports whether id is one of the roster's two operators.
func (r Roster) Contains(id OperatorID) bool {
	return id == r.A.ID || id == r.B.ID
}

// Name resolves an operator ID to its display name, falling back to the
// raw ID for unknown values (display must never fail).
func (r Roster) Name(id OperatorID) string {
	switch id {
	case r.A.ID:
		return r.A.Name
	case r.B.ID:
		return r.B.Name
	default:
		return string(id)
	}
}

// Operators returns both roster entries, A first.
func (r Roster) Operators() []Operator {
	return []Operator{r.A, r.B}
}

// =============================================================================
// SHIFT KIND - DAY/NIGHT enumeration
// =============================================================================

type ShiftKind string

const (
	KindDay   ShiftKind = "DAY"
	KindNight ShiftKind = "NIGHT"
)

// ValidKind reports whether k is one of the two defined kinds.
func ValidKind(k ShiftKind) bool {
	return k == KindDay || k == KindNight
}

// =============================================================================
// VERDICT - Punctuality classification of a stamp
// =============================================================================

type Verdict string

const (
	VerdictEarly  Verdict = "EARLY"
	VerdictOnTime Verdict = "ON_TIME"
	VerdictLate   Verdict = "LATE"
)

// =============================================================================
// LEDGER / STAMP ENTRIES
// =============================================================================

// ShiftInterval is one ledger entry. EndedAt == nil means the interval is
// open; it is closed exactly once, by the next handover.
type ShiftInterval struct {
	ID        string     `json:"id"`
	Operator  OperatorID `json:"operator"`
	Kind      ShiftKind  `json:"kind"`
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt"`
}

// Open reports whether the interval has no end yet.
func (iv ShiftInterval) Open() bool { return iv.EndedAt == nil }

// StampEvent is an immutable check-in record carrying its own verdict.
type StampEvent struct {
	ID              string     `json:"id"`
	Operator        OperatorID `json:"operator"`
	StampedAt       time.Time  `json:"stampedAt"`
	PlannedAt       time.Time  `json:"plannedAt"`
	PlannedOperator OperatorID `json:"plannedOperator"`
	PlannedKind     ShiftKind  `json:"plannedKind"`
	Verdict         Verdict    `json:"verdict"`
	DeltaMinutes    int        `json:"deltaMinutes"` // + = late, - = early
}

// =============================================================================
// STATE - The persisted unit (ledger + stamps + rotation pointers + plan)
// =============================================================================

// Retention caps. Oldest entries beyond the cap are silently dropped;
// this bounds memory, not correctness.
const (
	ShiftLogCap = 200
	StampLogCap = 240
)

// State is the whole document exchanged with the store and the read
// boundary. It is treated as a value: transitions take a State and return
// a new one, they never mutate shared memory.
type State struct {
	ShiftLog Ledger       `json:"shiftLog"` // newest first
	Stamps   []StampEvent `json:"stamps"`   // newest first

	ActiveOperator OperatorID `json:"activeOperator"`
	ActiveKind     ShiftKind  `json:"activeKind"`

	NextOperator OperatorID `json:"nextOperator"`
	NextKind     ShiftKind  `json:"nextKind"`

	// PlannedTimeOfDay is the raw HH:MM string, kept for display.
	// PlannedHandoverAt is the authoritative instant for verdicts.
	PlannedTimeOfDay  string    `json:"plannedTimeOfDay"`
	PlannedHandoverAt time.Time `json:"plannedHandoverAt"`
}

// Clone returns a deep copy so callers can hand out snapshots without
// aliasing the logs.
func (s State) Clone() State {
	out := s
	out.ShiftLog = append(Ledger(nil), s.ShiftLog...)
	out.Stamps = append([]StampEvent(nil), s.Stamps...)
	return out
}

// =============================================================================
// ID GENERATION
// =============================================================================

// newID builds ids like "shift_9f2c41d8_1763384700000": random hex plus
// the event's epoch milliseconds.
func newID(prefix string, at time.Time) string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		// rand failure is effectively impossible; fall back to the instant
		return fmt.Sprintf("%s_%d", prefix, at.UnixNano())
	}
	return fmt.Sprintf("%s_%s_%d", prefix, hex.EncodeToString(b[:]), at.UnixMilli())
}
