/*
rotation.go - Two-operator rotation policy

PURPOSE:
  Decides who is "next" after a handover. With exactly two operators the
  policy is a pairing swap plus a DAY/NIGHT flip. Both the scored
  stamp-and-takeover path and the administrative override use this same
  rule, so the (active, next) pair always names the two distinct
  operators and kinds alternate.

SEE ALSO:
  - engine.go: Applies Advance after every handover
*/
package shift

import "time"

// Rotation is the fixed two-operator rotation policy.
type Rotation struct {
	Roster Roster
}

// Other returns the counterpart of op in the pairing. Unknown IDs map to
// operator A so the rotation can recover from a hand-edited state.
func (r Rotation) Other(op OperatorID) OperatorID {
	if op == r.Roster.A.ID {
		return r.Roster.B.ID
	}
	return r.Roster.A.ID
}

// Flip toggles DAY and NIGHT.
func Flip(k ShiftKind) ShiftKind {
	if k == KindDay {
		return KindNight
	}
	return KindDay
}

// Advance computes the new (next, nextKind) after justActivated took over:
// the counterpart operator on the flipped kind.
func (r Rotation) Advance(justActivated OperatorID, justActivatedKind ShiftKind) (OperatorID, ShiftKind) {
	return r.Other(justActivated), Flip(justActivatedKind)
}

// DefaultPlannedTime is the bootstrap planned handover time of day.
const DefaultPlannedTime = "14:00"

// Seed returns the cold-start state: operator A is seeded active on DAY,
// operator B is scheduled next on NIGHT, and the plan points at the next
// occurrence of the default time. The ledger stays empty until the first
// real handover.
func (r Rotation) Seed(now time.Time) State {
	planned, _ := NextOccurrence(DefaultPlannedTime, now)
	return State{
		ShiftLog:          Ledger{},
		Stamps:            []StampEvent{},
		ActiveOperator:    r.Roster.A.ID,
		ActiveKind:        KindDay,
		NextOperator:      r.Roster.B.ID,
		NextKind:          KindNight,
		PlannedTimeOfDay:  DefaultPlannedTime,
		PlannedHandoverAt: planned,
	}
}
