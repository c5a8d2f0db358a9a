package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grindhub/shift-engine/shift"
)

// =============================================================================
// SQLITE STORE
// =============================================================================

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// sampleState builds a populated document with UTC instants so the JSON
// round trip preserves time.Time equality.
func sampleState() shift.State {
	start := time.Date(2025, time.November, 17, 11, 0, 0, 0, time.UTC)
	handover := start.Add(12*time.Hour + 30*time.Minute)

	var ledger shift.Ledger
	ledger, _ = ledger.RecordHandover("NOOREAX", shift.KindDay, start)
	ledger, _ = ledger.RecordHandover("VETQ", shift.KindNight, handover)

	return shift.State{
		ShiftLog: ledger,
		Stamps: []shift.StampEvent{{
			ID:              "stamp_test_1",
			Operator:        "VETQ",
			StampedAt:       handover,
			PlannedAt:       start.Add(12 * time.Hour),
			PlannedOperator: "VETQ",
			PlannedKind:     shift.KindNight,
			Verdict:         shift.VerdictLate,
			DeltaMinutes:    30,
		}},
		ActiveOperator:    "VETQ",
		ActiveKind:        shift.KindNight,
		NextOperator:      "NOOREAX",
		NextKind:          shift.KindDay,
		PlannedTimeOfDay:  "23:30",
		PlannedHandoverAt: handover.Add(24 * time.Hour),
	}
}

func TestStore_LoadBeforeFirstSaveReportsNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, shift.ErrStateNotFound)
}

func TestStore_SaveLoadRoundTripPreservesDocument(t *testing.T) {
	// GIVEN: A populated state document
	// WHEN: Saved and loaded back
	// THEN: Every field survives byte-for-byte

	store := newTestStore(t)
	ctx := context.Background()
	in := sampleState()

	require.NoError(t, store.Save(ctx, in))

	out, err := store.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, in.ActiveOperator, out.ActiveOperator)
	assert.Equal(t, in.ActiveKind, out.ActiveKind)
	assert.Equal(t, in.NextOperator, out.NextOperator)
	assert.Equal(t, in.NextKind, out.NextKind)
	assert.Equal(t, in.PlannedTimeOfDay, out.PlannedTimeOfDay)
	assert.True(t, in.PlannedHandoverAt.Equal(out.PlannedHandoverAt))

	require.Len(t, out.ShiftLog, 2)
	assert.Equal(t, in.ShiftLog[0].ID, out.ShiftLog[0].ID)
	assert.True(t, out.ShiftLog[0].Open())
	require.NotNil(t, out.ShiftLog[1].EndedAt)
	assert.True(t, in.ShiftLog[1].EndedAt.Equal(*out.ShiftLog[1].EndedAt))

	require.Len(t, out.Stamps, 1)
	assert.Equal(t, in.Stamps[0], out.Stamps[0])
}

func TestStore_SecondSaveOverwrites(t *testing.T) {
	// Last write wins: the singleton row is upserted, never duplicated.

	store := newTestStore(t)
	ctx := context.Background()

	first := sampleState()
	require.NoError(t, store.Save(ctx, first))

	second := first.Clone()
	second.ActiveOperator = "NOOREAX"
	second.ActiveKind = shift.KindDay
	require.NoError(t, store.Save(ctx, second))

	out, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, shift.OperatorID("NOOREAX"), out.ActiveOperator)
	assert.Equal(t, shift.KindDay, out.ActiveKind)
}

func TestStore_EmptyLogsSurviveRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seed := shift.Rotation{Roster: shift.DefaultRoster()}.Seed(
		time.Date(2025, time.November, 17, 10, 0, 0, 0, time.UTC))
	require.NoError(t, store.Save(ctx, seed))

	out, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, out.ShiftLog)
	assert.Empty(t, out.Stamps)
	assert.Equal(t, seed.ActiveOperator, out.ActiveOperator)
}
