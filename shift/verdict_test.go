package shift_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/grindhub/shift-engine/shift"
)

// =============================================================================
// VERDICT CLASSIFICATION
// =============================================================================

var cet = time.FixedZone("CET", 3600)

func TestClassify_LateBySevenMinutes(t *testing.T) {
	// GIVEN: Planned handover at 14:00 CET
	// WHEN: The operator stamps at 14:07
	// THEN: LATE with delta +7

	planned := time.Date(2025, time.November, 17, 14, 0, 0, 0, cet)
	actual := time.Date(2025, time.November, 17, 14, 7, 0, 0, cet)

	verdict, delta := shift.Classify(actual, planned)
	assert.Equal(t, shift.VerdictLate, verdict)
	assert.Equal(t, 7, delta)
}

func TestClassify_EarlyTruncatesSecondsBeforeDifferencing(t *testing.T) {
	// GIVEN: Planned handover at 14:00 CET
	// WHEN: The operator stamps at 13:58:30
	// THEN: EARLY with delta -2 after truncation (13:58 vs 14:00),
	//       not -1 from rounding the raw 90s difference

	planned := time.Date(2025, time.November, 17, 14, 0, 0, 0, cet)
	actual := time.Date(2025, time.November, 17, 13, 58, 30, 0, cet)

	verdict, delta := shift.Classify(actual, planned)
	assert.Equal(t, shift.VerdictEarly, verdict)
	assert.Equal(t, -2, delta)
}

func TestClassify_OnTimeExactly(t *testing.T) {
	planned := time.Date(2025, time.November, 17, 14, 0, 0, 0, cet)

	verdict, delta := shift.Classify(planned, planned)
	assert.Equal(t, shift.VerdictOnTime, verdict)
	assert.Equal(t, 0, delta)
}

func TestClassify_SubMinuteJitterIsOnTime(t *testing.T) {
	// GIVEN: Planned handover at 14:00:00
	// WHEN: Stamping at 14:00:59.9 - same minute bucket
	// THEN: ON_TIME with delta exactly 0

	planned := time.Date(2025, time.November, 17, 14, 0, 0, 0, cet)
	actual := time.Date(2025, time.November, 17, 14, 0, 59, int(900*time.Millisecond), cet)

	verdict, delta := shift.Classify(actual, planned)
	assert.Equal(t, shift.VerdictOnTime, verdict)
	assert.Equal(t, 0, delta)
}

func TestClassify_DeltaIsWholeMinuteDifference(t *testing.T) {
	// Verdict and |delta| must follow the minute-truncated ordering for
	// a spread of offsets on both sides of the plan.

	planned := time.Date(2025, time.November, 17, 14, 0, 0, 0, cet)

	cases := []struct {
		name    string
		actual  time.Time
		verdict shift.Verdict
		delta   int
	}{
		{"one minute early", planned.Add(-time.Minute), shift.VerdictEarly, -1},
		{"an hour early", planned.Add(-time.Hour), shift.VerdictEarly, -60},
		{"one minute late", planned.Add(time.Minute), shift.VerdictLate, 1},
		{"a day late", planned.Add(24 * time.Hour), shift.VerdictLate, 1440},
		{"late with seconds", planned.Add(3*time.Minute + 45*time.Second), shift.VerdictLate, 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verdict, delta := shift.Classify(tc.actual, planned)
			assert.Equal(t, tc.verdict, verdict)
			assert.Equal(t, tc.delta, delta)
		})
	}
}
