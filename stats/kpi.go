/*
kpi.go - Punctuality KPIs over the stamp log

PURPOSE:
  Scores the check-in history: how often the handover was on time, how
  late the late ones were, the current unbroken on-time streak, the worst
  calendar day, and cumulative lateness per operator.

PRECISION:
  The two ratios (rate, average) go through shopspring/decimal with
  half-away-from-zero rounding instead of float division, so a 2/3 quote
  is a stable 67 and never a platform-dependent 66.

SEE ALSO:
  - overlap.go: Duration totals
  - days.go: Day keys used by the worst-late-day grouping
*/
package stats

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/grindhub/shift-engine/shift"
)

// =============================================================================
// KPI TYPES
// =============================================================================

// LateDay names the calendar day with the highest summed late minutes.
type LateDay struct {
	Day     string `json:"day"`
	Minutes int    `json:"minutes"`
}

// OperatorMinutes is one row of the cumulative-lateness leaderboard.
type OperatorMinutes struct {
	Operator shift.OperatorID `json:"operator"`
	Minutes  int              `json:"minutes"`
}

// PunctualityKPIs is the scored summary of the whole stamp log.
type PunctualityKPIs struct {
	OnTimeRatePercent  int               `json:"onTimeRatePercent"`
	AverageLateMinutes int               `json:"averageLateMinutes"`
	CurrentStreak      int               `json:"currentOnTimeStreak"`
	WorstLateDay       *LateDay          `json:"worstLateDay"`
	LateByOperator     []OperatorMinutes `json:"cumulativeLateMinutesByOperator"`
}

// =============================================================================
// COMPUTATION
// =============================================================================

// Punctuality computes all KPIs in one pass set. An empty log yields the
// zero summary (rate 0, no worst day, empty leaderboard).
func Punctuality(stamps []shift.StampEvent) PunctualityKPIs {
	kpi := PunctualityKPIs{LateByOperator: []OperatorMinutes{}}
	if len(stamps) == 0 {
		return kpi
	}

	onTime := 0
	lateCount := 0
	lateSum := 0
	lateByDay := make(map[string]int)
	lateByOp := make(map[shift.OperatorID]int)

	for _, s := range stamps {
		switch {
		case s.Verdict == shift.VerdictOnTime:
			onTime++
		case s.Verdict == shift.VerdictLate && s.DeltaMinutes > 0:
			lateCount++
			lateSum += s.DeltaMinutes
			lateByDay[DayKey(s.StampedAt)] += s.DeltaMinutes
			lateByOp[s.Operator] += s.DeltaMinutes
		}
	}

	kpi.OnTimeRatePercent = roundedRatio(onTime*100, len(stamps))
	if lateCount > 0 {
		kpi.AverageLateMinutes = roundedRatio(lateSum, lateCount)
	}
	kpi.CurrentStreak = onTimeStreak(stamps)
	kpi.WorstLateDay = worstDay(lateByDay)
	kpi.LateByOperator = lateLeaderboard(lateByOp)
	return kpi
}

// roundedRatio divides num by den with half-away-from-zero rounding.
func roundedRatio(num, den int) int {
	return int(decimal.NewFromInt(int64(num)).
		DivRound(decimal.NewFromInt(int64(den)), 0).
		IntPart())
}

// onTimeStreak counts consecutive ON_TIME stamps from the most recent
// backward; any other verdict (EARLY included) breaks the run.
func onTimeStreak(stamps []shift.StampEvent) int {
	ordered := append([]shift.StampEvent(nil), stamps...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StampedAt.After(ordered[j].StampedAt)
	})

	streak := 0
	for _, s := range ordered {
		if s.Verdict != shift.VerdictOnTime {
			break
		}
		streak++
	}
	return streak
}

func worstDay(lateByDay map[string]int) *LateDay {
	var worst *LateDay
	for day, mins := range lateByDay {
		if worst == nil || mins > worst.Minutes || (mins == worst.Minutes && day < worst.Day) {
			worst = &LateDay{Day: day, Minutes: mins}
		}
	}
	return worst
}

func lateLeaderboard(lateByOp map[shift.OperatorID]int) []OperatorMinutes {
	out := make([]OperatorMinutes, 0, len(lateByOp))
	for op, mins := range lateByOp {
		out = append(out, OperatorMinutes{Operator: op, Minutes: mins})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Minutes != out[j].Minutes {
			return out[i].Minutes > out[j].Minutes
		}
		return out[i].Operator < out[j].Operator
	})
	return out
}
