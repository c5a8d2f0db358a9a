package stats

import (
	"time"

	"github.com/grindhub/shift-engine/shift"
)

// =============================================================================
// LOCAL DAYS - Midnight clamping and day keys
// =============================================================================

// DayKeyLayout is the calendar-day key format used across views.
const DayKeyLayout = "2006-01-02"

// LocalMidnight returns 00:00:00 of t's calendar day in t's location.
func LocalMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayKey formats t as its local calendar-day key.
func DayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// DayWindow resolves a day key to its [midnight, next midnight) window in
// loc. The right bound comes from time.Date so DST transitions keep the
// window aligned to real local midnights.
func DayWindow(key string, loc *time.Location) (Window, error) {
	day, err := time.ParseInLocation(DayKeyLayout, key, loc)
	if err != nil {
		return Window{}, err
	}
	return Window{
		From: day,
		To:   time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, loc),
	}, nil
}

// DayKeys lists every local day key from the event start through now,
// oldest first. Empty when now precedes the event start.
func DayKeys(eventStart, now time.Time) []string {
	start := LocalMidnight(eventStart)
	end := LocalMidnight(now)

	var out []string
	for cur := start; !cur.After(end); cur = time.Date(cur.Year(), cur.Month(), cur.Day()+1, 0, 0, 0, 0, cur.Location()) {
		out = append(out, DayKey(cur))
	}
	return out
}

// StampsOnDay filters stamps whose local stamped-at day matches key,
// preserving order (newest first in the state document).
func StampsOnDay(stamps []shift.StampEvent, key string) []shift.StampEvent {
	var out []shift.StampEvent
	for _, s := range stamps {
		if DayKey(s.StampedAt) == key {
			out = append(out, s)
		}
	}
	return out
}
