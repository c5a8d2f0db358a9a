/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal state document from the external contract the dashboard
  and overlay consume.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers and the shift engine, not in DTOs.
  DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - shift/types.go: The state document being projected
*/
package api

import (
	"time"

	"github.com/grindhub/shift-engine/shift"
	"github.com/grindhub/shift-engine/stats"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// TakeoverRequest forces the active operator/kind (admin override).
type TakeoverRequest struct {
	Operator string `json:"operator"`
	Kind     string `json:"kind"`
}

// PlanRequest sets the planned handover time of day.
type PlanRequest struct {
	Time string `json:"time"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// StateDTO is the full dashboard payload: the persisted snapshot plus
// everything derived from it.
type StateDTO struct {
	Snapshot shift.State `json:"snapshot"`

	Operators []shift.Operator `json:"operators"`

	Event EventDTO `json:"event"`

	Today   []TotalDTO            `json:"today"`
	AllTime []TotalDTO            `json:"allTime"`
	KPIs    stats.PunctualityKPIs `json:"kpis"`
	DayKeys []string              `json:"dayKeys"`

	RecentSwitches []shift.ShiftInterval `json:"recentSwitches"`
}

// EventDTO carries event metadata and running clocks.
type EventDTO struct {
	StartAt       time.Time `json:"startAt"`
	Now           time.Time `json:"now"`
	DayCurrent    int       `json:"dayCurrent"`
	DayTotal      int       `json:"dayTotal"`
	ElapsedMillis int64     `json:"elapsedMillis"`
	ShiftMillis   int64     `json:"shiftMillis"`
}

// TotalDTO is one duration leaderboard row with a display name attached.
type TotalDTO struct {
	Operator string `json:"operator"`
	Name     string `json:"name"`
	Millis   int64  `json:"millis"`
}

// DayStatsDTO is the selected-day view.
type DayStatsDTO struct {
	Day    string             `json:"day"`
	Totals []TotalDTO         `json:"totals"`
	Stamps []shift.StampEvent `json:"stamps"`
}

// StampResponse is returned after a successful stamp-and-takeover.
type StampResponse struct {
	Stamp shift.StampEvent `json:"stamp"`
	State StateDTO         `json:"state"`
}

// StatusTextDTO carries the server-rendered copy blocks for mods.
type StatusTextDTO struct {
	Pin     string `json:"pin"`
	Discord string `json:"discord"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toTotalDTOs(totals []stats.OperatorTotal, roster shift.Roster) []TotalDTO {
	dtos := make([]TotalDTO, len(totals))
	for i, t := range totals {
		dtos[i] = TotalDTO{
			Operator: string(t.Operator),
			Name:     roster.Name(t.Operator),
			Millis:   t.Millis,
		}
	}
	return dtos
}
