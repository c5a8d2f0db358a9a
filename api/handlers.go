/*
handlers.go - HTTP API handlers for the shift engine

PURPOSE:
  Exposes the handover state engine via REST. Handles HTTP
  request/response, JSON serialization, and delegates to shift/stats.

ENDPOINTS:
  Read:
    GET  /api/state               Snapshot + derived stats
    GET  /api/stats/day/{date}    Selected-day totals and stamps
    GET  /api/status-text         Chat-pin / Discord copy blocks (mod)
    GET  /ws                      Websocket state feed

  Admin (X-Admin-Token):
    POST /api/admin/takeover      Forced handover (unscored)
    POST /api/admin/stamp         Stamp-and-takeover (scored)
    POST /api/admin/plan          Set planned time of day
    POST /api/admin/seed-demo     Reset to generated demo history
    GET  /api/admin/export        XLSX report

ERROR HANDLING:
  Errors are returned as JSON {error, details} with stable codes:
  - 400 BAD_JSON / BAD_TIME_FORMAT / BAD_TAKEOVER / BAD_DAY
  - 401 UNAUTHORIZED (before any state access)
  - 500 STATE_READ_FAILED / STATE_WRITE_FAILED

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - hub.go: Websocket broadcasting
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/grindhub/shift-engine/config"
	"github.com/grindhub/shift-engine/shift"
	"github.com/grindhub/shift-engine/stats"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine *shift.Engine
	Clock  shift.Clock
	Config *config.Config
	Hub    *Hub
}

// NewHandler creates a handler around the engine. The hub may be nil in
// tests that don't exercise the websocket feed.
func NewHandler(engine *shift.Engine, clock shift.Clock, cfg *config.Config, hub *Hub) *Handler {
	return &Handler{Engine: engine, Clock: clock, Config: cfg, Hub: hub}
}

// =============================================================================
// READ HANDLERS
// =============================================================================

// GetState returns the full dashboard payload.
// GET /api/state
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	now := h.Clock.Now()
	s, err := h.Engine.Read(r.Context(), now)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "STATE_READ_FAILED", err)
		return
	}
	writeJSON(w, http.StatusOK, h.stateDTO(s, now))
}

// GetDayStats returns totals and stamps for one calendar day.
// GET /api/stats/day/{date}
func (h *Handler) GetDayStats(w http.ResponseWriter, r *http.Request) {
	now := h.Clock.Now()
	day := chi.URLParam(r, "date")

	window, err := stats.DayWindow(day, now.Location())
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_DAY", err)
		return
	}

	s, err := h.Engine.Read(r.Context(), now)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "STATE_READ_FAILED", err)
		return
	}

	writeJSON(w, http.StatusOK, DayStatsDTO{
		Day:    day,
		Totals: toTotalDTOs(stats.TotalsByOperator(s.ShiftLog, window, now), h.Engine.Roster()),
		Stamps: stats.StampsOnDay(s.Stamps, day),
	})
}

// GetStatusText returns the chat-pin and Discord copy blocks.
// GET /api/status-text
func (h *Handler) GetStatusText(w http.ResponseWriter, r *http.Request) {
	now := h.Clock.Now()
	s, err := h.Engine.Read(r.Context(), now)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "STATE_READ_FAILED", err)
		return
	}

	roster := h.Engine.Roster()
	shiftDur := shiftElapsed(s, now)
	stand := now.Format("15:04")

	pin := fmt.Sprintf("LIVE 🔴 %s (%s) · Schicht %s · Next: %s %s · Stand %s",
		roster.Name(s.ActiveOperator), kindLabel(s.ActiveKind), formatHMS(shiftDur),
		roster.Name(s.NextOperator), s.PlannedTimeOfDay, stand)

	discord := fmt.Sprintf("**Status (Stand %s)**\n• Aktuell: %s (%s)\n• Schichtdauer: %s\n• Next: %s · %s\n",
		stand, roster.Name(s.ActiveOperator), kindLabel(s.ActiveKind),
		formatHMS(shiftDur), roster.Name(s.NextOperator), s.PlannedTimeOfDay)

	writeJSON(w, http.StatusOK, StatusTextDTO{Pin: pin, Discord: discord})
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// Takeover forces the active operator/kind without scoring.
// POST /api/admin/takeover
func (h *Handler) Takeover(w http.ResponseWriter, r *http.Request) {
	var req TakeoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_JSON", err)
		return
	}

	now := h.Clock.Now()
	s, err := h.Engine.Takeover(r.Context(), shift.OperatorID(req.Operator), shift.ShiftKind(req.Kind), now)
	if err != nil {
		if shift.IsValidation(err) {
			writeError(w, http.StatusBadRequest, "BAD_TAKEOVER", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "STATE_WRITE_FAILED", err)
		return
	}

	dto := h.stateDTO(s, now)
	h.broadcast(dto)
	writeJSON(w, http.StatusOK, dto)
}

// Stamp checks in the scheduled next operator and hands the event over.
// POST /api/admin/stamp
func (h *Handler) Stamp(w http.ResponseWriter, r *http.Request) {
	now := h.Clock.Now()
	s, stamp, err := h.Engine.StampAndTakeover(r.Context(), now)
	if err != nil {
		if shift.IsValidation(err) {
			writeError(w, http.StatusBadRequest, "BAD_TAKEOVER", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "STATE_WRITE_FAILED", err)
		return
	}

	dto := h.stateDTO(s, now)
	h.broadcast(dto)
	writeJSON(w, http.StatusOK, StampResponse{Stamp: stamp, State: dto})
}

// SetPlan sets the planned handover time of day.
// POST /api/admin/plan
func (h *Handler) SetPlan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_JSON", err)
		return
	}

	now := h.Clock.Now()
	s, err := h.Engine.SetPlannedTime(r.Context(), req.Time, now)
	if err != nil {
		if shift.IsValidation(err) {
			writeError(w, http.StatusBadRequest, "BAD_TIME_FORMAT", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "STATE_WRITE_FAILED", err)
		return
	}

	dto := h.stateDTO(s, now)
	h.broadcast(dto)
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// DTO ASSEMBLY
// =============================================================================

func (h *Handler) stateDTO(s shift.State, now time.Time) StateDTO {
	roster := h.Engine.Roster()
	return StateDTO{
		Snapshot:  s,
		Operators: roster.Operators(),
		Event: EventDTO{
			StartAt:       h.Config.EventStart,
			Now:           now,
			DayCurrent:    dayCurrent(h.Config.EventStart, now),
			DayTotal:      h.Config.EventDays,
			ElapsedMillis: maxInt64(0, now.Sub(h.Config.EventStart).Milliseconds()),
			ShiftMillis:   shiftElapsed(s, now).Milliseconds(),
		},
		Today:          toTotalDTOs(stats.TotalsByOperator(s.ShiftLog, stats.Today(now), now), roster),
		AllTime:        toTotalDTOs(stats.TotalsByOperator(s.ShiftLog, stats.AllTime(now), now), roster),
		KPIs:           stats.Punctuality(s.Stamps),
		DayKeys:        stats.DayKeys(h.Config.EventStart, now),
		RecentSwitches: s.ShiftLog.History(8),
	}
}

func (h *Handler) broadcast(dto StateDTO) {
	if h.Hub == nil {
		return
	}
	if payload, err := json.Marshal(dto); err == nil {
		h.Hub.Broadcast(payload)
	}
}

// dayCurrent is 1-based and never below 1, even before the event starts.
func dayCurrent(eventStart, now time.Time) int {
	d := int(now.Sub(eventStart)/(24*time.Hour)) + 1
	if d < 1 {
		return 1
	}
	return d
}

// shiftElapsed measures the open interval's age; before the first
// handover it falls back to the event start.
func shiftElapsed(s shift.State, now time.Time) time.Duration {
	if open := s.ShiftLog.OpenInterval(); open != nil {
		return now.Sub(open.StartedAt)
	}
	if len(s.ShiftLog) > 0 {
		return now.Sub(s.ShiftLog[0].StartedAt)
	}
	return 0
}

func kindLabel(k shift.ShiftKind) string {
	if k == shift.KindDay {
		return "Tagschicht"
	}
	return "Nachtschicht"
}

func formatHMS(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	resp := ErrorResponse{Error: code}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
