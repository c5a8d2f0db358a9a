/*
handlers_test.go - HTTP boundary tests

ORGANIZATION:
  1. Auth gating
  2. State and day views
  3. Admin mutations (takeover, stamp, plan)
  4. Demo seeding and export

Tests run the real chi router over a memory store with a fixed clock, so
every response is deterministic.
*/
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grindhub/shift-engine/config"
	"github.com/grindhub/shift-engine/shift"
	"github.com/grindhub/shift-engine/store/memory"
)

// =============================================================================
// TEST INFRASTRUCTURE
// =============================================================================

const (
	testAdminToken = "admin-secret"
	testModToken   = "mod-secret"
)

func testServer(t *testing.T, now time.Time) (*httptest.Server, *shift.FixedClock) {
	t.Helper()

	clock := &shift.FixedClock{At: now}
	cfg := &config.Config{
		AdminToken:     testAdminToken,
		ModToken:       testModToken,
		Roster:         shift.DefaultRoster(),
		EventStart:     time.Date(2025, time.November, 15, 0, 0, 0, 0, time.UTC),
		EventDays:      30,
		AllowedOrigins: []string{"*"},
	}

	engine := shift.NewEngine(memory.New(), cfg.Roster)
	handler := NewHandler(engine, clock, cfg, nil)

	srv := httptest.NewServer(NewRouter(handler))
	t.Cleanup(srv.Close)
	return srv, clock
}

func doReq(t *testing.T, method, url string, body any, headers map[string]string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func adminHeaders() map[string]string {
	return map[string]string{"X-Admin-Token": testAdminToken}
}

// =============================================================================
// AUTH GATING
// =============================================================================

func TestAdminRoutes_RejectMissingOrWrongToken(t *testing.T) {
	srv, _ := testServer(t, time.Date(2025, time.November, 17, 13, 0, 0, 0, time.UTC))

	cases := []struct {
		name    string
		headers map[string]string
	}{
		{"no token", nil},
		{"wrong token", map[string]string{"X-Admin-Token": "nope"}},
		{"mod token on admin route", map[string]string{"X-Mod-Token": testModToken}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doReq(t, http.MethodPost, srv.URL+"/api/admin/stamp", nil, tc.headers)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			body := decodeBody[ErrorResponse](t, resp)
			assert.Equal(t, "UNAUTHORIZED", body.Error)
		})
	}
}

func TestStatusText_AcceptsModOrAdminToken(t *testing.T) {
	srv, _ := testServer(t, time.Date(2025, time.November, 17, 13, 0, 0, 0, time.UTC))

	resp := doReq(t, http.MethodGet, srv.URL+"/api/status-text", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doReq(t, http.MethodGet, srv.URL+"/api/status-text", nil,
		map[string]string{"X-Mod-Token": testModToken})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[StatusTextDTO](t, resp)
	assert.Contains(t, body.Pin, "LIVE")
	assert.Contains(t, body.Pin, "nooreax")
	assert.Contains(t, body.Discord, "Aktuell: nooreax")

	resp = doReq(t, http.MethodGet, srv.URL+"/api/status-text", nil, adminHeaders())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// =============================================================================
// STATE AND DAY VIEWS
// =============================================================================

func TestGetState_SeedsColdStartAndDerivesViews(t *testing.T) {
	// GIVEN: A fresh store
	// WHEN: GET /api/state at 13:00 on event day 3
	// THEN: Seeded rotation, both operators listed, day counter at 3

	now := time.Date(2025, time.November, 17, 13, 0, 0, 0, time.UTC)
	srv, _ := testServer(t, now)

	resp := doReq(t, http.MethodGet, srv.URL+"/api/state", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))

	body := decodeBody[StateDTO](t, resp)
	assert.Equal(t, shift.OperatorID("NOOREAX"), body.Snapshot.ActiveOperator)
	assert.Equal(t, "14:00", body.Snapshot.PlannedTimeOfDay)
	require.Len(t, body.Operators, 2)
	assert.Equal(t, 3, body.Event.DayCurrent)
	assert.Equal(t, 30, body.Event.DayTotal)
	assert.Equal(t, []string{"2025-11-15", "2025-11-16", "2025-11-17"}, body.DayKeys)
	assert.Empty(t, body.Today, "no interval recorded yet")
}

func TestGetDayStats_RejectsMalformedDate(t *testing.T) {
	srv, _ := testServer(t, time.Date(2025, time.November, 17, 13, 0, 0, 0, time.UTC))

	resp := doReq(t, http.MethodGet, srv.URL+"/api/stats/day/17.11.2025", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody[ErrorResponse](t, resp)
	assert.Equal(t, "BAD_DAY", body.Error)
}

func TestGetDayStats_ClampsTotalsToTheDay(t *testing.T) {
	// GIVEN: A takeover at 13:00, clock advanced to 18:00
	// WHEN: Querying today's stats
	// THEN: NOOREAX shows exactly 5h

	start := time.Date(2025, time.November, 17, 13, 0, 0, 0, time.UTC)
	srv, clock := testServer(t, start)

	resp := doReq(t, http.MethodPost, srv.URL+"/api/admin/takeover",
		TakeoverRequest{Operator: "NOOREAX", Kind: "DAY"}, adminHeaders())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	clock.At = start.Add(5 * time.Hour)

	resp = doReq(t, http.MethodGet, srv.URL+"/api/stats/day/2025-11-17", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[DayStatsDTO](t, resp)
	require.Len(t, body.Totals, 1)
	assert.Equal(t, "NOOREAX", body.Totals[0].Operator)
	assert.Equal(t, "nooreax", body.Totals[0].Name)
	assert.Equal(t, (5 * time.Hour).Milliseconds(), body.Totals[0].Millis)
}

// =============================================================================
// ADMIN MUTATIONS
// =============================================================================

func TestStamp_ScoresAgainstThePlan(t *testing.T) {
	// GIVEN: Seeded plan at 14:00, clock at 14:07
	// WHEN: POST /api/admin/stamp
	// THEN: LATE +7 stamp for the scheduled next operator (VETQ)

	now := time.Date(2025, time.November, 17, 13, 0, 0, 0, time.UTC)
	srv, clock := testServer(t, now)

	// Seed via a read first so the plan is anchored at 13:00.
	resp := doReq(t, http.MethodGet, srv.URL+"/api/state", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	clock.At = time.Date(2025, time.November, 17, 14, 7, 0, 0, time.UTC)

	resp = doReq(t, http.MethodPost, srv.URL+"/api/admin/stamp", nil, adminHeaders())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[StampResponse](t, resp)
	assert.Equal(t, shift.VerdictLate, body.Stamp.Verdict)
	assert.Equal(t, 7, body.Stamp.DeltaMinutes)
	assert.Equal(t, shift.OperatorID("VETQ"), body.Stamp.Operator)
	assert.Equal(t, shift.OperatorID("VETQ"), body.State.Snapshot.ActiveOperator)
	assert.Equal(t, shift.OperatorID("NOOREAX"), body.State.Snapshot.NextOperator)
	assert.Equal(t, 0, body.State.KPIs.OnTimeRatePercent)
}

func TestTakeover_RejectsUnknownOperator(t *testing.T) {
	srv, _ := testServer(t, time.Date(2025, time.November, 17, 13, 0, 0, 0, time.UTC))

	resp := doReq(t, http.MethodPost, srv.URL+"/api/admin/takeover",
		TakeoverRequest{Operator: "INTRUDER", Kind: "DAY"}, adminHeaders())
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody[ErrorResponse](t, resp)
	assert.Equal(t, "BAD_TAKEOVER", body.Error)
}

func TestTakeover_RejectsMalformedJSON(t *testing.T) {
	srv, _ := testServer(t, time.Date(2025, time.November, 17, 13, 0, 0, 0, time.UTC))

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/admin/takeover",
		bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	req.Header.Set("X-Admin-Token", testAdminToken)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody[ErrorResponse](t, resp)
	assert.Equal(t, "BAD_JSON", body.Error)
}

func TestSetPlan_RebasesAndRejectsBadFormat(t *testing.T) {
	now := time.Date(2025, time.November, 17, 13, 0, 0, 0, time.UTC)
	srv, _ := testServer(t, now)

	resp := doReq(t, http.MethodPost, srv.URL+"/api/admin/plan",
		PlanRequest{Time: "23:45"}, adminHeaders())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[StateDTO](t, resp)
	assert.Equal(t, "23:45", body.Snapshot.PlannedTimeOfDay)
	assert.True(t, body.Snapshot.PlannedHandoverAt.Equal(
		time.Date(2025, time.November, 17, 23, 45, 0, 0, time.UTC)))

	resp = doReq(t, http.MethodPost, srv.URL+"/api/admin/plan",
		PlanRequest{Time: "9:00"}, adminHeaders())
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errBody := decodeBody[ErrorResponse](t, resp)
	assert.Equal(t, "BAD_TIME_FORMAT", errBody.Error)
}

// =============================================================================
// DEMO SEEDING AND EXPORT
// =============================================================================

func TestSeedDemo_GeneratesScoredHistory(t *testing.T) {
	// GIVEN: A clock two weeks past the event start
	// WHEN: POST /api/admin/seed-demo
	// THEN: Alternating 12h history with the seeded late handovers scored

	now := time.Date(2025, time.November, 29, 15, 0, 0, 0, time.UTC)
	srv, _ := testServer(t, now)

	resp := doReq(t, http.MethodPost, srv.URL+"/api/admin/seed-demo", nil, adminHeaders())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[StateDTO](t, resp)
	assert.NotEmpty(t, body.Snapshot.ShiftLog)
	assert.NotEmpty(t, body.Snapshot.Stamps)

	// Exactly one open interval, and it belongs to the active operator.
	open := 0
	for _, iv := range body.Snapshot.ShiftLog {
		if iv.EndedAt == nil {
			open++
			assert.Equal(t, body.Snapshot.ActiveOperator, iv.Operator)
		}
	}
	assert.Equal(t, 1, open)

	// The seeded delays make some stamps late, so the KPIs are non-trivial.
	assert.Less(t, body.KPIs.OnTimeRatePercent, 100)
	assert.Greater(t, body.KPIs.OnTimeRatePercent, 0)
	assert.NotNil(t, body.KPIs.WorstLateDay)
	assert.NotEmpty(t, body.KPIs.LateByOperator)
}

func TestExport_ReturnsWorkbook(t *testing.T) {
	srv, _ := testServer(t, time.Date(2025, time.November, 17, 13, 0, 0, 0, time.UTC))

	resp := doReq(t, http.MethodGet, srv.URL+"/api/admin/export", nil, adminHeaders())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
}
