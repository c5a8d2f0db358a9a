/*
export.go - XLSX report of the shift history

PURPOSE:
  Flattens the state document into a three-sheet workbook (Shifts,
  Stamps, KPIs) for offline review by the event admins.

SEE ALSO:
  - handlers.go: Route registration
  - stats: KPI and totals computation reused here
*/
package api

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/grindhub/shift-engine/stats"
)

// Export streams the workbook.
// GET /api/admin/export
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	now := h.Clock.Now()
	s, err := h.Engine.Read(r.Context(), now)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "STATE_READ_FAILED", err)
		return
	}

	roster := h.Engine.Roster()
	f := excelize.NewFile()
	defer f.Close()

	// Shifts sheet (reuse the default sheet).
	shifts := "Shifts"
	f.SetSheetName("Sheet1", shifts)
	setRow(f, shifts, 1, "ID", "Operator", "Kind", "Started", "Ended", "Hours")
	for i, iv := range s.ShiftLog {
		ended := ""
		dur := now.Sub(iv.StartedAt)
		if iv.EndedAt != nil {
			ended = iv.EndedAt.Format(time.RFC3339)
			dur = iv.EndedAt.Sub(iv.StartedAt)
		}
		setRow(f, shifts, i+2,
			iv.ID, roster.Name(iv.Operator), string(iv.Kind),
			iv.StartedAt.Format(time.RFC3339), ended,
			fmt.Sprintf("%.2f", dur.Hours()))
	}

	// Stamps sheet.
	stamps := "Stamps"
	f.NewSheet(stamps)
	setRow(f, stamps, 1, "ID", "Operator", "Stamped", "Planned", "Verdict", "Delta (min)")
	for i, st := range s.Stamps {
		setRow(f, stamps, i+2,
			st.ID, roster.Name(st.Operator),
			st.StampedAt.Format(time.RFC3339), st.PlannedAt.Format(time.RFC3339),
			string(st.Verdict), st.DeltaMinutes)
	}

	// KPIs sheet.
	kpis := stats.Punctuality(s.Stamps)
	kpiSheet := "KPIs"
	f.NewSheet(kpiSheet)
	setRow(f, kpiSheet, 1, "On-time rate (%)", kpis.OnTimeRatePercent)
	setRow(f, kpiSheet, 2, "Average late (min)", kpis.AverageLateMinutes)
	setRow(f, kpiSheet, 3, "Current on-time streak", kpis.CurrentStreak)
	if kpis.WorstLateDay != nil {
		setRow(f, kpiSheet, 4, "Worst late day", kpis.WorstLateDay.Day, kpis.WorstLateDay.Minutes)
	}
	row := 6
	for _, lm := range kpis.LateByOperator {
		setRow(f, kpiSheet, row, "Late total: "+roster.Name(lm.Operator), lm.Minutes)
		row++
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="shift-report-%s.xlsx"`, now.Format("2006-01-02")))
	if err := f.Write(w); err != nil {
		log.Printf("export write failed: %v", err)
	}
}

// setRow fills one row starting at column A.
func setRow(f *excelize.File, sheet string, row int, values ...any) {
	cell, _ := excelize.CoordinatesToCellName(1, row)
	_ = f.SetSheetRow(sheet, cell, &values)
}
