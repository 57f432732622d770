package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/candleworks/waxpro/internal/report"
)

// getReport returns the warehouse report as JSON
func (r *Router) getReport(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, report.Build(r.manager.Snapshot(), time.Now()))
}

// getReportShare returns the plain-text report summary for sharing
func (r *Router) getReportShare(w http.ResponseWriter, req *http.Request) {
	rep := report.Build(r.manager.Snapshot(), time.Now())
	respondJSON(w, http.StatusOK, map[string]string{"text": report.ShareText(rep)})
}

// getReportPDF renders the warehouse report as a downloadable PDF
func (r *Router) getReportPDF(w http.ResponseWriter, req *http.Request) {
	rep := report.Build(r.manager.Snapshot(), time.Now())

	pdf, err := report.RenderPDF(rep)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to render report")
		return
	}

	filename := fmt.Sprintf("waxpro_report_%s.pdf", rep.GeneratedAt.Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
