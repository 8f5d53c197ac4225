package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nephra/internal/services/report"
)

// ReportHandler serves generated PDF reports
type ReportHandler struct {
	reportService *report.Service
	logger        arbor.ILogger
}

// NewReportHandler creates a new report handler with dependencies
func NewReportHandler(reportService *report.Service, logger arbor.ILogger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// ScoreReportHandler handles GET /api/reports/scores
func (h *ReportHandler) ScoreReportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	pdfBytes, err := h.reportService.ScoreReportPDF(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to generate score report")
		WriteError(w, http.StatusInternalServerError, "Failed to generate report")
		return
	}

	filename := fmt.Sprintf("kidney-stress-report-%s.pdf", time.Now().Format("2006-01-02"))

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(pdfBytes)))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(pdfBytes); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to write report response")
	}
}
