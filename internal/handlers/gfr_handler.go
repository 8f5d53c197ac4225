package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nephra/internal/common"
	"github.com/ternarybob/nephra/internal/interfaces"
	"github.com/ternarybob/nephra/internal/models"
	"github.com/ternarybob/nephra/internal/renal"
	"github.com/ternarybob/nephra/internal/trend"
)

// Prior estimates considered when building a trend for a new reading.
const gfrTrendWindow = 24

// GFRHandler handles eGFR estimation endpoints
type GFRHandler struct {
	gfrStorage   interfaces.GFRStorage
	eventService interfaces.EventService
	logger       arbor.ILogger
}

// NewGFRHandler creates a new GFR handler with dependencies
func NewGFRHandler(gfrStorage interfaces.GFRStorage, eventService interfaces.EventService, logger arbor.ILogger) *GFRHandler {
	return &GFRHandler{
		gfrStorage:   gfrStorage,
		eventService: eventService,
		logger:       logger,
	}
}

// EstimateGFRHandler handles POST /api/gfr
func (h *GFRHandler) EstimateGFRHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req models.GFRRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse GFR request body")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	egfr, err := renal.EstimateGFR(req.Age, req.SexAtBirth, req.SerumCreatinine)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	record := &models.GFRRecord{
		ID:              common.NewGFRID(),
		CreatedAt:       time.Now(),
		Age:             req.Age,
		SexAtBirth:      req.SexAtBirth,
		SerumCreatinine: req.SerumCreatinine,
		EGFR:            egfr,
		Stage:           renal.InterpretGFR(egfr),
	}
	record.Trend = h.buildTrend(r.Context(), record)

	if err := h.gfrStorage.StoreEstimate(r.Context(), record); err != nil {
		h.logger.Error().Err(err).Msg("Failed to store GFR estimate")
		WriteError(w, http.StatusInternalServerError, "Failed to store GFR estimate")
		return
	}

	h.logger.Info().
		Str("gfr_id", record.ID).
		Float64("egfr", record.EGFR).
		Str("stage", record.Stage.Code).
		Msg("GFR estimate recorded")

	if h.eventService != nil {
		event := interfaces.Event{Type: interfaces.EventGFRRecorded, Payload: record}
		if err := h.eventService.Publish(context.Background(), event); err != nil {
			h.logger.Warn().Err(err).Msg("Failed to publish GFR event")
		}
	}

	WriteJSON(w, http.StatusCreated, record)
}

// ListGFRHandler handles GET /api/gfr
func (h *GFRHandler) ListGFRHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	limit, offset := GetLimitOffset(r)

	records, err := h.gfrStorage.ListEstimates(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list GFR estimates")
		WriteError(w, http.StatusInternalServerError, "Failed to list GFR estimates")
		return
	}

	total, err := h.gfrStorage.CountEstimates(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to count GFR estimates")
		WriteError(w, http.StatusInternalServerError, "Failed to count GFR estimates")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"estimates": records,
		"pagination": PaginationResponse{
			Limit:      limit,
			Offset:     offset,
			TotalItems: total,
		},
	})
}

// buildTrend analyzes the new estimate against stored history. With no
// prior estimates there is no trend to report.
func (h *GFRHandler) buildTrend(ctx context.Context, record *models.GFRRecord) *trend.Analysis {
	priors, err := h.gfrStorage.ListEstimates(ctx, gfrTrendWindow, 0)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Failed to load GFR history for trend")
		return nil
	}
	if len(priors) == 0 {
		return nil
	}

	// ListEstimates returns newest first; Analyze sorts by date itself.
	readings := make([]trend.Reading, 0, len(priors)+1)
	for _, prior := range priors {
		readings = append(readings, trend.Reading{Date: prior.CreatedAt, Value: prior.EGFR})
	}
	readings = append(readings, trend.Reading{Date: record.CreatedAt, Value: record.EGFR})

	analysis := trend.Analyze(readings)
	return &analysis
}
