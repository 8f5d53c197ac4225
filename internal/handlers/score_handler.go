package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nephra/internal/common"
	"github.com/ternarybob/nephra/internal/interfaces"
	"github.com/ternarybob/nephra/internal/ksls"
	"github.com/ternarybob/nephra/internal/models"
	"github.com/ternarybob/nephra/internal/narrative"
	"github.com/ternarybob/nephra/internal/services/summary"
)

// ScoreHandler handles score submission and history endpoints
type ScoreHandler struct {
	scoreStorage   interfaces.ScoreStorage
	summaryService *summary.Service
	eventService   interfaces.EventService
	logger         arbor.ILogger
}

// NewScoreHandler creates a new score handler with dependencies
func NewScoreHandler(
	scoreStorage interfaces.ScoreStorage,
	summaryService *summary.Service,
	eventService interfaces.EventService,
	logger arbor.ILogger,
) *ScoreHandler {
	return &ScoreHandler{
		scoreStorage:   scoreStorage,
		summaryService: summaryService,
		eventService:   eventService,
		logger:         logger,
	}
}

// SubmitScoreHandler handles POST /api/scores
func (h *ScoreHandler) SubmitScoreHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req models.ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse score request body")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	input := req.ToInput()
	result := ksls.Calculate(input)
	interpretation := narrative.Interpret(result, req.ToDemographics())

	record := &models.ScoreRecord{
		ID:             common.NewScoreID(),
		CreatedAt:      time.Now(),
		Input:          input,
		Demographics:   req.ToDemographics(),
		Result:         result,
		Interpretation: interpretation,
	}

	if err := h.scoreStorage.StoreScore(r.Context(), record); err != nil {
		h.logger.Error().Err(err).Msg("Failed to store score")
		WriteError(w, http.StatusInternalServerError, "Failed to store score")
		return
	}

	h.logger.Info().
		Str("score_id", record.ID).
		Int("ksls", result.KSLS).
		Str("band", string(result.Band)).
		Msg("Score recorded")

	if h.eventService != nil {
		event := interfaces.Event{Type: interfaces.EventScoreRecorded, Payload: record}
		// Publish detached from the request context so a closed connection
		// cannot cancel delivery.
		if err := h.eventService.Publish(context.Background(), event); err != nil {
			h.logger.Warn().Err(err).Msg("Failed to publish score event")
		}
	}

	WriteJSON(w, http.StatusCreated, record)
}

// ListScoresHandler handles GET /api/scores
func (h *ScoreHandler) ListScoresHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	limit, offset := GetLimitOffset(r)

	records, err := h.scoreStorage.ListScores(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list scores")
		WriteError(w, http.StatusInternalServerError, "Failed to list scores")
		return
	}

	total, err := h.scoreStorage.CountScores(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to count scores")
		WriteError(w, http.StatusInternalServerError, "Failed to count scores")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"scores": records,
		"pagination": PaginationResponse{
			Limit:      limit,
			Offset:     offset,
			TotalItems: total,
		},
	})
}

// GetScoreHandler handles GET /api/scores/{id}. Method dispatch happens in
// the item router, so there is no method check here.
func (h *ScoreHandler) GetScoreHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/scores/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Score ID is required")
		return
	}

	record, err := h.scoreStorage.GetScore(r.Context(), id)
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, record)
}

// DeleteScoreHandler handles DELETE /api/scores/{id}
func (h *ScoreHandler) DeleteScoreHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/scores/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Score ID is required")
		return
	}

	if err := h.scoreStorage.DeleteScore(r.Context(), id); err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	h.logger.Info().Str("score_id", id).Msg("Score deleted")
	WriteSuccess(w, "Score deleted")
}

// ScoreSummaryHandler handles GET /api/scores/summary
func (h *ScoreHandler) ScoreSummaryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	rollup, err := h.summaryService.Compute(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to compute score summary")
		WriteError(w, http.StatusInternalServerError, "Failed to compute score summary")
		return
	}

	WriteJSON(w, http.StatusOK, rollup)
}
