package handlers

import (
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nephra/internal/models"
	"github.com/ternarybob/nephra/internal/services/education"
)

// EducationHandler serves the curated education topic catalog
type EducationHandler struct {
	educationService *education.Service
	logger           arbor.ILogger
}

// NewEducationHandler creates a new education handler with dependencies
func NewEducationHandler(educationService *education.Service, logger arbor.ILogger) *EducationHandler {
	return &EducationHandler{
		educationService: educationService,
		logger:           logger,
	}
}

type educationArticleResponse struct {
	*models.EducationArticle
	ContentHTML string `json:"content_html"`
}

// ListTopicsHandler handles GET /api/education
func (h *EducationHandler) ListTopicsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	topics := h.educationService.Topics()
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"topics": topics,
		"count":  len(topics),
	})
}

// GetTopicHandler handles GET /api/education/{id}
func (h *EducationHandler) GetTopicHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	topicID := extractTopicID(r.URL.Path)
	if topicID == "" {
		WriteError(w, http.StatusBadRequest, "Topic ID is required")
		return
	}

	article, err := h.educationService.Article(r.Context(), topicID)
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	html, err := h.educationService.RenderHTML(article.ContentMarkdown)
	if err != nil {
		h.logger.Error().Err(err).Str("topic_id", topicID).Msg("Failed to render article HTML")
		WriteError(w, http.StatusInternalServerError, "Failed to render article")
		return
	}

	WriteJSON(w, http.StatusOK, educationArticleResponse{
		EducationArticle: article,
		ContentHTML:      html,
	})
}

// extractTopicID pulls the topic ID from a path like "/api/education/{id}"
func extractTopicID(path string) string {
	path = strings.TrimSuffix(path, "/")

	parts := strings.Split(path, "/")
	if len(parts) >= 4 && parts[1] == "api" && parts[2] == "education" {
		return parts[3]
	}

	return ""
}
