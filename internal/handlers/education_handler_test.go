package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nephra/internal/common"
	"github.com/ternarybob/nephra/internal/models"
	"github.com/ternarybob/nephra/internal/services/education"
	"github.com/ternarybob/nephra/internal/storage/badger"
	"gopkg.in/yaml.v3"
)

// Test helper - newEducationTestHandler builds an education handler with
// fetching disabled so topics serve their curated summaries
func newEducationTestHandler(t *testing.T, topics ...models.EducationTopic) *EducationHandler {
	t.Helper()

	data, err := yaml.Marshal(models.EducationCatalog{Topics: topics})
	if err != nil {
		t.Fatalf("Failed to marshal catalog: %v", err)
	}
	catalogPath := filepath.Join(t.TempDir(), "education_topics.yaml")
	if err := os.WriteFile(catalogPath, data, 0644); err != nil {
		t.Fatalf("Failed to write catalog: %v", err)
	}

	logger := arbor.NewLogger()
	manager, err := badger.NewManager(logger, &common.BadgerConfig{
		Path: filepath.Join(t.TempDir(), "badger"),
	})
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { manager.Close() })

	service, err := education.NewService(&common.EducationConfig{
		CatalogPath:  catalogPath,
		FetchEnabled: false,
	}, manager.ArticleStorage(), logger)
	if err != nil {
		t.Fatalf("Failed to build education service: %v", err)
	}

	return NewEducationHandler(service, logger)
}

func testEducationTopic(id string) models.EducationTopic {
	return models.EducationTopic{
		ID:       id,
		Title:    "Understanding Kidney Function",
		URL:      "https://example.org/" + id,
		Source:   "Example Health",
		Category: "basics",
		Summary:  "Your kidneys filter waste from the blood. **Hydration** supports that work.",
	}
}

func TestListTopicsHandler_ReturnsCatalog(t *testing.T) {
	handler := newEducationTestHandler(t,
		testEducationTopic("kidney-basics"),
		testEducationTopic("hydration"),
	)

	req := httptest.NewRequest("GET", "/api/education", nil)
	rec := httptest.NewRecorder()
	handler.ListTopicsHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response struct {
		Topics []models.EducationTopic `json:"topics"`
		Count  int                     `json:"count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.Count != 2 {
		t.Errorf("Expected count 2, got %d", response.Count)
	}
	if len(response.Topics) != 2 || response.Topics[0].ID != "kidney-basics" {
		t.Errorf("Expected catalog order preserved, got %+v", response.Topics)
	}
}

func TestGetTopicHandler_RendersSummaryFallback(t *testing.T) {
	handler := newEducationTestHandler(t, testEducationTopic("kidney-basics"))

	req := httptest.NewRequest("GET", "/api/education/kidney-basics", nil)
	rec := httptest.NewRecorder()
	handler.GetTopicHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response["topic_id"] != "kidney-basics" {
		t.Errorf("Expected topic_id kidney-basics, got %v", response["topic_id"])
	}

	html, _ := response["content_html"].(string)
	if !strings.Contains(html, "<strong>Hydration</strong>") {
		t.Errorf("Expected rendered markdown emphasis, got %q", html)
	}
	if !strings.Contains(html, "<p>") {
		t.Errorf("Expected paragraph markup, got %q", html)
	}
}

func TestGetTopicHandler_UnknownTopic(t *testing.T) {
	handler := newEducationTestHandler(t, testEducationTopic("kidney-basics"))

	req := httptest.NewRequest("GET", "/api/education/no-such-topic", nil)
	rec := httptest.NewRecorder()
	handler.GetTopicHandler(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestExtractTopicID(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/api/education/kidney-basics", "kidney-basics"},
		{"/api/education/kidney-basics/", "kidney-basics"},
		{"/api/education", ""},
		{"/api/education/", ""},
		{"/other/path", ""},
	}

	for _, tt := range tests {
		if got := extractTopicID(tt.path); got != tt.expected {
			t.Errorf("extractTopicID(%q) = %q, expected %q", tt.path, got, tt.expected)
		}
	}
}
