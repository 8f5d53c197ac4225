package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nephra/internal/common"
	"github.com/ternarybob/nephra/internal/interfaces"
	"github.com/ternarybob/nephra/internal/models"
	"github.com/ternarybob/nephra/internal/renal"
	"github.com/ternarybob/nephra/internal/storage/badger"
	"github.com/ternarybob/nephra/internal/trend"
)

// Test helper - newGFRTestHandler builds a GFR handler over a throwaway
// Badger store
func newGFRTestHandler(t *testing.T) (*GFRHandler, interfaces.StorageManager) {
	t.Helper()

	logger := arbor.NewLogger()
	manager, err := badger.NewManager(logger, &common.BadgerConfig{
		Path: filepath.Join(t.TempDir(), "badger"),
	})
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { manager.Close() })

	handler := NewGFRHandler(manager.GFRStorage(), nil, logger)
	return handler, manager
}

// Test helper - seedEstimate stores a GFR record with the given age and value
func seedEstimate(t *testing.T, manager interfaces.StorageManager, index int, daysAgo int, egfr float64) {
	t.Helper()

	record := &models.GFRRecord{
		ID:              fmt.Sprintf("gfr-%d", index),
		CreatedAt:       time.Now().AddDate(0, 0, -daysAgo),
		Age:             54,
		SexAtBirth:      "female",
		SerumCreatinine: 1.1,
		EGFR:            egfr,
		Stage:           renal.InterpretGFR(egfr),
	}
	if err := manager.GFRStorage().StoreEstimate(context.Background(), record); err != nil {
		t.Fatalf("Failed to seed estimate: %v", err)
	}
}

func TestEstimateGFRHandler_RecordsEstimate(t *testing.T) {
	handler, manager := newGFRTestHandler(t)

	body := `{"age": 54, "sex_at_birth": "female", "serum_creatinine": 1.1}`
	req := httptest.NewRequest("POST", "/api/gfr", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.EstimateGFRHandler(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var record models.GFRRecord
	if err := json.NewDecoder(rec.Body).Decode(&record); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if !strings.HasPrefix(record.ID, "gfr_") {
		t.Errorf("Expected gfr_ ID prefix, got %q", record.ID)
	}

	expected, err := renal.EstimateGFR(54, "female", 1.1)
	if err != nil {
		t.Fatalf("EstimateGFR failed: %v", err)
	}
	if record.EGFR != expected {
		t.Errorf("Expected eGFR %v, got %v", expected, record.EGFR)
	}
	if record.Stage.Code != renal.InterpretGFR(expected).Code {
		t.Errorf("Expected stage %s, got %s", renal.InterpretGFR(expected).Code, record.Stage.Code)
	}
	if record.Trend != nil {
		t.Error("Expected no trend on the first estimate")
	}

	count, err := manager.GFRStorage().CountEstimates(context.Background())
	if err != nil {
		t.Fatalf("Failed to count estimates: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 stored estimate, got %d", count)
	}
}

func TestEstimateGFRHandler_AttachesTrend(t *testing.T) {
	handler, manager := newGFRTestHandler(t)

	// Prior estimate well below what a 30 year old with low creatinine
	// will score, so the new reading trends upward
	seedEstimate(t, manager, 1, 30, 60.0)

	body := `{"age": 30, "sex_at_birth": "female", "serum_creatinine": 0.7}`
	req := httptest.NewRequest("POST", "/api/gfr", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.EstimateGFRHandler(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var record models.GFRRecord
	if err := json.NewDecoder(rec.Body).Decode(&record); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if record.Trend == nil {
		t.Fatal("Expected trend analysis with a prior estimate on file")
	}
	if record.Trend.Trend != trend.TrendImproving {
		t.Errorf("Expected improving trend, got %s", record.Trend.Trend)
	}
	if record.Trend.AbsoluteChange <= 0 {
		t.Errorf("Expected positive change, got %v", record.Trend.AbsoluteChange)
	}
}

func TestEstimateGFRHandler_ValidationFailure(t *testing.T) {
	handler, manager := newGFRTestHandler(t)

	body := `{"sex_at_birth": "male", "serum_creatinine": 1.0}`
	req := httptest.NewRequest("POST", "/api/gfr", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.EstimateGFRHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	count, _ := manager.GFRStorage().CountEstimates(context.Background())
	if count != 0 {
		t.Errorf("Expected no stored estimates after rejection, got %d", count)
	}
}

func TestEstimateGFRHandler_InvalidBody(t *testing.T) {
	handler, _ := newGFRTestHandler(t)

	req := httptest.NewRequest("POST", "/api/gfr", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	handler.EstimateGFRHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestListGFRHandler_PaginatesNewestFirst(t *testing.T) {
	handler, manager := newGFRTestHandler(t)

	seedEstimate(t, manager, 1, 3, 58.2)
	seedEstimate(t, manager, 2, 2, 61.4)
	seedEstimate(t, manager, 3, 1, 63.9)

	req := httptest.NewRequest("GET", "/api/gfr?limit=2", nil)
	rec := httptest.NewRecorder()
	handler.ListGFRHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response struct {
		Estimates  []models.GFRRecord `json:"estimates"`
		Pagination PaginationResponse `json:"pagination"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(response.Estimates) != 2 {
		t.Fatalf("Expected 2 estimates, got %d", len(response.Estimates))
	}
	if response.Estimates[0].ID != "gfr-3" {
		t.Errorf("Expected newest estimate first, got %s", response.Estimates[0].ID)
	}
	if response.Pagination.TotalItems != 3 {
		t.Errorf("Expected total 3, got %d", response.Pagination.TotalItems)
	}
}
