package summary

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nephra/internal/common"
	"github.com/ternarybob/nephra/internal/interfaces"
	"github.com/ternarybob/nephra/internal/ksls"
	"github.com/ternarybob/nephra/internal/models"
	"github.com/ternarybob/nephra/internal/storage/badger"
	"github.com/ternarybob/nephra/internal/trend"
)

// Test helper - newTestService creates a summary service backed by a
// throwaway Badger store
func newTestService(t *testing.T) (*Service, interfaces.StorageManager) {
	t.Helper()

	logger := arbor.NewLogger()
	manager, err := badger.NewManager(logger, &common.BadgerConfig{
		Path: filepath.Join(t.TempDir(), "badger"),
	})
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { manager.Close() })

	service := NewService(manager.ScoreStorage(), manager.SummaryStorage(), nil, logger, nil)
	return service, manager
}

// Test helper - seedScore stores a score record with the given age and value
func seedScore(t *testing.T, manager interfaces.StorageManager, index int, daysAgo int, score int, band ksls.Band) {
	t.Helper()

	record := &models.ScoreRecord{
		ID:        fmt.Sprintf("score-%d", index),
		CreatedAt: time.Now().AddDate(0, 0, -daysAgo),
		Input:     ksls.Input{Systolic: 120, Diastolic: 80, HeightCm: 170, WeightKg: 70},
		Result:    ksls.Result{KSLS: score, Band: band, BMI: 24.2},
	}
	if err := manager.ScoreStorage().StoreScore(context.Background(), record); err != nil {
		t.Fatalf("Failed to seed score: %v", err)
	}
}

func TestCompute_EmptyHistory(t *testing.T) {
	service, _ := newTestService(t)

	summary, err := service.Compute(context.Background())
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if summary.ScoreCount != 0 {
		t.Errorf("Expected zero score count, got %d", summary.ScoreCount)
	}
	if summary.AverageKSLS != 0 {
		t.Errorf("Expected zero average, got %.1f", summary.AverageKSLS)
	}
	if summary.Trend.Trend != trend.TrendInsufficient {
		t.Errorf("Expected insufficient-data trend, got %s", summary.Trend.Trend)
	}
	if summary.WindowDays != DefaultWindowDays {
		t.Errorf("Expected window of %d days, got %d", DefaultWindowDays, summary.WindowDays)
	}
	if summary.ID == "" {
		t.Error("Expected summary ID to be assigned")
	}
}

func TestCompute_AggregatesWindow(t *testing.T) {
	service, manager := newTestService(t)

	seedScore(t, manager, 1, 6, 30, ksls.BandStable)
	seedScore(t, manager, 2, 4, 40, ksls.BandElevated)
	seedScore(t, manager, 3, 2, 55, ksls.BandElevated)
	// Outside the 30-day window, must not count.
	seedScore(t, manager, 4, 45, 90, ksls.BandHigh)

	summary, err := service.Compute(context.Background())
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if summary.ScoreCount != 3 {
		t.Fatalf("Expected 3 scores in window, got %d", summary.ScoreCount)
	}
	if summary.AverageKSLS != 41.7 {
		t.Errorf("Expected average 41.7, got %.1f", summary.AverageKSLS)
	}
	if summary.MinKSLS != 30 || summary.MaxKSLS != 55 {
		t.Errorf("Expected range 30-55, got %d-%d", summary.MinKSLS, summary.MaxKSLS)
	}
	if summary.LatestKSLS != 55 {
		t.Errorf("Expected latest score 55, got %d", summary.LatestKSLS)
	}
	if summary.LatestBand != ksls.BandElevated {
		t.Errorf("Expected latest band elevated, got %s", summary.LatestBand)
	}
	if summary.BandCounts[ksls.BandStable] != 1 || summary.BandCounts[ksls.BandElevated] != 2 {
		t.Errorf("Unexpected band counts: %v", summary.BandCounts)
	}
	if summary.BandCounts[ksls.BandHigh] != 0 {
		t.Errorf("Out-of-window score leaked into band counts: %v", summary.BandCounts)
	}
	// Scores rose 30 -> 55 over the window.
	if summary.Trend.Trend != trend.TrendImproving {
		t.Errorf("Expected improving trend direction, got %s", summary.Trend.Trend)
	}
}

func TestRecord_PersistsSummary(t *testing.T) {
	service, manager := newTestService(t)

	seedScore(t, manager, 1, 3, 20, ksls.BandStable)
	seedScore(t, manager, 2, 1, 25, ksls.BandStable)

	recorded, err := service.Record(context.Background())
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	latest, err := service.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}

	if latest.ID != recorded.ID {
		t.Errorf("Expected latest summary %s, got %s", recorded.ID, latest.ID)
	}
	if latest.ScoreCount != 2 {
		t.Errorf("Expected 2 scores, got %d", latest.ScoreCount)
	}
}

func TestRecord_PrunesBeyondRetention(t *testing.T) {
	service, manager := newTestService(t)
	service.retain = 2

	seedScore(t, manager, 1, 1, 20, ksls.BandStable)

	for i := 0; i < 4; i++ {
		if _, err := service.Record(context.Background()); err != nil {
			t.Fatalf("Record %d failed: %v", i, err)
		}
	}

	count, err := manager.SummaryStorage().CountSummaries(context.Background())
	if err != nil {
		t.Fatalf("CountSummaries failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 summaries after pruning, got %d", count)
	}
}

func TestLatest_EmptyStoreErrors(t *testing.T) {
	service, _ := newTestService(t)

	if _, err := service.Latest(context.Background()); err == nil {
		t.Error("Expected error when no summaries are stored")
	}
}
