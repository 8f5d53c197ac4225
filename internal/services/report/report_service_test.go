package report

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nephra/internal/common"
	"github.com/ternarybob/nephra/internal/interfaces"
	"github.com/ternarybob/nephra/internal/ksls"
	"github.com/ternarybob/nephra/internal/models"
	"github.com/ternarybob/nephra/internal/narrative"
	"github.com/ternarybob/nephra/internal/services/pdf"
	"github.com/ternarybob/nephra/internal/services/summary"
	"github.com/ternarybob/nephra/internal/storage/badger"
	"github.com/ternarybob/nephra/internal/trend"
)

// Test helper - newTestService wires a report service over a throwaway store
func newTestService(t *testing.T, config *common.ReportsConfig) (*Service, interfaces.StorageManager) {
	t.Helper()

	logger := arbor.NewLogger()
	manager, err := badger.NewManager(logger, &common.BadgerConfig{
		Path: filepath.Join(t.TempDir(), "badger"),
	})
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { manager.Close() })

	summaryService := summary.NewService(manager.ScoreStorage(), manager.SummaryStorage(), nil, logger, nil)
	service := NewService(manager.ScoreStorage(), summaryService, pdf.NewService(logger), logger, config)
	return service, manager
}

// Test helper - seedScore stores a score record with interpretation text
func seedScore(t *testing.T, manager interfaces.StorageManager, index int, daysAgo int, score int, band ksls.Band) {
	t.Helper()

	record := &models.ScoreRecord{
		ID:        fmt.Sprintf("score-%d", index),
		CreatedAt: time.Now().AddDate(0, 0, -daysAgo),
		Input:     ksls.Input{Systolic: 128, Diastolic: 82, HeightCm: 170, WeightKg: 70},
		Result:    ksls.Result{KSLS: score, Band: band, BMI: 24.2},
		Interpretation: narrative.Interpretation{
			Summary:    "Your kidney stress load is moderately elevated today.",
			Detail:     "Your main contributor today is blood pressure.",
			Disclaimer: "This tool does not provide medical advice.",
			TopFactors: []string{"blood pressure"},
		},
	}
	if err := manager.ScoreStorage().StoreScore(context.Background(), record); err != nil {
		t.Fatalf("Failed to seed score: %v", err)
	}
}

func TestScoreReportMarkdown_EmptyHistory(t *testing.T) {
	service, _ := newTestService(t, nil)

	markdown, err := service.ScoreReportMarkdown(context.Background())
	if err != nil {
		t.Fatalf("ScoreReportMarkdown failed: %v", err)
	}

	if !strings.Contains(markdown, "# "+DefaultTitle) {
		t.Errorf("Expected default title heading, got:\n%s", markdown)
	}
	if !strings.Contains(markdown, "No scores have been recorded yet.") {
		t.Errorf("Expected empty-history notice, got:\n%s", markdown)
	}
	if strings.Contains(markdown, "## Readings") {
		t.Error("Empty report must not include a readings table")
	}
}

func TestScoreReportMarkdown_WithHistory(t *testing.T) {
	service, manager := newTestService(t, &common.ReportsConfig{Title: "Weekly Kidney Report"})

	seedScore(t, manager, 1, 5, 30, ksls.BandStable)
	seedScore(t, manager, 2, 3, 42, ksls.BandElevated)
	seedScore(t, manager, 3, 1, 55, ksls.BandElevated)

	markdown, err := service.ScoreReportMarkdown(context.Background())
	if err != nil {
		t.Fatalf("ScoreReportMarkdown failed: %v", err)
	}

	for _, want := range []string{
		"# Weekly Kidney Report",
		"- Average score: 42.3",
		"- Range: 30 to 55",
		"- Latest: 55 (elevated)",
		"| Date | Score | Band | BMI |",
		"## Trend",
		"Your kidney stress load is moderately elevated today.",
		"This tool does not provide medical advice.",
	} {
		if !strings.Contains(markdown, want) {
			t.Errorf("Expected report to contain %q, got:\n%s", want, markdown)
		}
	}

	// The table reads oldest to newest.
	first := strings.Index(markdown, "| 30 |")
	last := strings.Index(markdown, "| 55 |")
	if first == -1 || last == -1 || first > last {
		t.Errorf("Expected readings ordered oldest first, got:\n%s", markdown)
	}
}

func TestScoreReportMarkdown_CapsEntries(t *testing.T) {
	service, manager := newTestService(t, &common.ReportsConfig{MaxEntries: 2})

	seedScore(t, manager, 1, 5, 30, ksls.BandStable)
	seedScore(t, manager, 2, 3, 42, ksls.BandElevated)
	seedScore(t, manager, 3, 1, 55, ksls.BandElevated)

	markdown, err := service.ScoreReportMarkdown(context.Background())
	if err != nil {
		t.Fatalf("ScoreReportMarkdown failed: %v", err)
	}

	if strings.Contains(markdown, "| 30 |") {
		t.Errorf("Expected oldest reading dropped from capped table, got:\n%s", markdown)
	}
	if !strings.Contains(markdown, "| 42 |") || !strings.Contains(markdown, "| 55 |") {
		t.Errorf("Expected the two newest readings in table, got:\n%s", markdown)
	}
}

func TestScoreReportPDF(t *testing.T) {
	service, manager := newTestService(t, nil)

	seedScore(t, manager, 1, 2, 30, ksls.BandStable)
	seedScore(t, manager, 2, 1, 42, ksls.BandElevated)

	pdfBytes, err := service.ScoreReportPDF(context.Background())
	if err != nil {
		t.Fatalf("ScoreReportPDF failed: %v", err)
	}
	if len(pdfBytes) < 4 || string(pdfBytes[:4]) != "%PDF" {
		t.Error("Expected PDF output")
	}
}

func TestDescribeScoreTrend(t *testing.T) {
	tests := []struct {
		name     string
		analysis trend.Analysis
		want     string
	}{
		{
			name:     "insufficient data",
			analysis: trend.Analysis{Trend: trend.TrendInsufficient},
			want:     "Not enough readings yet",
		},
		{
			name: "rising score reads as up",
			analysis: trend.Analysis{
				Trend:                trend.TrendImproving,
				PercentChange:        12.5,
				LongTermTrend:        trend.TrendImproving,
				Pattern:              trend.PatternFluctuating,
				PatternConfidence:    67,
				ClinicalSignificance: "A moderate change worth monitoring over the coming weeks.",
			},
			want: "up 12.5%",
		},
		{
			name: "falling score reads as down",
			analysis: trend.Analysis{
				Trend:                trend.TrendDeclining,
				PercentChange:        -8.0,
				LongTermTrend:        trend.TrendDeclining,
				Pattern:              trend.PatternConsistentDecline,
				PatternConfidence:    100,
				ClinicalSignificance: "A moderate change worth monitoring over the coming weeks.",
			},
			want: "down 8.0%",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := describeScoreTrend(tt.analysis)
			if !strings.Contains(got, tt.want) {
				t.Errorf("describeScoreTrend() = %q, want substring %q", got, tt.want)
			}
		})
	}
}
