package trend

import (
	"math"
	"testing"
	"time"
)

func day(n int) time.Time {
	return time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func series(values ...float64) []Reading {
	readings := make([]Reading, len(values))
	for i, v := range values {
		readings[i] = Reading{Date: day(i * 7), Value: v}
	}
	return readings
}

func TestAnalyze_GradualDecline(t *testing.T) {
	// Weekly eGFR readings drifting down. The last step is small enough
	// to read as stable while the series as a whole declines.
	analysis := Analyze(series(65.3, 64.1, 63.2, 62.6, 61.9))

	if analysis.Trend != TrendStable {
		t.Errorf("Trend = %v, want %v", analysis.Trend, TrendStable)
	}
	if analysis.AbsoluteChange != -0.7 {
		t.Errorf("AbsoluteChange = %v, want -0.7", analysis.AbsoluteChange)
	}
	// (61.9-62.6)/62.6*100 = -1.118 rounds to -1.1
	if analysis.PercentChange != -1.1 {
		t.Errorf("PercentChange = %v, want -1.1", analysis.PercentChange)
	}
	if analysis.LongTermTrend != TrendDeclining {
		t.Errorf("LongTermTrend = %v, want %v", analysis.LongTermTrend, TrendDeclining)
	}
	if analysis.Pattern != PatternConsistentDecline {
		t.Errorf("Pattern = %v, want %v", analysis.Pattern, PatternConsistentDecline)
	}
	if analysis.PatternConfidence != 100 {
		t.Errorf("PatternConfidence = %v, want 100", analysis.PatternConfidence)
	}
	// First to last is -5.2%, inside the moderate band.
	if analysis.ClinicalSignificance != "A moderate change worth monitoring over the coming weeks." {
		t.Errorf("ClinicalSignificance = %q", analysis.ClinicalSignificance)
	}
}

func TestAnalyze_Directions(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Direction
	}{
		{"rising step", []float64{50, 55}, TrendImproving},
		{"falling step", []float64{55, 50}, TrendDeclining},
		{"small step is stable", []float64{60, 60.9}, TrendStable},
		{"exact threshold declines", []float64{100, 98}, TrendDeclining},
		{"just inside threshold", []float64{100, 98.1}, TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Analyze(series(tt.values...)); got.Trend != tt.want {
				t.Errorf("Trend = %v, want %v", got.Trend, tt.want)
			}
		})
	}
}

func TestAnalyze_Patterns(t *testing.T) {
	tests := []struct {
		name           string
		values         []float64
		wantPattern    Pattern
		wantConfidence int
	}{
		{"all rising", []float64{40, 45, 50, 55}, PatternConsistentImprovement, 100},
		{"rising with a flat step", []float64{40, 45, 45, 55}, PatternConsistentImprovement, 67},
		{"flat series", []float64{60, 60, 60}, PatternStable, 100},
		{"wandering but level", []float64{60, 61.5, 59, 60.5}, PatternStable, 67},
		{"wandering and moving", []float64{60, 63, 59, 64}, PatternFluctuating, 67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(series(tt.values...))
			if got.Pattern != tt.wantPattern {
				t.Errorf("Pattern = %v, want %v", got.Pattern, tt.wantPattern)
			}
			if got.PatternConfidence != tt.wantConfidence {
				t.Errorf("PatternConfidence = %v, want %v", got.PatternConfidence, tt.wantConfidence)
			}
		})
	}
}

func TestAnalyze_ClinicalSignificanceBands(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   string
	}{
		{"large drop", []float64{60, 48}, "A change of this size is clinically meaningful; review the history with a care team."},
		{"moderate drop", []float64{60, 56}, "A moderate change worth monitoring over the coming weeks."},
		{"small drift", []float64{60, 58.9}, "Within expected reading-to-reading variation."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Analyze(series(tt.values...)); got.ClinicalSignificance != tt.want {
				t.Errorf("ClinicalSignificance = %q, want %q", got.ClinicalSignificance, tt.want)
			}
		})
	}
}

func TestAnalyze_SortsByDate(t *testing.T) {
	readings := []Reading{
		{Date: day(14), Value: 70},
		{Date: day(0), Value: 60},
		{Date: day(7), Value: 65},
	}

	analysis := Analyze(readings)

	// Sorted order is 60, 65, 70: latest step is 65 -> 70.
	if analysis.Trend != TrendImproving {
		t.Errorf("Trend = %v, want %v", analysis.Trend, TrendImproving)
	}
	if analysis.AbsoluteChange != 5 {
		t.Errorf("AbsoluteChange = %v, want 5", analysis.AbsoluteChange)
	}
	if readings[0].Value != 70 {
		t.Error("Analyze should not reorder the caller's slice")
	}
}

func TestAnalyze_InsufficientData(t *testing.T) {
	for _, readings := range [][]Reading{nil, {}, series(62.5)} {
		analysis := Analyze(readings)
		if analysis.Trend != TrendInsufficient {
			t.Errorf("Trend = %v, want %v", analysis.Trend, TrendInsufficient)
		}
		if analysis.Pattern != PatternInsufficient {
			t.Errorf("Pattern = %v, want %v", analysis.Pattern, PatternInsufficient)
		}
		if analysis.PatternConfidence != 0 {
			t.Errorf("PatternConfidence = %v, want 0", analysis.PatternConfidence)
		}
	}
}

func TestAnalyze_ZeroBaseline(t *testing.T) {
	analysis := Analyze(series(0, 5))

	if analysis.Trend != TrendImproving {
		t.Errorf("Trend = %v, want %v", analysis.Trend, TrendImproving)
	}
	if analysis.PercentChange != 0 {
		t.Errorf("PercentChange = %v, want 0 against a zero baseline", analysis.PercentChange)
	}
}

func TestAnalyze_TrendDescriptionCarriesMagnitude(t *testing.T) {
	analysis := Analyze(series(50, 55))

	want := "Latest reading is up 10.0% on the previous one."
	if analysis.TrendDescription != want {
		t.Errorf("TrendDescription = %q, want %q", analysis.TrendDescription, want)
	}
}

func TestAnalyze_RoundsChanges(t *testing.T) {
	analysis := Analyze(series(3.333, 3.444))

	if math.Abs(analysis.AbsoluteChange-0.11) > 1e-9 {
		t.Errorf("AbsoluteChange = %v, want 0.11", analysis.AbsoluteChange)
	}
	// (3.444-3.333)/3.333*100 = 3.33%
	if math.Abs(analysis.PercentChange-3.3) > 1e-9 {
		t.Errorf("PercentChange = %v, want 3.3", analysis.PercentChange)
	}
}
