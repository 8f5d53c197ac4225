// Package trend analyzes a series of timestamped readings and reports
// short-term movement, long-term movement, and the shape of the series.
// It is generic over what the values mean: eGFR histories and stress
// score histories both pass through here.
package trend

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Direction labels movement between two readings. Improving means the
// value rose; callers decide what a rising value means for their metric.
type Direction string

const (
	TrendImproving    Direction = "improving"
	TrendStable       Direction = "stable"
	TrendDeclining    Direction = "declining"
	TrendInsufficient Direction = "insufficient_data"
)

// Pattern labels the shape of the whole series.
type Pattern string

const (
	PatternConsistentDecline     Pattern = "consistent_decline"
	PatternConsistentImprovement Pattern = "consistent_improvement"
	PatternFluctuating           Pattern = "fluctuating"
	PatternStable                Pattern = "stable"
	PatternInsufficient          Pattern = "insufficient_data"
)

// Change thresholds in percent. Movement below the stable threshold is
// reported as stable; the other two key the clinical significance text.
const (
	StableThresholdPercent   = 2.0
	ModerateChangePercent    = 5.0
	SignificantChangePercent = 10.0
)

// Reading is one timestamped value.
type Reading struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Analysis summarizes a series. Short-term fields compare the latest
// reading to the one before it; long-term fields compare it to the
// earliest reading.
type Analysis struct {
	Trend                Direction `json:"trend"`
	TrendDescription     string    `json:"trend_description"`
	AbsoluteChange       float64   `json:"absolute_change"`
	PercentChange        float64   `json:"percent_change"`
	LongTermTrend        Direction `json:"long_term_trend"`
	Pattern              Pattern   `json:"pattern"`
	PatternConfidence    int       `json:"pattern_confidence"`
	ClinicalSignificance string    `json:"clinical_significance"`
}

// Analyze sorts the readings by date and summarizes the series. It never
// fails: fewer than two readings yields an insufficient-data analysis.
// The input slice is not modified.
func Analyze(readings []Reading) Analysis {
	if len(readings) < 2 {
		return Analysis{
			Trend:                TrendInsufficient,
			TrendDescription:     "At least two readings are needed for trend analysis.",
			LongTermTrend:        TrendInsufficient,
			Pattern:              PatternInsufficient,
			ClinicalSignificance: "Not enough history to assess change.",
		}
	}

	sorted := make([]Reading, len(readings))
	copy(sorted, readings)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	values := make([]float64, len(sorted))
	for i, reading := range sorted {
		values[i] = reading.Value
	}

	first := values[0]
	previous := values[len(values)-2]
	current := values[len(values)-1]

	direction := classify(previous, current)
	pct := percentChange(previous, current)
	pattern, confidence := detectPattern(values)

	return Analysis{
		Trend:                direction,
		TrendDescription:     describe(direction, pct),
		AbsoluteChange:       math.Round((current-previous)*100) / 100,
		PercentChange:        math.Round(pct*10) / 10,
		LongTermTrend:        classify(first, current),
		Pattern:              pattern,
		PatternConfidence:    confidence,
		ClinicalSignificance: significance(percentChange(first, current)),
	}
}

// classify compares two values against the stable threshold.
func classify(previous, current float64) Direction {
	if previous == 0 {
		switch {
		case current > 0:
			return TrendImproving
		case current < 0:
			return TrendDeclining
		default:
			return TrendStable
		}
	}

	pct := percentChange(previous, current)
	switch {
	case math.Abs(pct) < StableThresholdPercent:
		return TrendStable
	case pct > 0:
		return TrendImproving
	default:
		return TrendDeclining
	}
}

// percentChange is relative to the magnitude of the earlier value so the
// sign always follows the direction of movement. A zero baseline yields
// zero.
func percentChange(previous, current float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / math.Abs(previous) * 100
}

// detectPattern walks the successive deltas. A series is consistent when
// every step moves the same way (flat steps allowed), stable when the
// endpoints sit within the stable threshold, fluctuating otherwise.
// Confidence is the share of steps agreeing with the dominant direction.
func detectPattern(values []float64) (Pattern, int) {
	ups, downs, flats := 0, 0, 0
	for i := 1; i < len(values); i++ {
		switch {
		case values[i] > values[i-1]:
			ups++
		case values[i] < values[i-1]:
			downs++
		default:
			flats++
		}
	}

	intervals := ups + downs + flats
	dominant := ups
	if downs > dominant {
		dominant = downs
	}
	if flats > dominant {
		dominant = flats
	}
	confidence := int(math.Round(float64(dominant) / float64(intervals) * 100))

	switch {
	case downs > 0 && ups == 0:
		return PatternConsistentDecline, confidence
	case ups > 0 && downs == 0:
		return PatternConsistentImprovement, confidence
	case math.Abs(percentChange(values[0], values[len(values)-1])) < StableThresholdPercent:
		return PatternStable, confidence
	default:
		return PatternFluctuating, confidence
	}
}

func describe(direction Direction, pct float64) string {
	switch direction {
	case TrendImproving:
		return fmt.Sprintf("Latest reading is up %.1f%% on the previous one.", math.Abs(pct))
	case TrendDeclining:
		return fmt.Sprintf("Latest reading is down %.1f%% on the previous one.", math.Abs(pct))
	default:
		return "Latest reading is within normal variation of the previous one."
	}
}

func significance(longTermPct float64) string {
	abs := math.Abs(longTermPct)
	switch {
	case abs >= SignificantChangePercent:
		return "A change of this size is clinically meaningful; review the history with a care team."
	case abs >= ModerateChangePercent:
		return "A moderate change worth monitoring over the coming weeks."
	default:
		return "Within expected reading-to-reading variation."
	}
}
