package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/nephra/internal/ksls"
	"github.com/ternarybob/nephra/internal/models"
	"github.com/ternarybob/nephra/internal/narrative"
	"github.com/ternarybob/nephra/internal/renal"
	"github.com/ternarybob/nephra/internal/trend"
)

// formatScoreResult formats a computed score and its interpretation as markdown
func formatScoreResult(result ksls.Result, interp narrative.Interpretation) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Kidney Stress Load Score: %d (%s)\n\n", result.KSLS, result.Band))
	sb.WriteString(fmt.Sprintf("**BMI:** %.1f\n\n", result.BMI))

	sb.WriteString("### Factors\n\n")
	writeFactorLines(&sb, result.Factors)
	sb.WriteString("\n")

	writeInterpretation(&sb, interp)

	return sb.String()
}

// formatScoreRecord formats a stored score record as markdown
func formatScoreRecord(record *models.ScoreRecord) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Score %s\n\n", record.ID))
	sb.WriteString(fmt.Sprintf("**Recorded:** %s\n", record.CreatedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("**Score:** %d (%s)\n", record.Result.KSLS, record.Result.Band))
	sb.WriteString(fmt.Sprintf("**BMI:** %.1f\n\n", record.Result.BMI))

	sb.WriteString("## Factors\n\n")
	writeFactorLines(&sb, record.Result.Factors)
	sb.WriteString("\n")

	sb.WriteString("## Interpretation\n\n")
	writeInterpretation(&sb, record.Interpretation)

	return sb.String()
}

// formatGFREstimate formats an eGFR estimate and its stage as markdown
func formatGFREstimate(egfr float64, stage renal.Stage) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Estimated GFR: %.2f mL/min/1.73m²\n\n", egfr))
	sb.WriteString(fmt.Sprintf("**Stage:** %s\n\n", stage.Code))
	sb.WriteString(stage.Description)
	sb.WriteString("\n\n")
	sb.WriteString("This estimate is educational and is not a diagnosis. Kidney function is assessed by a clinician using laboratory results in context.\n")
	return sb.String()
}

// formatScoreHistory formats score records (oldest first) as a markdown table
// with a trend summary
func formatScoreHistory(records []*models.ScoreRecord, days int) string {
	var sb strings.Builder
	if days > 0 {
		sb.WriteString(fmt.Sprintf("## Score History - last %d days (%d records)\n\n", days, len(records)))
	} else {
		sb.WriteString(fmt.Sprintf("## Score History (%d records)\n\n", len(records)))
	}

	if len(records) == 0 {
		sb.WriteString("No scores recorded.\n")
		return sb.String()
	}

	sb.WriteString("| Recorded | Score | Band | Top factor |\n")
	sb.WriteString("|----------|-------|------|------------|\n")

	readings := make([]trend.Reading, len(records))
	for i, record := range records {
		topFactor := "-"
		if len(record.Interpretation.TopFactors) > 0 {
			topFactor = record.Interpretation.TopFactors[0]
		}
		sb.WriteString(fmt.Sprintf("| %s | %d | %s | %s |\n",
			record.CreatedAt.Format("2006-01-02 15:04"),
			record.Result.KSLS,
			record.Result.Band,
			topFactor,
		))
		readings[i] = trend.Reading{Date: record.CreatedAt, Value: float64(record.Result.KSLS)}
	}
	sb.WriteString("\n")

	analysis := trend.Analyze(readings)
	if analysis.Trend != trend.TrendInsufficient {
		sb.WriteString(fmt.Sprintf("**Trend:** score %s (%+.0f since previous reading, %s longer term)\n",
			scoreTrendWord(analysis.Trend),
			analysis.AbsoluteChange,
			scoreTrendWord(analysis.LongTermTrend),
		))
	} else {
		sb.WriteString("**Trend:** not enough history yet.\n")
	}

	return sb.String()
}

// writeFactorLines renders the normalized factor snapshot.
// Symptom factors may be nil, meaning the symptom was not reported.
func writeFactorLines(sb *strings.Builder, factors ksls.Factors) {
	sb.WriteString(fmt.Sprintf("- blood pressure: %.2f\n", factors.BloodPressure))
	sb.WriteString(fmt.Sprintf("- hydration: %.2f\n", factors.Hydration))
	sb.WriteString(fmt.Sprintf("- weight: %.2f\n", factors.Weight))
	writeSymptomLine(sb, "fatigue", factors.Fatigue)
	writeSymptomLine(sb, "pain", factors.Pain)
	writeSymptomLine(sb, "stress", factors.Stress)
}

func writeSymptomLine(sb *strings.Builder, name string, value *float64) {
	if value == nil {
		sb.WriteString(fmt.Sprintf("- %s: not reported\n", name))
		return
	}
	sb.WriteString(fmt.Sprintf("- %s: %.2f\n", name, *value))
}

// writeInterpretation renders the narrative paragraphs
func writeInterpretation(sb *strings.Builder, interp narrative.Interpretation) {
	sb.WriteString(interp.Summary)
	sb.WriteString("\n\n")
	if interp.Detail != "" {
		sb.WriteString(interp.Detail)
		sb.WriteString("\n\n")
	}
	if interp.Context != "" {
		sb.WriteString(interp.Context)
		sb.WriteString("\n\n")
	}
	sb.WriteString("_")
	sb.WriteString(interp.Disclaimer)
	sb.WriteString("_\n")
}

// scoreTrendWord maps a trend direction onto score wording. The trend
// package reports on raw values, where "improving" means the value rose;
// for a stress score a rising value is the concerning direction.
func scoreTrendWord(direction trend.Direction) string {
	switch direction {
	case trend.TrendImproving:
		return "rising"
	case trend.TrendDeclining:
		return "falling"
	case trend.TrendStable:
		return "stable"
	default:
		return "unclear"
	}
}
