package report

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nephra/internal/common"
	"github.com/ternarybob/nephra/internal/interfaces"
	"github.com/ternarybob/nephra/internal/services/summary"
	"github.com/ternarybob/nephra/internal/trend"
)

// Defaults applied when the reports config leaves settings unset.
const (
	DefaultMaxEntries = 30
	DefaultTitle      = "Kidney Stress Load Report"
)

// Service renders the stored score history as a markdown report and, via
// the PDF service, as a downloadable PDF.
type Service struct {
	scoreStorage   interfaces.ScoreStorage
	summaryService *summary.Service
	pdfService     interfaces.PDFService
	logger         arbor.ILogger
	maxEntries     int
	title          string
}

// Compile-time assertion
var _ interfaces.ReportService = (*Service)(nil)

// NewService creates a new report service
func NewService(
	scoreStorage interfaces.ScoreStorage,
	summaryService *summary.Service,
	pdfService interfaces.PDFService,
	logger arbor.ILogger,
	config *common.ReportsConfig,
) *Service {
	maxEntries := DefaultMaxEntries
	title := DefaultTitle
	if config != nil && config.MaxEntries > 0 {
		maxEntries = config.MaxEntries
	}
	if config != nil && config.Title != "" {
		title = config.Title
	}

	return &Service{
		scoreStorage:   scoreStorage,
		summaryService: summaryService,
		pdfService:     pdfService,
		logger:         logger,
		maxEntries:     maxEntries,
		title:          title,
	}
}

// ScoreReportMarkdown renders the report body as markdown.
func (s *Service) ScoreReportMarkdown(ctx context.Context) (string, error) {
	records, err := s.scoreStorage.ListScores(ctx, s.maxEntries, 0)
	if err != nil {
		return "", fmt.Errorf("failed to load score history: %w", err)
	}

	rollup, err := s.summaryService.Compute(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.title)
	fmt.Fprintf(&b, "Generated %s.\n\n", time.Now().Format("2 January 2006 15:04"))

	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "- Scores recorded in the last %d days: %d\n", rollup.WindowDays, rollup.ScoreCount)
	if rollup.ScoreCount > 0 {
		fmt.Fprintf(&b, "- Average score: %.1f\n", rollup.AverageKSLS)
		fmt.Fprintf(&b, "- Range: %d to %d\n", rollup.MinKSLS, rollup.MaxKSLS)
		fmt.Fprintf(&b, "- Latest: %d (%s)\n", rollup.LatestKSLS, rollup.LatestBand)
	}
	b.WriteString("\n")

	if len(records) == 0 {
		b.WriteString("No scores have been recorded yet.\n")
		return b.String(), nil
	}

	b.WriteString("## Readings\n\n")
	b.WriteString("| Date | Score | Band | BMI |\n")
	b.WriteString("|------|-------|------|-----|\n")
	// ListScores returns newest first; the table reads oldest to newest.
	for i := len(records) - 1; i >= 0; i-- {
		record := records[i]
		fmt.Fprintf(&b, "| %s | %d | %s | %.1f |\n",
			record.CreatedAt.Format("2006-01-02 15:04"),
			record.Result.KSLS,
			record.Result.Band,
			record.Result.BMI,
		)
	}
	b.WriteString("\n")

	b.WriteString("## Trend\n\n")
	b.WriteString(describeScoreTrend(rollup.Trend))
	b.WriteString("\n\n")

	latest := records[0]
	b.WriteString("## Latest interpretation\n\n")
	fmt.Fprintf(&b, "%s\n\n", latest.Interpretation.Summary)
	fmt.Fprintf(&b, "%s\n\n", latest.Interpretation.Detail)
	if latest.Interpretation.Context != "" {
		fmt.Fprintf(&b, "%s\n\n", latest.Interpretation.Context)
	}

	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "%s\n", latest.Interpretation.Disclaimer)

	return b.String(), nil
}

// ScoreReportPDF renders the report as a PDF byte slice.
func (s *Service) ScoreReportPDF(ctx context.Context) ([]byte, error) {
	markdown, err := s.ScoreReportMarkdown(ctx)
	if err != nil {
		return nil, err
	}

	pdfBytes, err := s.pdfService.ConvertMarkdownToPDF(markdown, s.title)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("pdf_size", len(pdfBytes)).
		Msg("Score report generated")

	return pdfBytes, nil
}

// describeScoreTrend phrases a score series for the report. The analysis
// reports raw direction of the values; for a stress score a rising series
// reads as "up", not "improving".
func describeScoreTrend(a trend.Analysis) string {
	if a.Trend == trend.TrendInsufficient {
		return "Not enough readings yet to describe a trend."
	}

	var b strings.Builder
	switch a.Trend {
	case trend.TrendImproving:
		fmt.Fprintf(&b, "Your latest score is up %.1f%% on the previous reading.", a.PercentChange)
	case trend.TrendDeclining:
		fmt.Fprintf(&b, "Your latest score is down %.1f%% on the previous reading.", math.Abs(a.PercentChange))
	default:
		b.WriteString("Your latest score is close to the previous reading.")
	}

	word := "holding steady"
	switch a.LongTermTrend {
	case trend.TrendImproving:
		word = "rising"
	case trend.TrendDeclining:
		word = "falling"
	}
	pattern := strings.ReplaceAll(string(a.Pattern), "_", " ")
	fmt.Fprintf(&b, " Across the window scores have been %s (%s, %d%% consistent).", word, pattern, a.PatternConfidence)

	fmt.Fprintf(&b, " %s", a.ClinicalSignificance)

	return b.String()
}
