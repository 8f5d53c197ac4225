// -----------------------------------------------------------------------
// Last Modified: Wednesday, 5th August 2026 8:40:00 am
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package summary

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nephra/internal/common"
	"github.com/ternarybob/nephra/internal/interfaces"
	"github.com/ternarybob/nephra/internal/ksls"
	"github.com/ternarybob/nephra/internal/models"
	"github.com/ternarybob/nephra/internal/trend"
)

// Defaults applied when the scheduler config leaves rollup settings unset.
const (
	DefaultWindowDays      = 30
	DefaultRetainSummaries = 90
)

// Service rolls the stored score history up into daily summaries. The
// summary endpoint computes one on demand; the scheduler persists one
// nightly and publishes a summary-updated event.
type Service struct {
	scoreStorage   interfaces.ScoreStorage
	summaryStorage interfaces.SummaryStorage
	eventService   interfaces.EventService
	logger         arbor.ILogger
	windowDays     int
	retain         int
}

// NewService creates a new summary service
func NewService(
	scoreStorage interfaces.ScoreStorage,
	summaryStorage interfaces.SummaryStorage,
	eventService interfaces.EventService,
	logger arbor.ILogger,
	config *common.SchedulerConfig,
) *Service {
	windowDays := DefaultWindowDays
	retain := DefaultRetainSummaries
	if config != nil && config.SummaryWindowDays > 0 {
		windowDays = config.SummaryWindowDays
	}
	if config != nil && config.RetainSummaries > 0 {
		retain = config.RetainSummaries
	}

	return &Service{
		scoreStorage:   scoreStorage,
		summaryStorage: summaryStorage,
		eventService:   eventService,
		logger:         logger,
		windowDays:     windowDays,
		retain:         retain,
	}
}

// Compute builds a rollup over the scores recorded in the window. An
// empty history yields a summary with zero counts and an
// insufficient-data trend, not an error.
func (s *Service) Compute(ctx context.Context) (*models.DailySummary, error) {
	since := time.Now().AddDate(0, 0, -s.windowDays)
	records, err := s.scoreStorage.ListScoresSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load score history: %w", err)
	}

	summary := &models.DailySummary{
		ID:          common.NewSummaryID(),
		GeneratedAt: time.Now(),
		WindowDays:  s.windowDays,
		ScoreCount:  len(records),
		BandCounts:  make(map[ksls.Band]int),
	}

	readings := make([]trend.Reading, len(records))
	total := 0
	for i, record := range records {
		readings[i] = trend.Reading{Date: record.CreatedAt, Value: float64(record.Result.KSLS)}
		total += record.Result.KSLS
		summary.BandCounts[record.Result.Band]++

		if i == 0 || record.Result.KSLS < summary.MinKSLS {
			summary.MinKSLS = record.Result.KSLS
		}
		if record.Result.KSLS > summary.MaxKSLS {
			summary.MaxKSLS = record.Result.KSLS
		}
	}

	if len(records) > 0 {
		latest := records[len(records)-1]
		summary.AverageKSLS = math.Round(float64(total)/float64(len(records))*10) / 10
		summary.LatestKSLS = latest.Result.KSLS
		summary.LatestBand = latest.Result.Band
	}
	summary.Trend = trend.Analyze(readings)

	return summary, nil
}

// Record computes a rollup, persists it, and publishes a summary-updated
// event.
func (s *Service) Record(ctx context.Context) (*models.DailySummary, error) {
	summary, err := s.Compute(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.summaryStorage.StoreSummary(ctx, summary); err != nil {
		return nil, fmt.Errorf("failed to persist summary: %w", err)
	}

	s.logger.Info().
		Str("summary_id", summary.ID).
		Int("score_count", summary.ScoreCount).
		Msg("Daily summary recorded")

	if _, err := s.summaryStorage.PruneSummaries(ctx, s.retain); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to prune old summaries")
	}

	if s.eventService != nil {
		event := interfaces.Event{Type: interfaces.EventSummaryUpdated, Payload: summary}
		if err := s.eventService.Publish(ctx, event); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to publish summary event")
		}
	}

	return summary, nil
}

// Latest returns the most recently persisted summary.
func (s *Service) Latest(ctx context.Context) (*models.DailySummary, error) {
	return s.summaryStorage.GetLatestSummary(ctx)
}
