package badger

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nephra/internal/interfaces"
	"github.com/ternarybob/nephra/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// SummaryStorage implements the SummaryStorage interface for Badger
type SummaryStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewSummaryStorage creates a new SummaryStorage instance
func NewSummaryStorage(db *BadgerDB, logger arbor.ILogger) interfaces.SummaryStorage {
	return &SummaryStorage{
		db:     db,
		logger: logger,
	}
}

func (s *SummaryStorage) StoreSummary(ctx context.Context, summary *models.DailySummary) error {
	if summary.ID == "" {
		return fmt.Errorf("summary ID is required")
	}

	if err := s.db.Store().Upsert(summary.ID, summary); err != nil {
		return fmt.Errorf("failed to store summary: %w", err)
	}
	return nil
}

func (s *SummaryStorage) GetLatestSummary(ctx context.Context) (*models.DailySummary, error) {
	var summaries []models.DailySummary
	query := badgerhold.Where("ID").Ne("").SortBy("GeneratedAt").Reverse().Limit(1)
	if err := s.db.Store().Find(&summaries, query); err != nil {
		return nil, fmt.Errorf("failed to get latest summary: %w", err)
	}
	if len(summaries) == 0 {
		return nil, fmt.Errorf("no summaries stored")
	}
	return &summaries[0], nil
}

// ListSummaries returns stored summaries newest first.
func (s *SummaryStorage) ListSummaries(ctx context.Context, limit int) ([]*models.DailySummary, error) {
	query := badgerhold.Where("ID").Ne("").SortBy("GeneratedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var summaries []models.DailySummary
	if err := s.db.Store().Find(&summaries, query); err != nil {
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}

	result := make([]*models.DailySummary, len(summaries))
	for i := range summaries {
		result[i] = &summaries[i]
	}
	return result, nil
}

func (s *SummaryStorage) CountSummaries(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.DailySummary{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count summaries: %w", err)
	}
	return int(count), nil
}

// PruneSummaries deletes all but the newest keep summaries and returns how
// many were removed.
func (s *SummaryStorage) PruneSummaries(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}

	query := badgerhold.Where("ID").Ne("").SortBy("GeneratedAt").Reverse().Skip(keep)
	var stale []models.DailySummary
	if err := s.db.Store().Find(&stale, query); err != nil {
		return 0, fmt.Errorf("failed to find stale summaries: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	for _, summary := range stale {
		if err := s.db.Store().Delete(summary.ID, &models.DailySummary{}); err != nil {
			return 0, fmt.Errorf("failed to prune summary %s: %w", summary.ID, err)
		}
	}

	s.logger.Debug().
		Int("pruned", len(stale)).
		Int("kept", keep).
		Msg("Pruned stale summaries")

	return len(stale), nil
}
