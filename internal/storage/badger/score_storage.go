package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nephra/internal/interfaces"
	"github.com/ternarybob/nephra/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// ScoreStorage implements the ScoreStorage interface for Badger
type ScoreStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewScoreStorage creates a new ScoreStorage instance
func NewScoreStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ScoreStorage {
	return &ScoreStorage{
		db:     db,
		logger: logger,
	}
}

func (s *ScoreStorage) StoreScore(ctx context.Context, record *models.ScoreRecord) error {
	if record.ID == "" {
		return fmt.Errorf("score record ID is required")
	}

	if err := s.db.Store().Upsert(record.ID, record); err != nil {
		return fmt.Errorf("failed to store score record: %w", err)
	}
	return nil
}

func (s *ScoreStorage) GetScore(ctx context.Context, id string) (*models.ScoreRecord, error) {
	var record models.ScoreRecord
	if err := s.db.Store().Get(id, &record); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("score record not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get score record: %w", err)
	}
	return &record, nil
}

func (s *ScoreStorage) DeleteScore(ctx context.Context, id string) error {
	if err := s.db.Store().Delete(id, &models.ScoreRecord{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return fmt.Errorf("score record not found: %s", id)
		}
		return fmt.Errorf("failed to delete score record: %w", err)
	}
	return nil
}

// ListScores returns stored scores newest first.
func (s *ScoreStorage) ListScores(ctx context.Context, limit, offset int) ([]*models.ScoreRecord, error) {
	query := badgerhold.Where("ID").Ne("").SortBy("CreatedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Skip(offset)
	}

	var records []models.ScoreRecord
	if err := s.db.Store().Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to list score records: %w", err)
	}

	result := make([]*models.ScoreRecord, len(records))
	for i := range records {
		result[i] = &records[i]
	}
	return result, nil
}

// ListScoresSince returns scores recorded at or after the given time,
// oldest first for trend analysis.
func (s *ScoreStorage) ListScoresSince(ctx context.Context, since time.Time) ([]*models.ScoreRecord, error) {
	var records []models.ScoreRecord
	query := badgerhold.Where("CreatedAt").Ge(since).SortBy("CreatedAt")
	if err := s.db.Store().Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to list score records since %s: %w", since.Format(time.RFC3339), err)
	}

	result := make([]*models.ScoreRecord, len(records))
	for i := range records {
		result[i] = &records[i]
	}
	return result, nil
}

func (s *ScoreStorage) CountScores(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.ScoreRecord{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count score records: %w", err)
	}
	return int(count), nil
}

func (s *ScoreStorage) ClearAll(ctx context.Context) error {
	if err := s.db.Store().DeleteMatching(&models.ScoreRecord{}, badgerhold.Where("ID").Ne("")); err != nil {
		return fmt.Errorf("failed to clear score records: %w", err)
	}
	s.logger.Info().Msg("All score records cleared")
	return nil
}
