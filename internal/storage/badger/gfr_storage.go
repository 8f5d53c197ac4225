package badger

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nephra/internal/interfaces"
	"github.com/ternarybob/nephra/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// GFRStorage implements the GFRStorage interface for Badger
type GFRStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewGFRStorage creates a new GFRStorage instance
func NewGFRStorage(db *BadgerDB, logger arbor.ILogger) interfaces.GFRStorage {
	return &GFRStorage{
		db:     db,
		logger: logger,
	}
}

func (s *GFRStorage) StoreEstimate(ctx context.Context, record *models.GFRRecord) error {
	if record.ID == "" {
		return fmt.Errorf("GFR record ID is required")
	}

	if err := s.db.Store().Upsert(record.ID, record); err != nil {
		return fmt.Errorf("failed to store GFR record: %w", err)
	}
	return nil
}

func (s *GFRStorage) GetEstimate(ctx context.Context, id string) (*models.GFRRecord, error) {
	var record models.GFRRecord
	if err := s.db.Store().Get(id, &record); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("GFR record not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get GFR record: %w", err)
	}
	return &record, nil
}

// ListEstimates returns stored estimates newest first.
func (s *GFRStorage) ListEstimates(ctx context.Context, limit, offset int) ([]*models.GFRRecord, error) {
	query := badgerhold.Where("ID").Ne("").SortBy("CreatedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Skip(offset)
	}

	var records []models.GFRRecord
	if err := s.db.Store().Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to list GFR records: %w", err)
	}

	result := make([]*models.GFRRecord, len(records))
	for i := range records {
		result[i] = &records[i]
	}
	return result, nil
}

func (s *GFRStorage) CountEstimates(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.GFRRecord{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count GFR records: %w", err)
	}
	return int(count), nil
}

func (s *GFRStorage) ClearAll(ctx context.Context) error {
	if err := s.db.Store().DeleteMatching(&models.GFRRecord{}, badgerhold.Where("ID").Ne("")); err != nil {
		return fmt.Errorf("failed to clear GFR records: %w", err)
	}
	s.logger.Info().Msg("All GFR records cleared")
	return nil
}
