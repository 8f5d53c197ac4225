// -----------------------------------------------------------------------
// Last Modified: Tuesday, 18th August 2026 2:10:32 pm
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package interfaces

import (
	"context"
	"time"

	"github.com/ternarybob/nephra/internal/models"
)

// ScoreStorage - interface for daily score persistence
type ScoreStorage interface {
	// CRUD operations
	StoreScore(ctx context.Context, record *models.ScoreRecord) error
	GetScore(ctx context.Context, id string) (*models.ScoreRecord, error)
	DeleteScore(ctx context.Context, id string) error

	// List operations (newest first)
	ListScores(ctx context.Context, limit, offset int) ([]*models.ScoreRecord, error)
	ListScoresSince(ctx context.Context, since time.Time) ([]*models.ScoreRecord, error)

	// Stats operations
	CountScores(ctx context.Context) (int, error)

	// Bulk operations
	ClearAll(ctx context.Context) error
}

// GFRStorage - interface for eGFR estimate persistence
type GFRStorage interface {
	StoreEstimate(ctx context.Context, record *models.GFRRecord) error
	GetEstimate(ctx context.Context, id string) (*models.GFRRecord, error)
	ListEstimates(ctx context.Context, limit, offset int) ([]*models.GFRRecord, error)
	CountEstimates(ctx context.Context) (int, error)
	ClearAll(ctx context.Context) error
}

// SummaryStorage - interface for daily summary persistence
type SummaryStorage interface {
	StoreSummary(ctx context.Context, summary *models.DailySummary) error
	GetLatestSummary(ctx context.Context) (*models.DailySummary, error)
	ListSummaries(ctx context.Context, limit int) ([]*models.DailySummary, error)
	CountSummaries(ctx context.Context) (int, error)
	PruneSummaries(ctx context.Context, keep int) (int, error)
}

// ArticleStorage - interface for cached education article persistence
type ArticleStorage interface {
	StoreArticle(ctx context.Context, article *models.EducationArticle) error
	GetArticle(ctx context.Context, id string) (*models.EducationArticle, error)
	GetArticleByTopic(ctx context.Context, topicID string) (*models.EducationArticle, error)
	ListArticles(ctx context.Context) ([]*models.EducationArticle, error)
	DeleteArticle(ctx context.Context, id string) error
}

// StorageManager - composite interface for all storage operations
type StorageManager interface {
	ScoreStorage() ScoreStorage
	GFRStorage() GFRStorage
	SummaryStorage() SummaryStorage
	ArticleStorage() ArticleStorage
	DB() interface{}
	Close() error
}
