package badger

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nephra/internal/interfaces"
	"github.com/ternarybob/nephra/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// ArticleStorage implements the ArticleStorage interface for Badger
type ArticleStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewArticleStorage creates a new ArticleStorage instance
func NewArticleStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ArticleStorage {
	return &ArticleStorage{
		db:     db,
		logger: logger,
	}
}

func (s *ArticleStorage) StoreArticle(ctx context.Context, article *models.EducationArticle) error {
	if article.ID == "" {
		return fmt.Errorf("article ID is required")
	}

	if err := s.db.Store().Upsert(article.ID, article); err != nil {
		return fmt.Errorf("failed to store article: %w", err)
	}
	return nil
}

func (s *ArticleStorage) GetArticle(ctx context.Context, id string) (*models.EducationArticle, error) {
	var article models.EducationArticle
	if err := s.db.Store().Get(id, &article); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("article not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return &article, nil
}

func (s *ArticleStorage) GetArticleByTopic(ctx context.Context, topicID string) (*models.EducationArticle, error) {
	var articles []models.EducationArticle
	query := badgerhold.Where("TopicID").Eq(topicID).SortBy("FetchedAt").Reverse().Limit(1)
	if err := s.db.Store().Find(&articles, query); err != nil {
		return nil, fmt.Errorf("failed to get article by topic: %w", err)
	}
	if len(articles) == 0 {
		return nil, fmt.Errorf("no article cached for topic: %s", topicID)
	}
	return &articles[0], nil
}

func (s *ArticleStorage) ListArticles(ctx context.Context) ([]*models.EducationArticle, error) {
	var articles []models.EducationArticle
	query := badgerhold.Where("ID").Ne("").SortBy("FetchedAt").Reverse()
	if err := s.db.Store().Find(&articles, query); err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}

	result := make([]*models.EducationArticle, len(articles))
	for i := range articles {
		result[i] = &articles[i]
	}
	return result, nil
}

func (s *ArticleStorage) DeleteArticle(ctx context.Context, id string) error {
	if err := s.db.Store().Delete(id, &models.EducationArticle{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return fmt.Errorf("article not found: %s", id)
		}
		return fmt.Errorf("failed to delete article: %w", err)
	}
	return nil
}
