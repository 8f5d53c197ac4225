package education

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nephra/internal/common"
	"github.com/ternarybob/nephra/internal/interfaces"
	"github.com/ternarybob/nephra/internal/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/time/rate"
)

const (
	// minParagraphLength filters navigation chrome and cookie notices out of
	// fetched pages; article prose runs longer than this.
	minParagraphLength = 60

	defaultFetchPerMinute = 6
)

// Service serves the curated education catalog and caches fetched article
// bodies. Fetching is opt-in: with fetch_enabled=false the service only
// serves catalog summaries and whatever is already cached.
type Service struct {
	config         *common.EducationConfig
	catalog        *models.EducationCatalog
	articleStorage interfaces.ArticleStorage
	httpClient     *http.Client
	limiter        *rate.Limiter
	refreshAfter   time.Duration
	logger         arbor.ILogger
}

// NewService loads the topic catalog and prepares the article fetcher
func NewService(config *common.EducationConfig, articleStorage interfaces.ArticleStorage, logger arbor.ILogger) (*Service, error) {
	catalog, err := LoadCatalog(config.CatalogPath)
	if err != nil {
		return nil, err
	}

	timeout, err := config.FetchTimeoutDuration()
	if err != nil {
		return nil, fmt.Errorf("invalid fetch timeout: %w", err)
	}
	refreshAfter, err := config.RefreshAfterDuration()
	if err != nil {
		return nil, fmt.Errorf("invalid refresh interval: %w", err)
	}

	perMinute := config.FetchPerMinute
	if perMinute <= 0 {
		perMinute = defaultFetchPerMinute
	}

	logger.Info().
		Int("topics", len(catalog.Topics)).
		Bool("fetch_enabled", config.FetchEnabled).
		Msg("Education catalog loaded")

	return &Service{
		config:         config,
		catalog:        catalog,
		articleStorage: articleStorage,
		httpClient:     &http.Client{Timeout: timeout},
		limiter:        rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 1),
		refreshAfter:   refreshAfter,
		logger:         logger,
	}, nil
}

// Topics returns the catalog entries in file order.
func (s *Service) Topics() []models.EducationTopic {
	return s.catalog.Topics
}

// Topic returns a catalog entry by id.
func (s *Service) Topic(id string) (*models.EducationTopic, error) {
	for i := range s.catalog.Topics {
		if s.catalog.Topics[i].ID == id {
			return &s.catalog.Topics[i], nil
		}
	}
	return nil, fmt.Errorf("unknown education topic: %s", id)
}

// Article returns the article body for a topic. Resolution order: fresh
// cache, live fetch (when enabled), stale cache, curated summary. It never
// fails on an unreachable source, only on an unknown topic.
func (s *Service) Article(ctx context.Context, topicID string) (*models.EducationArticle, error) {
	topic, err := s.Topic(topicID)
	if err != nil {
		return nil, err
	}

	cached, cacheErr := s.articleStorage.GetArticleByTopic(ctx, topicID)
	if cacheErr == nil && !s.stale(cached) {
		return cached, nil
	}

	if !s.config.FetchEnabled {
		if cacheErr == nil {
			return cached, nil
		}
		return s.summaryArticle(topic), nil
	}

	article, err := s.fetchArticle(ctx, topic)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("topic_id", topicID).
			Msg("Article fetch failed, serving fallback")
		// A stale cached body still beats the short summary.
		if cacheErr == nil {
			return cached, nil
		}
		return s.summaryArticle(topic), nil
	}

	if err := s.articleStorage.StoreArticle(ctx, article); err != nil {
		s.logger.Warn().Err(err).Str("topic_id", topicID).Msg("Failed to cache article")
	}

	return article, nil
}

// RefreshStale refetches every catalog topic whose cached body is missing
// or older than the refresh interval. Returns the number refreshed.
func (s *Service) RefreshStale(ctx context.Context) (int, error) {
	if !s.config.FetchEnabled {
		return 0, nil
	}

	refreshed := 0
	var failures []string
	for i := range s.catalog.Topics {
		topic := &s.catalog.Topics[i]

		cached, err := s.articleStorage.GetArticleByTopic(ctx, topic.ID)
		if err == nil && !s.stale(cached) {
			continue
		}

		article, err := s.fetchArticle(ctx, topic)
		if err != nil {
			s.logger.Warn().Err(err).Str("topic_id", topic.ID).Msg("Article refresh failed")
			failures = append(failures, topic.ID)
			continue
		}
		if err := s.articleStorage.StoreArticle(ctx, article); err != nil {
			s.logger.Warn().Err(err).Str("topic_id", topic.ID).Msg("Failed to cache refreshed article")
			failures = append(failures, topic.ID)
			continue
		}
		refreshed++
	}

	if len(failures) > 0 {
		return refreshed, fmt.Errorf("failed to refresh topics: %s", strings.Join(failures, ", "))
	}

	s.logger.Info().Int("refreshed", refreshed).Msg("Education article refresh completed")
	return refreshed, nil
}

// RenderHTML converts article markdown to HTML for API responses.
func (s *Service) RenderHTML(markdown string) (string, error) {
	if markdown == "" {
		return "", nil
	}

	converter := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)

	var buf bytes.Buffer
	if err := converter.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

// fetchArticle downloads a topic page and extracts its prose as markdown.
func (s *Service) fetchArticle(ctx context.Context, topic *models.EducationTopic) (*models.EducationArticle, error) {
	// Wait for rate limiter
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, topic.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if s.config.UserAgent != "" {
		req.Header.Set("User-Agent", s.config.UserAgent)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("article fetch returned status %d", resp.StatusCode)
	}

	markdown, err := extractArticleMarkdown(resp.Body, topic.URL)
	if err != nil {
		return nil, err
	}
	if markdown == "" {
		return nil, fmt.Errorf("no article prose found at %s", topic.URL)
	}

	s.logger.Debug().
		Str("topic_id", topic.ID).
		Int("markdown_length", len(markdown)).
		Msg("Article fetched")

	return &models.EducationArticle{
		ID:              common.NewArticleID(),
		TopicID:         topic.ID,
		Title:           topic.Title,
		URL:             topic.URL,
		Source:          topic.Source,
		Category:        topic.Category,
		Tags:            topic.Tags,
		Summary:         topic.Summary,
		ContentMarkdown: markdown,
		FetchedAt:       time.Now(),
	}, nil
}

// extractArticleMarkdown keeps substantial <p> elements from a page and
// converts them to markdown. Paragraphs at or under the length floor are
// treated as page chrome and skipped.
func extractArticleMarkdown(r io.Reader, baseURL string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse article HTML: %w", err)
	}

	var parts []string
	doc.Find("p").Each(func(i int, sel *goquery.Selection) {
		if len(strings.TrimSpace(sel.Text())) <= minParagraphLength {
			return
		}
		html, err := goquery.OuterHtml(sel)
		if err != nil {
			return
		}
		parts = append(parts, html)
	})
	if len(parts) == 0 {
		return "", nil
	}

	converter := md.NewConverter(baseURL, true, nil)
	markdown, err := converter.ConvertString(strings.Join(parts, "\n"))
	if err != nil {
		return "", fmt.Errorf("failed to convert article to markdown: %w", err)
	}

	return strings.TrimSpace(markdown), nil
}

func (s *Service) stale(article *models.EducationArticle) bool {
	return time.Since(article.FetchedAt) > s.refreshAfter
}

// summaryArticle wraps the curated catalog summary as a servable body.
func (s *Service) summaryArticle(topic *models.EducationTopic) *models.EducationArticle {
	return &models.EducationArticle{
		ID:              common.NewArticleID(),
		TopicID:         topic.ID,
		Title:           topic.Title,
		URL:             topic.URL,
		Source:          topic.Source,
		Category:        topic.Category,
		Tags:            topic.Tags,
		Summary:         topic.Summary,
		ContentMarkdown: topic.Summary,
		FetchedAt:       time.Now(),
	}
}
