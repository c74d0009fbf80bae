package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"veritaslab/internal/microservices/http-api/dto"
	"veritaslab/internal/microservices/http-api/models"
	"veritaslab/internal/microservices/http-api/repository"
)

// recentWindow is how far back date=recent reaches.
const recentWindow = 30 * 24 * time.Hour

// ViewCounter buffers article views outside the database.
type ViewCounter interface {
	Incr(ctx context.Context, articleID int64) (int64, error)
}

type ArticleService interface {
	// List returns one feed page; viewerID may be empty for anonymous callers.
	List(ctx context.Context, viewerID string, query dto.ArticleListQuery) ([]dto.ArticleResponse, error)
	Get(ctx context.Context, viewerID string, id int64) (*dto.ArticleResponse, error)
	Favorite(ctx context.Context, userID string, id int64) error
	Unfavorite(ctx context.Context, userID string, id int64) error
	FavoriteStatus(ctx context.Context, userID string, id int64) (bool, error)
	Citation(ctx context.Context, id int64, format string) (string, error)
	Citations(ctx context.Context, id int64) (*dto.CitationsResponse, error)
	ListByUser(ctx context.Context, userID string) ([]dto.ArticleResponse, error)
	ListFavorites(ctx context.Context, userID string) ([]dto.ArticleResponse, error)
}

type articleService struct {
	repo          repository.ArticleRepository
	views         ViewCounter
	publicBaseURL string
	logger        *slog.Logger
	now           func() time.Time
}

func NewArticleService(repo repository.ArticleRepository, views ViewCounter, publicBaseURL string, logger *slog.Logger) ArticleService {
	return &articleService{
		repo:          repo,
		views:         views,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
		now:           time.Now,
	}
}

func (s *articleService) List(ctx context.Context, viewerID string, query dto.ArticleListQuery) ([]dto.ArticleResponse, error) {
	filter := repository.ArticleFilter{
		Page:    query.Page,
		Search:  strings.TrimSpace(query.Search),
		Areas:   nonBlank(query.Area),
		Types:   nonBlank(query.Type),
		Impacts: nonBlank(query.Impact),
	}
	if query.Date == "recent" {
		filter.PublishedAfter = s.now().Add(-recentWindow)
	}

	articles, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	return s.withFavorites(ctx, viewerID, articles), nil
}

// withFavorites converts articles and marks the viewer's favorites using one lookup.
func (s *articleService) withFavorites(ctx context.Context, viewerID string, articles []models.Article) []dto.ArticleResponse {
	out := make([]dto.ArticleResponse, 0, len(articles))
	ids := make([]int64, 0, len(articles))
	for i := range articles {
		out = append(out, dto.FromModelToArticleResponse(&articles[i]))
		ids = append(ids, articles[i].ID)
	}
	if viewerID == "" || len(ids) == 0 {
		return out
	}

	favorites, err := s.repo.FavoritedAmong(ctx, viewerID, ids)
	if err != nil {
		// the feed is still useful without favorite flags
		s.logger.Warn("failed to load favorites", "user_id", viewerID, "error", err)
		return out
	}
	for i := range out {
		out[i].IsFavorited = favorites[out[i].ID]
	}
	return out
}

// Get counts a view and returns stored plus not yet flushed views.
func (s *articleService) Get(ctx context.Context, viewerID string, id int64) (*dto.ArticleResponse, error) {
	article, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.FromModelToArticleResponse(article)

	pending, err := s.views.Incr(ctx, id)
	if err != nil {
		s.logger.Warn("failed to count view", "article_id", id, "error", err)
	}
	resp.Views += pending

	if viewerID != "" {
		if fav, err := s.repo.IsFavorite(ctx, viewerID, id); err == nil {
			resp.IsFavorited = fav
		}
	}
	return &resp, nil
}

func (s *articleService) find(ctx context.Context, id int64) (*models.Article, error) {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("failed to load article: %w", err)
	}
	return article, nil
}

func (s *articleService) requireArticle(ctx context.Context, id int64) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check article: %w", err)
	}
	if !exists {
		return ErrArticleNotFound
	}
	return nil
}

// Favorite is idempotent.
func (s *articleService) Favorite(ctx context.Context, userID string, id int64) error {
	if err := s.requireArticle(ctx, id); err != nil {
		return err
	}
	return s.repo.AddFavorite(ctx, userID, id)
}

func (s *articleService) Unfavorite(ctx context.Context, userID string, id int64) error {
	return s.repo.RemoveFavorite(ctx, userID, id)
}

func (s *articleService) FavoriteStatus(ctx context.Context, userID string, id int64) (bool, error) {
	return s.repo.IsFavorite(ctx, userID, id)
}

func (s *articleService) Citation(ctx context.Context, id int64, format string) (string, error) {
	src, err := s.citationSource(ctx, id)
	if err != nil {
		return "", err
	}
	return Cite(format, src)
}

// Citations renders every supported format.
func (s *articleService) Citations(ctx context.Context, id int64) (*dto.CitationsResponse, error) {
	src, err := s.citationSource(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.CitationsResponse{APA: FormatAPA(src), ABNT: FormatABNT(src)}, nil
}

func (s *articleService) citationSource(ctx context.Context, id int64) (CitationSource, error) {
	article, err := s.find(ctx, id)
	if err != nil {
		return CitationSource{}, err
	}
	year := article.PublishedAt.Year()
	if article.PublishedAt.IsZero() {
		year = s.now().Year()
	}
	return CitationSource{
		Authors: article.Authors,
		Title:   article.Title,
		Year:    year,
		Journal: DefaultJournal,
		URL:     s.publicBaseURL + ArticleLink(article.ID),
	}, nil
}

func (s *articleService) ListByUser(ctx context.Context, userID string) ([]dto.ArticleResponse, error) {
	articles, err := s.repo.ListByCreator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user articles: %w", err)
	}
	return s.withFavorites(ctx, "", articles), nil
}

func (s *articleService) ListFavorites(ctx context.Context, userID string) ([]dto.ArticleResponse, error) {
	articles, err := s.repo.ListFavorites(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	out := s.withFavorites(ctx, "", articles)
	for i := range out {
		out[i].IsFavorited = true
	}
	return out, nil
}

func nonBlank(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
