package repository

import (
	"context"
	"time"

	"veritaslab/internal/microservices/http-api/models"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ArticlePageSize is the fixed page size of the public feed.
const ArticlePageSize = 10

// ArticleFilter narrows the public feed. Each tag dimension matches when any of
// its values is a case-insensitive substring of one of the article's tags.
type ArticleFilter struct {
	Page           int
	Search         string
	Areas          []string
	Types          []string
	Impacts        []string
	PublishedAfter time.Time
}

type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	FindByID(ctx context.Context, id int64) (*models.Article, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, filter ArticleFilter) ([]models.Article, error)
	ListByCreator(ctx context.Context, userID string) ([]models.Article, error)
	AddViews(ctx context.Context, id, delta int64) error

	AddFavorite(ctx context.Context, userID string, articleID int64) error
	RemoveFavorite(ctx context.Context, userID string, articleID int64) error
	IsFavorite(ctx context.Context, userID string, articleID int64) (bool, error)
	FavoritedAmong(ctx context.Context, userID string, articleIDs []int64) (map[int64]bool, error)
	ListFavorites(ctx context.Context, userID string) ([]models.Article, error)
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(ctx context.Context, article *models.Article) error {
	// tags are linked explicitly through TagRepository
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(article).Error
}

// withCreator selects articles together with the creator's display name.
func (r *articleRepository) withCreator(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Article{}).
		Select("articles.*, users.full_name AS author_name").
		Joins("JOIN users ON users.id = articles.created_by")
}

func (r *articleRepository) FindByID(ctx context.Context, id int64) (*models.Article, error) {
	var article models.Article
	err := r.withCreator(ctx).
		Preload("Tags").
		Where("articles.id = ?", id).
		First(&article).Error
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Article{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// List returns one page of published articles, newest first.
func (r *articleRepository) List(ctx context.Context, filter ArticleFilter) ([]models.Article, error) {
	var articles []models.Article
	err := r.listQuery(ctx, filter).Preload("Tags").Find(&articles).Error
	return articles, err
}

func (r *articleRepository) listQuery(ctx context.Context, filter ArticleFilter) *gorm.DB {
	q := r.withCreator(ctx).Where("articles.status = ?", models.ArticleStatusPublished)

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("(articles.title ILIKE ? OR articles.abstract ILIKE ? OR users.full_name ILIKE ?)", like, like, like)
	}

	for _, values := range [][]string{filter.Areas, filter.Types, filter.Impacts} {
		if len(values) == 0 {
			continue
		}
		patterns := make([]string, 0, len(values))
		for _, v := range values {
			patterns = append(patterns, "%"+v+"%")
		}
		q = q.Where(`EXISTS (SELECT 1 FROM article_tags atf JOIN tags ttf ON ttf.id = atf.tag_id
			WHERE atf.article_id = articles.id AND ttf.name ILIKE ANY(?::text[]))`, pq.Array(patterns))
	}

	if !filter.PublishedAfter.IsZero() {
		q = q.Where("articles.published_at > ?", filter.PublishedAfter)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	return q.Order("articles.published_at DESC").
		Limit(ArticlePageSize).
		Offset((page - 1) * ArticlePageSize)
}

func (r *articleRepository) ListByCreator(ctx context.Context, userID string) ([]models.Article, error) {
	var articles []models.Article
	err := r.withCreator(ctx).
		Preload("Tags").
		Where("articles.created_by = ? AND articles.status = ?", userID, models.ArticleStatusPublished).
		Order("articles.published_at DESC").
		Find(&articles).Error
	return articles, err
}

func (r *articleRepository) AddViews(ctx context.Context, id, delta int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Article{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", delta)).Error
}

func (r *articleRepository) AddFavorite(ctx context.Context, userID string, articleID int64) error {
	fav := models.Favorite{UserID: userID, ArticleID: articleID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&fav).Error
}

func (r *articleRepository) RemoveFavorite(ctx context.Context, userID string, articleID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Delete(&models.Favorite{}).Error
}

func (r *articleRepository) IsFavorite(ctx context.Context, userID string, articleID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Count(&count).Error
	return count > 0, err
}

// FavoritedAmong looks up, in one query, which of articleIDs the user has favorited.
func (r *articleRepository) FavoritedAmong(ctx context.Context, userID string, articleIDs []int64) (map[int64]bool, error) {
	set := make(map[int64]bool, len(articleIDs))
	if len(articleIDs) == 0 {
		return set, nil
	}
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ? AND article_id IN ?", userID, articleIDs).
		Pluck("article_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (r *articleRepository) ListFavorites(ctx context.Context, userID string) ([]models.Article, error) {
	var articles []models.Article
	err := r.withCreator(ctx).
		Preload("Tags").
		Joins("JOIN user_favorites ON user_favorites.article_id = articles.id").
		Where("user_favorites.user_id = ?", userID).
		Order("user_favorites.created_at DESC").
		Find(&articles).Error
	return articles, err
}
