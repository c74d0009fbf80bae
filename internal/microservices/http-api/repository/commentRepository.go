package repository

import (
	"context"

	"veritaslab/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, commentID int64) (*models.Comment, error)
	ListByArticle(ctx context.Context, articleID int64) ([]models.CommentView, error)
	GetView(ctx context.Context, commentID int64) (*models.CommentView, error)
	LikedByUser(ctx context.Context, userID string, articleID int64) (map[int64]bool, error)
	// Like reports whether a new like row was inserted.
	Like(ctx context.Context, userID string, commentID int64) (bool, error)
	Unlike(ctx context.Context, userID string, commentID int64) error
	CountLikes(ctx context.Context, commentID int64) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create a new comment
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
}

// GetByID retrieves a comment by its ID
func (r *commentRepository) GetByID(ctx context.Context, commentID int64) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Where("id = ?", commentID).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

const commentViewQuery = `
	SELECT c.id,
	       c.content,
	       c.created_at,
	       c.parent_comment_id AS parent_id,
	       c.user_id,
	       u.full_name,
	       u.username,
	       u.avatar_url,
	       (c.user_id = a.created_by) AS is_article_author,
	       COALESCE(l.likes_count, 0) AS likes_count
	FROM comments c
	JOIN users u ON u.id = c.user_id
	JOIN articles a ON a.id = c.article_id
	LEFT JOIN (
		SELECT comment_id, COUNT(*) AS likes_count
		FROM comment_likes
		GROUP BY comment_id
	) l ON l.comment_id = c.id`

// ListByArticle returns the thread with each reply right after its top-level comment.
func (r *commentRepository) ListByArticle(ctx context.Context, articleID int64) ([]models.CommentView, error) {
	var rows []models.CommentView
	err := r.db.WithContext(ctx).Raw(commentViewQuery+`
		WHERE c.article_id = ?
		ORDER BY COALESCE(c.parent_comment_id, c.id) ASC,
		         c.parent_comment_id NULLS FIRST,
		         c.created_at ASC`, articleID).
		Find(&rows).Error
	return rows, err
}

// GetView returns a single comment in the same shape as ListByArticle.
func (r *commentRepository) GetView(ctx context.Context, commentID int64) (*models.CommentView, error) {
	var rows []models.CommentView
	err := r.db.WithContext(ctx).Raw(commentViewQuery+`
		WHERE c.id = ?`, commentID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

func (r *commentRepository) LikedByUser(ctx context.Context, userID string, articleID int64) (map[int64]bool, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&models.CommentLike{}).
		Joins("JOIN comments ON comments.id = comment_likes.comment_id").
		Where("comment_likes.user_id = ? AND comments.article_id = ?", userID, articleID).
		Pluck("comment_likes.comment_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (r *commentRepository) Like(ctx context.Context, userID string, commentID int64) (bool, error) {
	like := models.CommentLike{UserID: userID, CommentID: commentID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(&like)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *commentRepository) Unlike(ctx context.Context, userID string, commentID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		Delete(&models.CommentLike{}).Error
}

func (r *commentRepository) CountLikes(ctx context.Context, commentID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CommentLike{}).
		Where("comment_id = ?", commentID).
		Count(&count).Error
	return count, err
}
