package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"veritaslab/internal/microservices/http-api/models"
	"veritaslab/internal/microservices/http-api/repository"
)

type CommentService interface {
	// List returns the article thread; liked_by_me is only set when viewerID is not empty.
	List(ctx context.Context, articleID int64, viewerID string) ([]models.CommentView, error)
	Create(ctx context.Context, userID string, articleID int64, content string, parentID *int64) (*models.CommentView, error)
	Like(ctx context.Context, userID string, commentID int64) (int64, error)
	Unlike(ctx context.Context, userID string, commentID int64) (int64, error)
}

type commentService struct {
	repos    repository.Repositories
	notifier *Notifier
	logger   *slog.Logger
}

func NewCommentService(repos repository.Repositories, notifier *Notifier, logger *slog.Logger) CommentService {
	return &commentService{
		repos:    repos,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *commentService) requireArticle(ctx context.Context, articleID int64) error {
	exists, err := s.repos.Articles.Exists(ctx, articleID)
	if err != nil {
		return fmt.Errorf("failed to check article: %w", err)
	}
	if !exists {
		return ErrArticleNotFound
	}
	return nil
}

func (s *commentService) List(ctx context.Context, articleID int64, viewerID string) ([]models.CommentView, error) {
	if err := s.requireArticle(ctx, articleID); err != nil {
		return nil, err
	}

	comments, err := s.repos.Comments.ListByArticle(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	if comments == nil {
		comments = []models.CommentView{}
	}
	if viewerID == "" {
		return comments, nil
	}

	liked, err := s.repos.Comments.LikedByUser(ctx, viewerID, articleID)
	if err != nil {
		s.logger.Warn("failed to load liked comments", "user_id", viewerID, "error", err)
		return comments, nil
	}
	for i := range comments {
		comments[i].LikedByMe = ptr(liked[comments[i].ID])
	}
	return comments, nil
}

// Create adds a comment or a reply. Threads are one level deep: replying to a
// reply attaches the new comment to the top-level comment instead.
func (s *commentService) Create(ctx context.Context, userID string, articleID int64, content string, parentID *int64) (*models.CommentView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyComment
	}
	if err := s.requireArticle(ctx, articleID); err != nil {
		return nil, err
	}

	var parent *models.Comment
	if parentID != nil {
		p, err := s.repos.Comments.GetByID(ctx, *parentID)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, ErrInvalidParent
			}
			return nil, fmt.Errorf("failed to load parent comment: %w", err)
		}
		if p.ArticleID != articleID {
			return nil, ErrInvalidParent
		}
		parent = p
	}

	comment := &models.Comment{
		Content:   content,
		ArticleID: articleID,
		UserID:    userID,
	}
	if parent != nil {
		topLevel := parent.ID
		if parent.IsReply() {
			topLevel = *parent.ParentCommentID
		}
		comment.ParentCommentID = &topLevel
	}

	if err := s.repos.Comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if parent != nil && parent.UserID != userID {
		s.notifier.NotifyNow(ctx, s.repos.Notifications, &models.Notification{
			UserID:        parent.UserID,
			Type:          models.NotificationCommentReply,
			Title:         "New reply to your comment",
			Message:       fmt.Sprintf("%s replied to your comment: %q", s.displayName(ctx, userID), preview(content)),
			Link:          ptr(ArticleLink(articleID)),
			RelatedID:     ptr(comment.ID),
			RelatedUserID: ptr(userID),
		})
	}

	view, err := s.repos.Comments.GetView(ctx, comment.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload comment: %w", err)
	}
	return view, nil
}

// Like is idempotent; only a newly recorded like notifies the author.
func (s *commentService) Like(ctx context.Context, userID string, commentID int64) (int64, error) {
	comment, err := s.repos.Comments.GetByID(ctx, commentID)
	if err != nil {
		if repository.IsNotFound(err) {
			return 0, ErrCommentNotFound
		}
		return 0, fmt.Errorf("failed to load comment: %w", err)
	}

	inserted, err := s.repos.Comments.Like(ctx, userID, commentID)
	if err != nil {
		return 0, fmt.Errorf("failed to like comment: %w", err)
	}

	if inserted && comment.UserID != userID {
		s.notifier.NotifyNow(ctx, s.repos.Notifications, &models.Notification{
			UserID:        comment.UserID,
			Type:          models.NotificationCommentLike,
			Title:         "Comment liked",
			Message:       fmt.Sprintf("%s liked your comment: %q", s.displayName(ctx, userID), preview(comment.Content)),
			Link:          ptr(ArticleLink(comment.ArticleID)),
			RelatedID:     ptr(commentID),
			RelatedUserID: ptr(userID),
		})
	}

	return s.repos.Comments.CountLikes(ctx, commentID)
}

func (s *commentService) Unlike(ctx context.Context, userID string, commentID int64) (int64, error) {
	if err := s.repos.Comments.Unlike(ctx, userID, commentID); err != nil {
		return 0, fmt.Errorf("failed to unlike comment: %w", err)
	}
	return s.repos.Comments.CountLikes(ctx, commentID)
}

func (s *commentService) displayName(ctx context.Context, userID string) string {
	user, err := s.repos.Users.FindByID(ctx, userID)
	if err != nil {
		return "Someone"
	}
	return user.DisplayName()
}
