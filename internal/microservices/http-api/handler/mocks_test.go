package handler

import (
	"context"
	"io"
	"log/slog"

	"veritaslab/internal/microservices/http-api/dto"
	"veritaslab/internal/microservices/http-api/models"
	"veritaslab/internal/microservices/http-api/service"
	"veritaslab/internal/shared"

	"github.com/stretchr/testify/mock"
)

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req dto.RegisterRequest) (*models.User, string, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*shared.AuthClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.AuthClaims), args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*models.User, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) SetAvatar(ctx context.Context, userID string, file io.Reader) (string, error) {
	args := m.Called(ctx, userID, file)
	return args.String(0), args.Error(1)
}

type MockArticleService struct {
	mock.Mock
}

func (m *MockArticleService) List(ctx context.Context, viewerID string, query dto.ArticleListQuery) ([]dto.ArticleResponse, error) {
	args := m.Called(ctx, viewerID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.ArticleResponse), args.Error(1)
}

func (m *MockArticleService) Get(ctx context.Context, viewerID string, id int64) (*dto.ArticleResponse, error) {
	args := m.Called(ctx, viewerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ArticleResponse), args.Error(1)
}

func (m *MockArticleService) Favorite(ctx context.Context, userID string, id int64) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockArticleService) Unfavorite(ctx context.Context, userID string, id int64) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockArticleService) FavoriteStatus(ctx context.Context, userID string, id int64) (bool, error) {
	args := m.Called(ctx, userID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockArticleService) Citation(ctx context.Context, id int64, format string) (string, error) {
	args := m.Called(ctx, id, format)
	return args.String(0), args.Error(1)
}

func (m *MockArticleService) Citations(ctx context.Context, id int64) (*dto.CitationsResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CitationsResponse), args.Error(1)
}

func (m *MockArticleService) ListByUser(ctx context.Context, userID string) ([]dto.ArticleResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.ArticleResponse), args.Error(1)
}

func (m *MockArticleService) ListFavorites(ctx context.Context, userID string) ([]dto.ArticleResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.ArticleResponse), args.Error(1)
}

type MockSubmissionService struct {
	mock.Mock
}

func (m *MockSubmissionService) submission(args mock.Arguments) (*models.Submission, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Submission), args.Error(1)
}

func (m *MockSubmissionService) submissions(args mock.Arguments) ([]models.Submission, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Submission), args.Error(1)
}

func (m *MockSubmissionService) Create(ctx context.Context, userID string, in service.SubmissionInput) (*models.Submission, error) {
	return m.submission(m.Called(ctx, userID, in))
}

func (m *MockSubmissionService) Update(ctx context.Context, caller *shared.AuthClaims, id int64, patch service.SubmissionPatch) (*models.Submission, error) {
	return m.submission(m.Called(ctx, caller, id, patch))
}

func (m *MockSubmissionService) Approve(ctx context.Context, adminID string, id int64) (*models.Article, error) {
	args := m.Called(ctx, adminID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Article), args.Error(1)
}

func (m *MockSubmissionService) Reject(ctx context.Context, adminID string, id int64, reason string) (*models.Submission, error) {
	return m.submission(m.Called(ctx, adminID, id, reason))
}

func (m *MockSubmissionService) Delete(ctx context.Context, caller *shared.AuthClaims, id int64) error {
	return m.Called(ctx, caller, id).Error(0)
}

func (m *MockSubmissionService) Get(ctx context.Context, caller *shared.AuthClaims, id int64) (*models.Submission, error) {
	return m.submission(m.Called(ctx, caller, id))
}

func (m *MockSubmissionService) ListMine(ctx context.Context, userID string) ([]models.Submission, error) {
	return m.submissions(m.Called(ctx, userID))
}

func (m *MockSubmissionService) ListDrafts(ctx context.Context, userID string) ([]models.Submission, error) {
	return m.submissions(m.Called(ctx, userID))
}

func (m *MockSubmissionService) AdminList(ctx context.Context, status string) ([]models.Submission, error) {
	return m.submissions(m.Called(ctx, status))
}

type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) List(ctx context.Context, articleID int64, viewerID string) ([]models.CommentView, error) {
	args := m.Called(ctx, articleID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CommentView), args.Error(1)
}

func (m *MockCommentService) Create(ctx context.Context, userID string, articleID int64, content string, parentID *int64) (*models.CommentView, error) {
	args := m.Called(ctx, userID, articleID, content, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CommentView), args.Error(1)
}

func (m *MockCommentService) Like(ctx context.Context, userID string, commentID int64) (int64, error) {
	args := m.Called(ctx, userID, commentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommentService) Unlike(ctx context.Context, userID string, commentID int64) (int64, error) {
	args := m.Called(ctx, userID, commentID)
	return args.Get(0).(int64), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) List(ctx context.Context, userID string) ([]models.Notification, int64, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) MarkAsRead(ctx context.Context, userID string, notificationID int64) error {
	return m.Called(ctx, userID, notificationID).Error(0)
}

func (m *MockNotificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockNotificationService) Delete(ctx context.Context, userID string, notificationID int64) error {
	return m.Called(ctx, userID, notificationID).Error(0)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Profile(ctx context.Context, userID string) (*dto.PublicUserResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PublicUserResponse), args.Error(1)
}

func (m *MockUserService) Articles(ctx context.Context, userID string) ([]dto.ArticleResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.ArticleResponse), args.Error(1)
}

func (m *MockUserService) Favorites(ctx context.Context, userID string) ([]dto.ArticleResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.ArticleResponse), args.Error(1)
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
