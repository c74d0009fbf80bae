package service

import (
	"context"
	"io"
	"log/slog"

	"veritaslab/internal/microservices/http-api/models"
	"veritaslab/internal/microservices/http-api/repository"

	"github.com/stretchr/testify/mock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id, fullName string, bio *string) error {
	args := m.Called(ctx, id, fullName, bio)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	args := m.Called(ctx, id, avatarURL)
	return args.Error(0)
}

func (m *MockUserRepository) IncrementPublications(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) SetRole(ctx context.Context, id, role string) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

// MockSubmissionRepository mocks the SubmissionRepository interface
type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	args := m.Called(ctx, submission)
	return args.Error(0)
}

func (m *MockSubmissionRepository) FindByID(ctx context.Context, id int64) (*models.Submission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) FindByIDForUpdate(ctx context.Context, id int64) (*models.Submission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) Update(ctx context.Context, id int64, fields map[string]any) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockSubmissionRepository) UpdateEditable(ctx context.Context, id int64, fields map[string]any) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockSubmissionRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSubmissionRepository) ListByUser(ctx context.Context, userID, status string) ([]models.Submission, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) ListByStatus(ctx context.Context, status string) ([]models.Submission, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Submission), args.Error(1)
}

// MockArticleRepository mocks the ArticleRepository interface
type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) Create(ctx context.Context, article *models.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}

func (m *MockArticleRepository) FindByID(ctx context.Context, id int64) (*models.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Article), args.Error(1)
}

func (m *MockArticleRepository) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockArticleRepository) List(ctx context.Context, filter repository.ArticleFilter) ([]models.Article, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Article), args.Error(1)
}

func (m *MockArticleRepository) ListByCreator(ctx context.Context, userID string) ([]models.Article, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Article), args.Error(1)
}

func (m *MockArticleRepository) AddViews(ctx context.Context, id, delta int64) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *MockArticleRepository) AddFavorite(ctx context.Context, userID string, articleID int64) error {
	args := m.Called(ctx, userID, articleID)
	return args.Error(0)
}

func (m *MockArticleRepository) RemoveFavorite(ctx context.Context, userID string, articleID int64) error {
	args := m.Called(ctx, userID, articleID)
	return args.Error(0)
}

func (m *MockArticleRepository) IsFavorite(ctx context.Context, userID string, articleID int64) (bool, error) {
	args := m.Called(ctx, userID, articleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockArticleRepository) FavoritedAmong(ctx context.Context, userID string, articleIDs []int64) (map[int64]bool, error) {
	args := m.Called(ctx, userID, articleIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]bool), args.Error(1)
}

func (m *MockArticleRepository) ListFavorites(ctx context.Context, userID string) ([]models.Article, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Article), args.Error(1)
}

// MockTagRepository mocks the TagRepository interface
type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) Upsert(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTagRepository) Link(ctx context.Context, articleID, tagID int64) error {
	args := m.Called(ctx, articleID, tagID)
	return args.Error(0)
}

// MockCommentRepository mocks the CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, commentID int64) (*models.Comment, error) {
	args := m.Called(ctx, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListByArticle(ctx context.Context, articleID int64) ([]models.CommentView, error) {
	args := m.Called(ctx, articleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CommentView), args.Error(1)
}

func (m *MockCommentRepository) GetView(ctx context.Context, commentID int64) (*models.CommentView, error) {
	args := m.Called(ctx, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CommentView), args.Error(1)
}

func (m *MockCommentRepository) LikedByUser(ctx context.Context, userID string, articleID int64) (map[int64]bool, error) {
	args := m.Called(ctx, userID, articleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]bool), args.Error(1)
}

func (m *MockCommentRepository) Like(ctx context.Context, userID string, commentID int64) (bool, error) {
	args := m.Called(ctx, userID, commentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCommentRepository) Unlike(ctx context.Context, userID string, commentID int64) error {
	args := m.Called(ctx, userID, commentID)
	return args.Error(0)
}

func (m *MockCommentRepository) CountLikes(ctx context.Context, commentID int64) (int64, error) {
	args := m.Called(ctx, commentID)
	return args.Get(0).(int64), args.Error(1)
}

// MockNotificationRepository mocks the NotificationRepository interface
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkAsRead(ctx context.Context, notificationID int64, userID string) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllAsRead(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) Delete(ctx context.Context, notificationID int64, userID string) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}

// mockRepos bundles one mock per repository.
type mockRepos struct {
	users         *MockUserRepository
	submissions   *MockSubmissionRepository
	articles      *MockArticleRepository
	tags          *MockTagRepository
	comments      *MockCommentRepository
	notifications *MockNotificationRepository
}

func newMockRepos() *mockRepos {
	return &mockRepos{
		users:         new(MockUserRepository),
		submissions:   new(MockSubmissionRepository),
		articles:      new(MockArticleRepository),
		tags:          new(MockTagRepository),
		comments:      new(MockCommentRepository),
		notifications: new(MockNotificationRepository),
	}
}

func (m *mockRepos) Repositories() repository.Repositories {
	return repository.Repositories{
		Users:         m.users,
		Submissions:   m.submissions,
		Articles:      m.articles,
		Tags:          m.tags,
		Comments:      m.comments,
		Notifications: m.notifications,
	}
}

func (m *mockRepos) AssertExpectations(t mock.TestingT) {
	m.users.AssertExpectations(t)
	m.submissions.AssertExpectations(t)
	m.articles.AssertExpectations(t)
	m.tags.AssertExpectations(t)
	m.comments.AssertExpectations(t)
	m.notifications.AssertExpectations(t)
}

// fakeUnitOfWork runs fn against the mocks and records whether it committed.
type fakeUnitOfWork struct {
	repos      *mockRepos
	committed  bool
	rolledBack bool
}

func (u *fakeUnitOfWork) Do(_ context.Context, fn func(repos repository.Repositories) error) error {
	if err := fn(u.repos.Repositories()); err != nil {
		u.rolledBack = true
		return err
	}
	u.committed = true
	return nil
}

// MockBlobStore mocks storage.BlobStore
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Put(ctx context.Context, r io.Reader, allowed []string) (string, error) {
	args := m.Called(ctx, r, allowed)
	return args.String(0), args.Error(1)
}

func (m *MockBlobStore) Delete(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

// MockViewCounter mocks ViewCounter
type MockViewCounter struct {
	mock.Mock
}

func (m *MockViewCounter) Incr(ctx context.Context, articleID int64) (int64, error) {
	args := m.Called(ctx, articleID)
	return args.Get(0).(int64), args.Error(1)
}

// recordingPublisher captures live pushes.
type recordingPublisher struct {
	published []*models.Notification
}

func (p *recordingPublisher) Publish(n *models.Notification) {
	p.published = append(p.published, n)
}
