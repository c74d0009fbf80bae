package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories bundles every repository bound to the same connection or transaction.
type Repositories struct {
	Users         UserRepository
	Submissions   SubmissionRepository
	Articles      ArticleRepository
	Tags          TagRepository
	Comments      CommentRepository
	Notifications NotificationRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:         NewUserRepository(db),
		Submissions:   NewSubmissionRepository(db),
		Articles:      NewArticleRepository(db),
		Tags:          NewTagRepository(db),
		Comments:      NewCommentRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}

// UnitOfWork runs fn against repositories sharing one transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos Repositories) error) error
}

type gormUnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func (u *gormUnitOfWork) Do(ctx context.Context, fn func(repos Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
