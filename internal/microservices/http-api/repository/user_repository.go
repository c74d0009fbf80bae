package repository

import (
	"context"

	"veritaslab/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id, fullName string, bio *string) error
	UpdateAvatar(ctx context.Context, id, avatarURL string) error
	IncrementPublications(ctx context.Context, id string) error
	SetRole(ctx context.Context, id, role string) error
}

// userRepository is the GORM implementation of UserRepository.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository in a GORM implementation
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	// return nil on error, a zero-value user would look like a hit to callers
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id, fullName string, bio *string) error {
	updates := map[string]any{"full_name": fullName}
	if bio != nil {
		updates["bio"] = *bio
	}
	return r.updateOne(ctx, id, updates)
}

func (r *userRepository) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	return r.updateOne(ctx, id, map[string]any{"avatar_url": avatarURL})
}

// IncrementPublications bumps the counter inside its own (nested) transaction,
// so a failure inside an outer transaction only rolls back to the savepoint.
func (r *userRepository) IncrementPublications(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.User{}).
			Where("id = ?", id).
			UpdateColumn("publications_count", gorm.Expr("publications_count + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// SetRole is not reachable from the API; operators promote admins with cmd/seed.
func (r *userRepository) SetRole(ctx context.Context, id, role string) error {
	return r.updateOne(ctx, id, map[string]any{"role": role})
}

func (r *userRepository) updateOne(ctx context.Context, id string, updates map[string]any) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
