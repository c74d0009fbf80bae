package repository

import (
	"context"

	"veritaslab/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	FindByID(ctx context.Context, id int64) (*models.Submission, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id int64) (*models.Submission, error)
	Update(ctx context.Context, id int64, fields map[string]any) error
	// UpdateEditable writes fields only while the submission is still a draft or pending.
	UpdateEditable(ctx context.Context, id int64, fields map[string]any) error
	Delete(ctx context.Context, id int64) error
	ListByUser(ctx context.Context, userID, status string) ([]models.Submission, error)
	ListByStatus(ctx context.Context, status string) ([]models.Submission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) FindByID(ctx context.Context, id int64) (*models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).First(&submission, id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) FindByIDForUpdate(ctx context.Context, id int64) (*models.Submission, error) {
	var submission models.Submission
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&submission, id).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// Update writes only the given columns.
func (r *submissionRepository) Update(ctx context.Context, id int64, fields map[string]any) error {
	result := r.db.WithContext(ctx).Model(&models.Submission{ID: id}).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *submissionRepository) UpdateEditable(ctx context.Context, id int64, fields map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.Submission{ID: id}).
		Where("status IN ?", []string{models.SubmissionStatusDraft, models.SubmissionStatusPending}).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Submission{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return ErrNotEditable
}

func (r *submissionRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Submission{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByUser returns the user's submissions newest first, each with the id of
// the article it produced. An empty status lists every state.
func (r *submissionRepository) ListByUser(ctx context.Context, userID, status string) ([]models.Submission, error) {
	var submissions []models.Submission
	q := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Select("submissions.*, articles.id AS article_id").
		Joins("LEFT JOIN articles ON articles.submission_id = submissions.id").
		Where("submissions.submitted_by = ?", userID)
	if status != "" {
		q = q.Where("submissions.status = ?", status)
	}
	err := q.Order("submissions.submitted_at DESC").Find(&submissions).Error
	return submissions, err
}

// ListByStatus is the moderation queue, newest first, with the submitter name.
func (r *submissionRepository) ListByStatus(ctx context.Context, status string) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Select("submissions.*, COALESCE(users.full_name, users.username) AS submitter_name").
		Joins("JOIN users ON users.id = submissions.submitted_by").
		Where("submissions.status = ?", status).
		Order("submissions.submitted_at DESC").
		Find(&submissions).Error
	return submissions, err
}
