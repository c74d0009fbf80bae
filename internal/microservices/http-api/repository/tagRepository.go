package repository

import (
	"context"

	"veritaslab/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TagRepository interface {
	// Upsert returns the id of the tag with exactly this name, creating it if needed.
	Upsert(ctx context.Context, name string) (int64, error)
	Link(ctx context.Context, articleID, tagID int64) error
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Upsert(ctx context.Context, name string) (int64, error) {
	tag := models.Tag{Name: name}
	// the no-op update makes postgres return the existing row's id
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).
		Create(&tag).Error
	if err != nil {
		return 0, err
	}
	return tag.ID, nil
}

func (r *tagRepository) Link(ctx context.Context, articleID, tagID int64) error {
	link := models.ArticleTag{ArticleID: articleID, TagID: tagID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&link).Error
}
