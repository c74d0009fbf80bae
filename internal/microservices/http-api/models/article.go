package models

import (
	"time"

	"gorm.io/datatypes"
)

const ArticleStatusPublished = "published"

type Article struct {
	ID           int64                      `json:"id" gorm:"primaryKey;autoIncrement"`
	Title        string                     `json:"title" gorm:"not null"`
	Abstract     string                     `json:"abstract" gorm:"type:text"`
	Authors      datatypes.JSONSlice[Author] `json:"authors" gorm:"type:jsonb"`
	ContentURL   *string                    `json:"content_url"`
	DOI          *string                    `json:"doi"`
	Status       string                     `json:"status" gorm:"not null;default:'published';index"`
	PublishedAt  time.Time                  `json:"published_at" gorm:"not null;index"`
	CreatedBy    string                     `json:"created_by" gorm:"type:uuid;not null;index"`
	SubmissionID *int64                     `json:"submission_id" gorm:"uniqueIndex"`
	Views        int64                      `json:"views" gorm:"not null;default:0"`

	// read-only projection of the creator's full name
	AuthorName *string `json:"author_name" gorm:"->;-:migration"`

	// Associations
	Creator *User `json:"-" gorm:"foreignKey:CreatedBy;constraint:OnDelete:CASCADE;"`
	Tags    []Tag `json:"-" gorm:"many2many:article_tags;constraint:OnDelete:CASCADE;"`
}

func (Article) TableName() string {
	return "articles"
}

// TagNames returns the names of the preloaded tags.
func (a *Article) TagNames() []string {
	names := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		names = append(names, t.Name)
	}
	return names
}
