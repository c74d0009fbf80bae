package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

const (
	SubmissionStatusDraft    = "draft"
	SubmissionStatusPending  = "pending"
	SubmissionStatusApproved = "approved"
	SubmissionStatusRejected = "rejected"
)

type Submission struct {
	ID              int64                      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title           string                     `gorm:"not null" json:"title"`
	Abstract        string                     `gorm:"type:text" json:"abstract"`
	Authors         datatypes.JSONSlice[Author] `gorm:"type:jsonb" json:"authors"`
	Keywords        pq.StringArray             `gorm:"type:text[]" json:"keywords"`
	Area            *string                    `json:"area"`
	FileURL         *string                    `json:"file_url"`
	Status          string                     `gorm:"not null;default:'pending';index" json:"status"`
	SubmittedBy     string                     `gorm:"type:uuid;not null;index" json:"submitted_by"`
	DecisionBy      *string                    `gorm:"type:uuid" json:"decision_by"`
	DecisionAt      *time.Time                 `json:"decision_at"`
	RejectionReason *string                    `gorm:"type:text" json:"rejection_reason,omitempty"`
	SubmittedAt     time.Time                  `gorm:"autoCreateTime" json:"submitted_at"`
	UpdatedAt       time.Time                  `gorm:"autoUpdateTime" json:"updated_at"`

	// read-only projections filled by list queries
	ArticleID     *int64  `gorm:"->;-:migration" json:"article_id,omitempty"`
	SubmitterName *string `gorm:"->;-:migration" json:"submitter_name,omitempty"`

	// Associations
	Submitter *User `gorm:"foreignKey:SubmittedBy;constraint:OnDelete:CASCADE;" json:"-"`
}

func (Submission) TableName() string {
	return "submissions"
}

// IsTerminal reports whether an admin decision has already been taken.
func (s *Submission) IsTerminal() bool {
	return s.Status == SubmissionStatusApproved || s.Status == SubmissionStatusRejected
}

// IsOwnedBy reports whether userID submitted s.
func (s *Submission) IsOwnedBy(userID string) bool {
	return s.SubmittedBy == userID
}
