package models

import "time"

const (
	NotificationCommentLike        = "comment_like"
	NotificationCommentReply       = "comment_reply"
	NotificationSubmissionApproved = "submission_approved"
	NotificationSubmissionRejected = "submission_rejected"
)

type Notification struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Type          string    `gorm:"not null" json:"type"`
	Title         string    `gorm:"not null" json:"title"`
	Message       string    `gorm:"type:text;not null" json:"message"`
	Link          *string   `json:"link"`
	RelatedID     *int64    `json:"related_id"`
	RelatedUserID *string   `gorm:"type:uuid" json:"related_user_id"`
	IsRead        bool      `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	// read-only projections of the related user
	RelatedUserName   *string `gorm:"->;-:migration" json:"related_user_name,omitempty"`
	RelatedUserAvatar *string `gorm:"->;-:migration" json:"related_user_avatar,omitempty"`

	// Associations
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}
