package models

import "time"

type Comment struct {
	ID              int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Content         string    `json:"content" gorm:"not null;type:text"`
	ArticleID       int64     `json:"article_id" gorm:"not null;index"`
	UserID          string    `json:"user_id" gorm:"type:uuid;not null;index"`
	ParentCommentID *int64    `json:"parent_id" gorm:"index"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Associations
	User    User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Article *Article `json:"-" gorm:"foreignKey:ArticleID;constraint:OnDelete:CASCADE;"`
	Parent  *Comment `json:"-" gorm:"foreignKey:ParentCommentID;constraint:OnDelete:CASCADE;"`
}

func (Comment) TableName() string {
	return "comments"
}

// IsReply reports whether c hangs under another comment.
func (c *Comment) IsReply() bool {
	return c.ParentCommentID != nil
}

type CommentLike struct {
	UserID    string    `json:"user_id" gorm:"type:uuid;primaryKey"`
	CommentID int64     `json:"comment_id" gorm:"primaryKey;index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	Comment *Comment `json:"-" gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE;"`
}

func (CommentLike) TableName() string {
	return "comment_likes"
}

// CommentView is a comment row joined with its author and like count.
type CommentView struct {
	ID              int64     `json:"id"`
	Content         string    `json:"content"`
	CreatedAt       time.Time `json:"created_at"`
	ParentID        *int64    `json:"parent_id"`
	UserID          string    `json:"user_id"`
	FullName        *string   `json:"full_name"`
	Username        string    `json:"username"`
	AvatarURL       *string   `json:"avatar_url"`
	IsArticleAuthor bool      `json:"is_article_author"`
	LikesCount      int64     `json:"likes_count"`
	LikedByMe       *bool     `json:"liked_by_me,omitempty" gorm:"-"`
}
