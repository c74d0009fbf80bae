package models

import "time"

// Favorite is a per-user bookmark on an article.
type Favorite struct {
	UserID    string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	ArticleID int64     `gorm:"primaryKey;index" json:"article_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Associations
	User    *User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
	Article *Article `gorm:"foreignKey:ArticleID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (Favorite) TableName() string {
	return "user_favorites"
}
