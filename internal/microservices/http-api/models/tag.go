package models

type Tag struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

func (Tag) TableName() string {
	return "tags"
}

// ArticleTag is the explicit join model, one row per (article, tag) pair.
type ArticleTag struct {
	ArticleID int64 `json:"article_id" gorm:"primaryKey"`
	TagID     int64 `json:"tag_id" gorm:"primaryKey;index"`
}

func (ArticleTag) TableName() string {
	return "article_tags"
}
