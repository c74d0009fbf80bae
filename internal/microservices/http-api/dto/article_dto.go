package dto

import (
	"time"

	"veritaslab/internal/microservices/http-api/models"
)

// ArticleListQuery binds GET /articles. area, type and impact may repeat.
type ArticleListQuery struct {
	Page   int      `form:"page" binding:"omitempty,min=1"`
	Search string   `form:"search" binding:"max=200"`
	Area   []string `form:"area"`
	Date   string   `form:"date" binding:"omitempty,oneof=recent all"`
	Type   []string `form:"type"`
	Impact []string `form:"impact"`
}

type CitationQuery struct {
	Format string `form:"format" binding:"omitempty,oneof=apa abnt"`
}

type ArticleResponse struct {
	ID           int64           `json:"id"`
	Title        string          `json:"title"`
	Abstract     string          `json:"abstract"`
	Authors      []models.Author `json:"authors"`
	AuthorName   *string         `json:"author_name"`
	CreatedBy    string          `json:"created_by"`
	ContentURL   *string         `json:"content_url"`
	DOI          *string         `json:"doi"`
	PublishedAt  time.Time       `json:"published_at"`
	SubmissionID *int64          `json:"submission_id,omitempty"`
	Tags         []string        `json:"tags"`
	Views        int64           `json:"views"`
	IsFavorited  bool            `json:"isFavorited"`
}

func FromModelToArticleResponse(article *models.Article) ArticleResponse {
	authors := []models.Author(article.Authors)
	if authors == nil {
		authors = []models.Author{}
	}
	return ArticleResponse{
		ID:           article.ID,
		Title:        article.Title,
		Abstract:     article.Abstract,
		Authors:      authors,
		AuthorName:   article.AuthorName,
		CreatedBy:    article.CreatedBy,
		ContentURL:   article.ContentURL,
		DOI:          article.DOI,
		PublishedAt:  article.PublishedAt,
		SubmissionID: article.SubmissionID,
		Tags:         article.TagNames(),
		Views:        article.Views,
	}
}

type ArticleListResponse struct {
	Articles []ArticleResponse `json:"articles"`
	Page     int               `json:"page"`
}

type FavoriteStatusResponse struct {
	IsFavorited bool `json:"isFavorited"`
}

type CitationResponse struct {
	Format   string `json:"format"`
	Citation string `json:"citation"`
}

type CitationsResponse struct {
	APA  string `json:"apa"`
	ABNT string `json:"abnt"`
}
