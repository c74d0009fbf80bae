package dto

import (
	"encoding/json"
	"fmt"
	"strings"

	"veritaslab/internal/microservices/http-api/models"
)

// Submission form field names (multipart/form-data).
const (
	FormTitle    = "title"
	FormAbstract = "abstract"
	FormAuthors  = "authors"
	FormKeywords = "keywords"
	FormArea     = "area"
	FormStatus   = "status"
	FormFile     = "file"
	FormAvatar   = "avatar"
)

// CreateSubmissionForm binds the multipart body of POST /submissions.
type CreateSubmissionForm struct {
	Title    string `form:"title" binding:"required,max=500"`
	Abstract string `form:"abstract" binding:"max=20000"`
	Authors  string `form:"authors"`
	Keywords string `form:"keywords"`
	Area     string `form:"area" binding:"max=200"`
	Status   string `form:"status" binding:"omitempty,oneof=draft pending"`
}

// UpdateSubmissionRequest is the JSON form of PATCH /submissions/:id.
// Omitted fields keep their stored value.
type UpdateSubmissionRequest struct {
	Title    *string          `json:"title" binding:"omitempty,max=500"`
	Abstract *string          `json:"abstract" binding:"omitempty,max=20000"`
	Authors  *[]models.Author `json:"authors"`
	Keywords *string          `json:"keywords"`
	Area     *string          `json:"area" binding:"omitempty,max=200"`
	Status   *string          `json:"status"`
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"max=2000"`
}

type AdminListQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=draft pending approved rejected"`
}

// ParseAuthors decodes the JSON array of co-authors sent in the authors field.
// An empty value yields no authors.
func ParseAuthors(raw string) ([]models.Author, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []models.Author{}, nil
	}
	var authors []models.Author
	if err := json.Unmarshal([]byte(raw), &authors); err != nil {
		return nil, fmt.Errorf("authors must be a JSON array: %w", err)
	}
	return CleanAuthors(authors), nil
}

// CleanAuthors trims every field and drops authors without a name.
func CleanAuthors(authors []models.Author) []models.Author {
	kept := make([]models.Author, 0, len(authors))
	for _, a := range authors {
		a.Name = strings.TrimSpace(a.Name)
		if a.Name == "" {
			continue
		}
		a.Affiliation = strings.TrimSpace(a.Affiliation)
		a.Email = strings.TrimSpace(a.Email)
		kept = append(kept, a)
	}
	return kept
}

// ParseKeywords splits a comma-separated keyword list, dropping blanks.
func ParseKeywords(raw string) []string {
	keywords := []string{}
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	return keywords
}
