package dto

import "time"

// Wire types of the VeritasLab API as seen by the CLI.

type RegisterRequest struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName *string `json:"full_name,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type User struct {
	ID                string    `json:"id"`
	Username          string    `json:"username"`
	Email             string    `json:"email,omitempty"`
	Role              string    `json:"role,omitempty"`
	FullName          *string   `json:"full_name"`
	Bio               *string   `json:"bio"`
	AvatarURL         *string   `json:"avatar_url"`
	PublicationsCount int       `json:"publications_count"`
	CreatedAt         time.Time `json:"created_at"`
}

// DisplayName prefers the full name over the username.
func (u User) DisplayName() string {
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}
	return u.Username
}

type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type Author struct {
	Name        string `json:"name"`
	Affiliation string `json:"affiliation,omitempty"`
	Email       string `json:"email,omitempty"`
}

type Article struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Abstract    string    `json:"abstract"`
	Authors     []Author  `json:"authors"`
	AuthorName  *string   `json:"author_name"`
	ContentURL  *string   `json:"content_url"`
	DOI         *string   `json:"doi"`
	PublishedAt time.Time `json:"published_at"`
	Tags        []string  `json:"tags"`
	Views       int64     `json:"views"`
	IsFavorited bool      `json:"isFavorited"`
}

type ArticleQuery struct {
	Page   int
	Search string
	Areas  []string
	Recent bool
	Types  []string
	Impact []string
}

type Citation struct {
	Format   string `json:"format"`
	Citation string `json:"citation"`
}

type Citations struct {
	APA  string `json:"apa"`
	ABNT string `json:"abnt"`
}

type SubmissionRequest struct {
	Title    string
	Abstract string
	Authors  []Author
	Keywords []string
	Area     string
	Draft    bool
	FilePath string
}

type Submission struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Abstract        string     `json:"abstract"`
	Authors         []Author   `json:"authors"`
	Keywords        []string   `json:"keywords"`
	Area            *string    `json:"area"`
	FileURL         *string    `json:"file_url"`
	Status          string     `json:"status"`
	SubmittedBy     string     `json:"submitted_by"`
	DecisionAt      *time.Time `json:"decision_at"`
	RejectionReason *string    `json:"rejection_reason"`
	SubmittedAt     time.Time  `json:"submitted_at"`
	ArticleID       *int64     `json:"article_id"`
	SubmitterName   *string    `json:"submitter_name"`
}

type Comment struct {
	ID              int64     `json:"id"`
	Content         string    `json:"content"`
	CreatedAt       time.Time `json:"created_at"`
	ParentID        *int64    `json:"parent_id"`
	UserID          string    `json:"user_id"`
	FullName        *string   `json:"full_name"`
	Username        string    `json:"username"`
	IsArticleAuthor bool      `json:"is_article_author"`
	LikesCount      int64     `json:"likes_count"`
	LikedByMe       *bool     `json:"liked_by_me"`
}

type Notification struct {
	ID              int64     `json:"id"`
	Type            string    `json:"type"`
	Title           string    `json:"title"`
	Message         string    `json:"message"`
	Link            *string   `json:"link"`
	IsRead          bool      `json:"is_read"`
	CreatedAt       time.Time `json:"created_at"`
	RelatedUserName *string   `json:"related_user_name"`
}
