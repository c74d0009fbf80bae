package dto

// CreateCommentRequest for creating a comment or a reply
type CreateCommentRequest struct {
	Content  string `json:"content" binding:"required,max=5000"`
	ParentID *int64 `json:"parent_id" binding:"omitempty,min=1"`
}

type LikesResponse struct {
	LikesCount int64 `json:"likes_count"`
}
