package dto

import (
	"time"

	"veritaslab/internal/microservices/http-api/models"
)

// Data Transfer Objects for authentication requests and responses

// RegisterRequest: payload for user registration
type RegisterRequest struct {
	Username string  `json:"username" binding:"required,min=3,max=50"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=6,max=72"`
	FullName *string `json:"full_name" binding:"omitempty,max=120"`
}

// LoginRequest: payload for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest: payload for PATCH /auth/me
type UpdateProfileRequest struct {
	FullName string  `json:"full_name" binding:"required,max=120"`
	Bio      *string `json:"bio" binding:"omitempty,max=2000"`
}

// UserResponse is the account as seen by its owner.
type UserResponse struct {
	ID                string    `json:"id"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	Role              string    `json:"role"`
	FullName          *string   `json:"full_name"`
	Bio               *string   `json:"bio"`
	AvatarURL         *string   `json:"avatar_url"`
	Citations         int       `json:"citations"`
	Rating            float64   `json:"rating"`
	PublicationsCount int       `json:"publications_count"`
	CreatedAt         time.Time `json:"created_at"`
}

func FromModelToUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:                user.ID,
		Username:          user.Username,
		Email:             user.Email,
		Role:              user.Role,
		FullName:          user.FullName,
		Bio:               user.Bio,
		AvatarURL:         user.AvatarURL,
		Citations:         user.Citations,
		Rating:            user.Rating,
		PublicationsCount: user.PublicationsCount,
		CreatedAt:         user.CreatedAt,
	}
}

// PublicUserResponse is a profile as seen by other users, without the email.
type PublicUserResponse struct {
	ID                string    `json:"id"`
	Username          string    `json:"username"`
	FullName          *string   `json:"full_name"`
	Bio               *string   `json:"bio"`
	AvatarURL         *string   `json:"avatar_url"`
	Citations         int       `json:"citations"`
	Rating            float64   `json:"rating"`
	PublicationsCount int       `json:"publications_count"`
	CreatedAt         time.Time `json:"created_at"`
}

func FromModelToPublicUserResponse(user *models.User) PublicUserResponse {
	return PublicUserResponse{
		ID:                user.ID,
		Username:          user.Username,
		FullName:          user.FullName,
		Bio:               user.Bio,
		AvatarURL:         user.AvatarURL,
		Citations:         user.Citations,
		Rating:            user.Rating,
		PublicationsCount: user.PublicationsCount,
		CreatedAt:         user.CreatedAt,
	}
}

// AuthResponse: response payload after successful authentication
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

type AvatarResponse struct {
	Message   string `json:"message"`
	AvatarURL string `json:"avatar_url"`
}
