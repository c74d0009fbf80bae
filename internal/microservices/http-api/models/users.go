package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID                string    `gorm:"primaryKey;type:uuid" json:"id"`
	Username          string    `gorm:"uniqueIndex;not null" json:"username"`
	Email             string    `gorm:"uniqueIndex;not null" json:"email"`
	Password          string    `gorm:"column:password_hash;not null" json:"-"` // Not show in JSON
	Role              string    `gorm:"default:'user';not null" json:"role"`    // "user" or "admin"
	FullName          *string   `json:"full_name"`
	Bio               *string   `gorm:"type:text" json:"bio"`
	AvatarURL         *string   `json:"avatar_url"`
	Citations         int       `gorm:"not null;default:0" json:"citations"`
	Rating            float64   `gorm:"type:decimal(3,2);not null;default:0" json:"rating"`
	PublicationsCount int       `gorm:"not null;default:0" json:"publications_count"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	// If the ID is not already set, generate a new one.
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DisplayName prefers the full name and falls back to the username.
func (u *User) DisplayName() string {
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}
	return u.Username
}
