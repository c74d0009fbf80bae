package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"veritaslab/internal/config"
	"veritaslab/internal/microservices/http-api/dto"
	"veritaslab/internal/microservices/http-api/models"
	"veritaslab/internal/microservices/http-api/repository"
	"veritaslab/internal/middleware/auth"
	"veritaslab/internal/shared"
	"veritaslab/internal/storage"

	"github.com/golang-jwt/jwt/v5"
)

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	ValidateToken(tokenString string) (*shared.AuthClaims, error)
	Me(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*models.User, error)
	SetAvatar(ctx context.Context, userID string, file io.Reader) (string, error)
}

// tokenClaims is the JWT payload: id, username, role plus exp/iat.
type tokenClaims struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	userRepo  repository.UserRepository
	blobs     storage.BlobStore
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

func NewAuthService(
	userRepo repository.UserRepository,
	blobs storage.BlobStore,
	cfg *config.Config,
	logger *slog.Logger,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		blobs:     blobs,
		jwtSecret: []byte(cfg.JWTSecret),
		tokenTTL:  cfg.JWTExpiry, // 7 days by default
		logger:    logger,
		now:       time.Now,
	}
}

// Register creates the account and signs the user in.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	// Check if user exists
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, "", ErrNameInUse
	} else if !repository.IsNotFound(err) {
		return nil, "", fmt.Errorf("failed to check username: %w", err)
	}

	// Check if email exists
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailInUse
	} else if !repository.IsNotFound(err) {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hashedPassword,
		Role:     models.RoleUser,
	}
	if req.FullName != nil {
		if name := strings.TrimSpace(*req.FullName); name != "" {
			user.FullName = &name
		}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if constraint, ok := repository.UniqueViolationConstraint(err); ok {
			if strings.Contains(constraint, "username") {
				return nil, "", ErrNameInUse
			}
			return nil, "", ErrEmailInUse
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, token, nil
}

// Login authenticates by email and returns a signed token.
func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if !repository.IsNotFound(err) {
			return nil, "", fmt.Errorf("failed to load user: %w", err)
		}
		// same work as a wrong password to mitigate timing attacks
		auth.BurnCompare(password)
		return nil, "", ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) generateToken(user *models.User) (string, error) {
	now := s.now()
	claims := tokenClaims{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *authService) ValidateToken(tokenString string) (*shared.AuthClaims, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	return &shared.AuthClaims{
		UserID:   claims.ID,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}

func (s *authService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*models.User, error) {
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, ErrFullNameRequired
	}
	var bio *string
	if req.Bio != nil {
		trimmed := strings.TrimSpace(*req.Bio)
		bio = &trimmed
	}

	if err := s.userRepo.UpdateProfile(ctx, userID, fullName, bio); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.Me(ctx, userID)
}

// SetAvatar stores an image and points the user's avatar at it.
// The previous avatar is removed best-effort.
func (s *authService) SetAvatar(ctx context.Context, userID string, file io.Reader) (string, error) {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return "", err
	}

	url, err := s.blobs.Put(ctx, file, storage.ImageTypes)
	if err != nil {
		return "", err
	}

	if err := s.userRepo.UpdateAvatar(ctx, userID, url); err != nil {
		if delErr := s.blobs.Delete(ctx, url); delErr != nil {
			s.logger.Warn("failed to clean up avatar", "url", url, "error", delErr)
		}
		return "", fmt.Errorf("failed to update avatar: %w", err)
	}

	if user.AvatarURL != nil && *user.AvatarURL != "" {
		if err := s.blobs.Delete(ctx, *user.AvatarURL); err != nil {
			s.logger.Warn("failed to delete old avatar", "url", *user.AvatarURL, "error", err)
		}
	}
	return url, nil
}
