package service

import (
	"context"
	"fmt"

	"veritaslab/internal/microservices/http-api/dto"
	"veritaslab/internal/microservices/http-api/repository"
)

type UserService interface {
	Profile(ctx context.Context, userID string) (*dto.PublicUserResponse, error)
	Articles(ctx context.Context, userID string) ([]dto.ArticleResponse, error)
	Favorites(ctx context.Context, userID string) ([]dto.ArticleResponse, error)
}

type userService struct {
	users    repository.UserRepository
	articles ArticleService
}

func NewUserService(users repository.UserRepository, articles ArticleService) UserService {
	return &userService{users: users, articles: articles}
}

func (s *userService) Profile(ctx context.Context, userID string) (*dto.PublicUserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	profile := dto.FromModelToPublicUserResponse(user)
	return &profile, nil
}

func (s *userService) Articles(ctx context.Context, userID string) ([]dto.ArticleResponse, error) {
	if _, err := s.Profile(ctx, userID); err != nil {
		return nil, err
	}
	return s.articles.ListByUser(ctx, userID)
}

func (s *userService) Favorites(ctx context.Context, userID string) ([]dto.ArticleResponse, error) {
	return s.articles.ListFavorites(ctx, userID)
}
