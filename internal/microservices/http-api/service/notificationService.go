package service

import (
	"context"
	"fmt"

	"veritaslab/internal/microservices/http-api/models"
	"veritaslab/internal/microservices/http-api/repository"
)

// NotificationListLimit caps the feed returned by List.
const NotificationListLimit = 50

type NotificationService interface {
	List(ctx context.Context, userID string) ([]models.Notification, int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkAsRead(ctx context.Context, userID string, notificationID int64) error
	MarkAllAsRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID string, notificationID int64) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

// List returns the latest notifications and the total unread count.
func (s *notificationService) List(ctx context.Context, userID string) ([]models.Notification, int64, error) {
	notifications, err := s.repo.ListByUser(ctx, userID, NotificationListLimit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return notifications, unread, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkAsRead fails with ErrNotificationNotFound for ids the user does not own.
func (s *notificationService) MarkAsRead(ctx context.Context, userID string, notificationID int64) error {
	if err := s.repo.MarkAsRead(ctx, notificationID, userID); err != nil {
		if repository.IsNotFound(err) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *notificationService) Delete(ctx context.Context, userID string, notificationID int64) error {
	if err := s.repo.Delete(ctx, notificationID, userID); err != nil {
		if repository.IsNotFound(err) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}
