package service

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"veritaslab/internal/microservices/http-api/models"
	"veritaslab/internal/microservices/http-api/repository"
)

const previewLen = 50

// Publisher pushes a stored notification to the recipient's live connections.
type Publisher interface {
	Publish(notification *models.Notification)
}

// Notifier records notifications on a best-effort basis: a failure is logged
// and never returned, so it cannot fail the request that triggered it.
type Notifier struct {
	logger    *slog.Logger
	publisher Publisher
}

func NewNotifier(logger *slog.Logger) *Notifier {
	return &Notifier{logger: logger.With("component", "notifier")}
}

// WithPublisher enables live delivery.
func (n *Notifier) WithPublisher(p Publisher) *Notifier {
	n.publisher = p
	return n
}

// Notify writes n through repo, which may be bound to the caller's
// transaction, and reports whether the row was recorded.
func (n *Notifier) Notify(ctx context.Context, repo repository.NotificationRepository, notification *models.Notification) bool {
	if err := repo.Create(ctx, notification); err != nil {
		n.logger.Warn("failed to create notification",
			"type", notification.Type,
			"user_id", notification.UserID,
			"error", err,
		)
		return false
	}
	return true
}

// Publish pushes an already recorded notification. Inside a transaction it
// must only be called after commit. A nil notification is ignored.
func (n *Notifier) Publish(notification *models.Notification) {
	if n.publisher == nil || notification == nil {
		return
	}
	n.publisher.Publish(notification)
}

// NotifyNow records and immediately publishes, for writes outside a transaction.
func (n *Notifier) NotifyNow(ctx context.Context, repo repository.NotificationRepository, notification *models.Notification) {
	if n.Notify(ctx, repo, notification) {
		n.Publish(notification)
	}
}

// ArticleLink is the frontend deep link to an article page.
func ArticleLink(articleID int64) string {
	return fmt.Sprintf("/detalhes.html?id=%d", articleID)
}

func preview(s string) string {
	if utf8.RuneCountInString(s) <= previewLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:previewLen]) + "..."
}

func ptr[T any](v T) *T {
	return &v
}
