package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"veritaslab/internal/microservices/http-api/models"
	"veritaslab/internal/microservices/http-api/repository"
	"veritaslab/internal/shared"
	"veritaslab/internal/storage"
)

// SubmissionInput is a new submission as sent by its owner.
type SubmissionInput struct {
	Title    string
	Abstract string
	Authors  []models.Author
	Keywords []string
	Area     string
	Status   string    // "" means pending
	File     io.Reader // optional
}

// SubmissionPatch holds the fields present in a PATCH request; nil means unchanged.
type SubmissionPatch struct {
	Title    *string
	Abstract *string
	Authors  *[]models.Author
	Keywords *[]string
	Area     *string
	Status   *string
	File     io.Reader
}

func (p SubmissionPatch) empty() bool {
	return p.Title == nil && p.Abstract == nil && p.Authors == nil && p.Keywords == nil &&
		p.Area == nil && p.Status == nil && p.File == nil
}

type SubmissionService interface {
	Create(ctx context.Context, userID string, in SubmissionInput) (*models.Submission, error)
	Update(ctx context.Context, caller *shared.AuthClaims, id int64, patch SubmissionPatch) (*models.Submission, error)
	Approve(ctx context.Context, adminID string, id int64) (*models.Article, error)
	Reject(ctx context.Context, adminID string, id int64, reason string) (*models.Submission, error)
	Delete(ctx context.Context, caller *shared.AuthClaims, id int64) error
	// Get is public for approved submissions; caller may be nil.
	Get(ctx context.Context, caller *shared.AuthClaims, id int64) (*models.Submission, error)
	ListMine(ctx context.Context, userID string) ([]models.Submission, error)
	ListDrafts(ctx context.Context, userID string) ([]models.Submission, error)
	AdminList(ctx context.Context, status string) ([]models.Submission, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	uow         repository.UnitOfWork
	blobs       storage.BlobStore
	notifier    *Notifier
	logger      *slog.Logger
	now         func() time.Time
}

func NewSubmissionService(
	submissions repository.SubmissionRepository,
	uow repository.UnitOfWork,
	blobs storage.BlobStore,
	notifier *Notifier,
	logger *slog.Logger,
) SubmissionService {
	return &submissionService{
		submissions: submissions,
		uow:         uow,
		blobs:       blobs,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
	}
}

func normalizeStatus(status string) (string, error) {
	switch status {
	case "":
		return models.SubmissionStatusPending, nil
	case models.SubmissionStatusDraft, models.SubmissionStatusPending:
		return status, nil
	default:
		return "", ErrInvalidStatus
	}
}

func cleanKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func (s *submissionService) Create(ctx context.Context, userID string, in SubmissionInput) (*models.Submission, error) {
	status, err := normalizeStatus(in.Status)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	abstract := strings.TrimSpace(in.Abstract)
	if abstract == "" && status != models.SubmissionStatusDraft {
		return nil, ErrAbstractRequired
	}

	submission := &models.Submission{
		Title:       title,
		Abstract:    abstract,
		Authors:     in.Authors,
		Keywords:    cleanKeywords(in.Keywords),
		Status:      status,
		SubmittedBy: userID,
	}
	if submission.Authors == nil {
		submission.Authors = []models.Author{}
	}
	if area := strings.TrimSpace(in.Area); area != "" {
		submission.Area = &area
	}

	if in.File != nil {
		url, err := s.blobs.Put(ctx, in.File, storage.DocumentTypes)
		if err != nil {
			return nil, err
		}
		submission.FileURL = &url
	}

	if err := s.submissions.Create(ctx, submission); err != nil {
		s.discardBlob(ctx, submission.FileURL)
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	s.logger.Info("submission created", "submission_id", submission.ID, "user_id", userID, "status", status)
	return submission, nil
}

// load fetches a submission and checks that caller may modify it.
func (s *submissionService) load(ctx context.Context, caller *shared.AuthClaims, id int64) (*models.Submission, error) {
	submission, err := s.submissions.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to load submission: %w", err)
	}
	if caller == nil || (!caller.IsAdmin() && !submission.IsOwnedBy(caller.UserID)) {
		return nil, ErrForbidden
	}
	return submission, nil
}

func (s *submissionService) Update(ctx context.Context, caller *shared.AuthClaims, id int64, patch SubmissionPatch) (*models.Submission, error) {
	if patch.empty() {
		return nil, ErrEmptyPatch
	}

	submission, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if submission.IsTerminal() {
		return nil, fmt.Errorf("%w: submission is %s", ErrInvalidTransition, submission.Status)
	}

	fields := map[string]any{}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		fields["title"] = title
		submission.Title = title
	}
	if patch.Abstract != nil {
		abstract := strings.TrimSpace(*patch.Abstract)
		fields["abstract"] = abstract
		submission.Abstract = abstract
	}
	if patch.Authors != nil {
		submission.Authors = *patch.Authors
		fields["authors"] = submission.Authors
	}
	if patch.Keywords != nil {
		submission.Keywords = cleanKeywords(*patch.Keywords)
		fields["keywords"] = submission.Keywords
	}
	if patch.Area != nil {
		if area := strings.TrimSpace(*patch.Area); area != "" {
			submission.Area = &area
		} else {
			submission.Area = nil
		}
		fields["area"] = submission.Area
	}
	if patch.Status != nil {
		status, err := normalizeStatus(*patch.Status)
		if err != nil {
			return nil, err
		}
		fields["status"] = status
		submission.Status = status
	}
	if submission.Status == models.SubmissionStatusPending && submission.Abstract == "" {
		return nil, ErrAbstractRequired
	}

	oldFile := submission.FileURL
	if patch.File != nil {
		url, err := s.blobs.Put(ctx, patch.File, storage.DocumentTypes)
		if err != nil {
			return nil, err
		}
		fields["file_url"] = url
		submission.FileURL = &url
	}

	// an approval or rejection may have landed since load
	if err := s.submissions.UpdateEditable(ctx, id, fields); err != nil {
		if patch.File != nil {
			s.discardBlob(ctx, submission.FileURL)
		}
		if repository.IsNotFound(err) {
			return nil, ErrSubmissionNotFound
		}
		if errors.Is(err, repository.ErrNotEditable) {
			return nil, fmt.Errorf("%w: submission was decided meanwhile", ErrInvalidTransition)
		}
		return nil, fmt.Errorf("failed to update submission: %w", err)
	}
	if patch.File != nil {
		s.discardBlob(ctx, oldFile)
	}

	return s.submissions.FindByID(ctx, id)
}

// Approve publishes a pending submission as an article. Everything happens in
// one transaction; the publication counter and the notification are
// best-effort and cannot roll the approval back.
func (s *submissionService) Approve(ctx context.Context, adminID string, id int64) (*models.Article, error) {
	var (
		article  *models.Article
		approved *models.Notification
	)

	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		submission, err := lockPending(ctx, repos, id)
		if err != nil {
			return err
		}

		now := s.now()
		article = &models.Article{
			Title:        submission.Title,
			Abstract:     submission.Abstract,
			Authors:      submission.Authors,
			ContentURL:   submission.FileURL,
			Status:       models.ArticleStatusPublished,
			PublishedAt:  now,
			CreatedBy:    submission.SubmittedBy,
			SubmissionID: &submission.ID,
		}
		if err := repos.Articles.Create(ctx, article); err != nil {
			return fmt.Errorf("failed to create article: %w", err)
		}

		for _, keyword := range cleanKeywords(submission.Keywords) {
			tagID, err := repos.Tags.Upsert(ctx, keyword)
			if err != nil {
				return fmt.Errorf("failed to upsert tag %q: %w", keyword, err)
			}
			if err := repos.Tags.Link(ctx, article.ID, tagID); err != nil {
				return fmt.Errorf("failed to link tag %q: %w", keyword, err)
			}
			article.Tags = append(article.Tags, models.Tag{ID: tagID, Name: keyword})
		}

		err = repos.Submissions.Update(ctx, submission.ID, map[string]any{
			"status":      models.SubmissionStatusApproved,
			"decision_by": adminID,
			"decision_at": now,
		})
		if err != nil {
			return fmt.Errorf("failed to approve submission: %w", err)
		}

		if err := repos.Users.IncrementPublications(ctx, submission.SubmittedBy); err != nil {
			s.logger.Warn("failed to increment publications count", "user_id", submission.SubmittedBy, "error", err)
		}

		notification := &models.Notification{
			UserID:        submission.SubmittedBy,
			Type:          models.NotificationSubmissionApproved,
			Title:         "Submission approved!",
			Message:       fmt.Sprintf("Your submission %q was approved and published!", submission.Title),
			Link:          ptr(ArticleLink(article.ID)),
			RelatedID:     ptr(submission.ID),
			RelatedUserID: ptr(adminID),
		}
		if s.notifier.Notify(ctx, repos.Notifications, notification) {
			approved = notification
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Publish(approved)

	s.logger.Info("submission approved", "submission_id", id, "article_id", article.ID, "admin_id", adminID)
	return article, nil
}

func (s *submissionService) Reject(ctx context.Context, adminID string, id int64, reason string) (*models.Submission, error) {
	reason = strings.TrimSpace(reason)
	var (
		rejected *models.Submission
		notice   *models.Notification
	)

	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		submission, err := lockPending(ctx, repos, id)
		if err != nil {
			return err
		}

		now := s.now()
		fields := map[string]any{
			"status":      models.SubmissionStatusRejected,
			"decision_by": adminID,
			"decision_at": now,
		}
		if reason != "" {
			fields["rejection_reason"] = reason
			submission.RejectionReason = &reason
		}
		if err := repos.Submissions.Update(ctx, submission.ID, fields); err != nil {
			return fmt.Errorf("failed to reject submission: %w", err)
		}
		submission.Status = models.SubmissionStatusRejected
		submission.DecisionBy = &adminID
		submission.DecisionAt = &now

		message := fmt.Sprintf("Your submission %q was rejected.", submission.Title)
		if reason != "" {
			message += "\n\nReason: " + reason
		}
		notification := &models.Notification{
			UserID:        submission.SubmittedBy,
			Type:          models.NotificationSubmissionRejected,
			Title:         "Submission rejected",
			Message:       message,
			Link:          ptr("/submissao.html"),
			RelatedID:     ptr(submission.ID),
			RelatedUserID: ptr(adminID),
		}
		if s.notifier.Notify(ctx, repos.Notifications, notification) {
			notice = notification
		}

		rejected = submission
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Publish(notice)

	s.logger.Info("submission rejected", "submission_id", id, "admin_id", adminID)
	return rejected, nil
}

// lockPending locks the submission row and requires it to be pending, so two
// concurrent decisions serialize and the second one fails.
func lockPending(ctx context.Context, repos repository.Repositories, id int64) (*models.Submission, error) {
	submission, err := repos.Submissions.FindByIDForUpdate(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to lock submission: %w", err)
	}
	if submission.Status != models.SubmissionStatusPending {
		return nil, fmt.Errorf("%w: submission is %s", ErrInvalidTransition, submission.Status)
	}
	return submission, nil
}

// Delete removes the submission. The file stays when an article still serves it.
func (s *submissionService) Delete(ctx context.Context, caller *shared.AuthClaims, id int64) error {
	submission, err := s.load(ctx, caller, id)
	if err != nil {
		return err
	}

	if submission.Status != models.SubmissionStatusApproved {
		s.discardBlob(ctx, submission.FileURL)
	}

	if err := s.submissions.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrSubmissionNotFound
		}
		return fmt.Errorf("failed to delete submission: %w", err)
	}

	s.logger.Info("submission deleted", "submission_id", id, "by", caller.UserID)
	return nil
}

func (s *submissionService) Get(ctx context.Context, caller *shared.AuthClaims, id int64) (*models.Submission, error) {
	submission, err := s.submissions.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to load submission: %w", err)
	}
	if submission.Status == models.SubmissionStatusApproved {
		return submission, nil
	}
	if caller == nil || (!caller.IsAdmin() && !submission.IsOwnedBy(caller.UserID)) {
		return nil, ErrForbidden
	}
	return submission, nil
}

func (s *submissionService) ListMine(ctx context.Context, userID string) ([]models.Submission, error) {
	return s.list(s.submissions.ListByUser(ctx, userID, ""))
}

func (s *submissionService) ListDrafts(ctx context.Context, userID string) ([]models.Submission, error) {
	return s.list(s.submissions.ListByUser(ctx, userID, models.SubmissionStatusDraft))
}

// AdminList defaults to the pending queue.
func (s *submissionService) AdminList(ctx context.Context, status string) ([]models.Submission, error) {
	if status == "" {
		status = models.SubmissionStatusPending
	}
	return s.list(s.submissions.ListByStatus(ctx, status))
}

func (s *submissionService) list(submissions []models.Submission, err error) ([]models.Submission, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	if submissions == nil {
		submissions = []models.Submission{}
	}
	return submissions, nil
}

func (s *submissionService) discardBlob(ctx context.Context, url *string) {
	if url == nil || *url == "" {
		return
	}
	if err := s.blobs.Delete(ctx, *url); err != nil {
		s.logger.Warn("failed to delete file", "url", *url, "error", err)
	}
}
