// Package seed fills a development database with fake data by driving the
// same services the API uses, so generated rows get tags and notifications
// exactly like real ones.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/bxcodec/faker/v4"

	"veritaslab/internal/microservices/http-api/dto"
	"veritaslab/internal/microservices/http-api/models"
	"veritaslab/internal/microservices/http-api/service"
)

type Registrar interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*models.User, string, error)
}

type RoleSetter interface {
	SetRole(ctx context.Context, id, role string) error
}

type Submissions interface {
	Create(ctx context.Context, userID string, in service.SubmissionInput) (*models.Submission, error)
	Approve(ctx context.Context, adminID string, id int64) (*models.Article, error)
	Reject(ctx context.Context, adminID string, id int64, reason string) (*models.Submission, error)
}

type Comments interface {
	Create(ctx context.Context, userID string, articleID int64, content string, parentID *int64) (*models.CommentView, error)
	Like(ctx context.Context, userID string, commentID int64) (int64, error)
}

// Areas, types and impact levels double as keywords so the feed filters have data.
var (
	areas   = []string{"Computer Science", "Physics", "Biology", "Mathematics", "Economics", "Philosophy"}
	types   = []string{"Research Article", "Review", "Case Study", "Short Communication"}
	impacts = []string{"High Impact", "Medium Impact", "Emerging"}
)

type Options struct {
	Users       int
	Submissions int
	Password    string // shared by every generated account
	AdminEmail  string // the first account gets this email and the admin role
}

type Report struct {
	Users    int
	Admin    string
	Approved int
	Rejected int
	Pending  int
	Comments int
	Likes    int
}

type Seeder struct {
	users       Registrar
	roles       RoleSetter
	submissions Submissions
	comments    Comments
	logger      *slog.Logger
	rnd         *rand.Rand
}

func New(users Registrar, roles RoleSetter, submissions Submissions, comments Comments, logger *slog.Logger, seed int64) *Seeder {
	return &Seeder{
		users:       users,
		roles:       roles,
		submissions: submissions,
		comments:    comments,
		logger:      logger.With("component", "seed"),
		rnd:         rand.New(rand.NewSource(seed)),
	}
}

// maxAttemptsPerUser bounds retries on faker collisions.
const maxAttemptsPerUser = 5

func (s *Seeder) Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Users < 2 {
		return nil, errors.New("need at least 2 users: one admin and one author")
	}
	if len(opts.Password) < 6 {
		return nil, errors.New("password must be at least 6 characters long")
	}

	report := &Report{}

	users, err := s.createUsers(ctx, opts)
	if err != nil {
		return nil, err
	}
	report.Users = len(users)

	admin := users[0]
	if err := s.roles.SetRole(ctx, admin.ID, models.RoleAdmin); err != nil {
		return nil, fmt.Errorf("failed to promote admin: %w", err)
	}
	report.Admin = admin.Email
	authors := users[1:]

	var articles []int64
	for i := 0; i < opts.Submissions; i++ {
		owner := authors[s.rnd.Intn(len(authors))]
		submission, err := s.submissions.Create(ctx, owner.ID, s.fakeSubmission())
		if err != nil {
			return nil, fmt.Errorf("failed to create submission: %w", err)
		}

		switch roll := s.rnd.Float64(); {
		case roll < 0.7:
			article, err := s.submissions.Approve(ctx, admin.ID, submission.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to approve submission %d: %w", submission.ID, err)
			}
			articles = append(articles, article.ID)
			report.Approved++
		case roll < 0.85:
			if _, err := s.submissions.Reject(ctx, admin.ID, submission.ID, faker.Sentence()); err != nil {
				return nil, fmt.Errorf("failed to reject submission %d: %w", submission.ID, err)
			}
			report.Rejected++
		default:
			report.Pending++
		}
	}

	for _, articleID := range articles {
		if err := s.discuss(ctx, articleID, users, report); err != nil {
			return nil, err
		}
	}

	s.logger.Info("seed finished",
		"users", report.Users,
		"approved", report.Approved,
		"rejected", report.Rejected,
		"pending", report.Pending,
		"comments", report.Comments,
		"likes", report.Likes,
	)
	return report, nil
}

func (s *Seeder) createUsers(ctx context.Context, opts Options) ([]*models.User, error) {
	users := make([]*models.User, 0, opts.Users)
	for len(users) < opts.Users {
		var (
			user *models.User
			err  error
		)
		for attempt := 0; attempt < maxAttemptsPerUser; attempt++ {
			req := dto.RegisterRequest{
				Username: strings.ToLower(faker.Username()),
				Email:    strings.ToLower(faker.Email()),
				Password: opts.Password,
				FullName: ptr(faker.Name()),
			}
			if len(users) == 0 && opts.AdminEmail != "" {
				req.Email = opts.AdminEmail
			}

			user, _, err = s.users.Register(ctx, req)
			if errors.Is(err, service.ErrNameInUse) || errors.Is(err, service.ErrEmailInUse) {
				s.logger.Debug("fake identity collided, retrying", "username", req.Username)
				continue
			}
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to register user: %w", err)
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) fakeSubmission() service.SubmissionInput {
	authors := make([]models.Author, 1+s.rnd.Intn(3))
	for i := range authors {
		authors[i] = models.Author{Name: faker.Name(), Email: faker.Email()}
	}

	area := pick(s.rnd, areas)
	keywords := []string{area, pick(s.rnd, types), pick(s.rnd, impacts)}
	for i := s.rnd.Intn(3); i > 0; i-- {
		keywords = append(keywords, faker.Word())
	}

	return service.SubmissionInput{
		Title:    strings.TrimSuffix(faker.Sentence(), "."),
		Abstract: faker.Paragraph(),
		Authors:  authors,
		Keywords: keywords,
		Area:     area,
	}
}

// discuss adds a few comments, replies and likes to one article.
func (s *Seeder) discuss(ctx context.Context, articleID int64, users []*models.User, report *Report) error {
	var threads []int64
	for i := s.rnd.Intn(4); i > 0; i-- {
		author := users[s.rnd.Intn(len(users))]

		var parent *int64
		if len(threads) > 0 && s.rnd.Intn(2) == 0 {
			parent = &threads[s.rnd.Intn(len(threads))]
		}

		comment, err := s.comments.Create(ctx, author.ID, articleID, faker.Sentence(), parent)
		if err != nil {
			return fmt.Errorf("failed to comment on article %d: %w", articleID, err)
		}
		report.Comments++
		if parent == nil {
			threads = append(threads, comment.ID)
		}

		for j := s.rnd.Intn(3); j > 0; j-- {
			liker := users[s.rnd.Intn(len(users))]
			if _, err := s.comments.Like(ctx, liker.ID, comment.ID); err != nil {
				return fmt.Errorf("failed to like comment %d: %w", comment.ID, err)
			}
			report.Likes++
		}
	}
	return nil
}

func pick(rnd *rand.Rand, from []string) string {
	return from[rnd.Intn(len(from))]
}

func ptr[T any](v T) *T {
	return &v
}
