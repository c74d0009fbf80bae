package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"veritaslab/database"
	"veritaslab/internal/config"
	"veritaslab/internal/microservices/http-api/models"
	"veritaslab/internal/microservices/http-api/repository"
	"veritaslab/internal/microservices/http-api/service"
	"veritaslab/internal/seed"
	"veritaslab/internal/shared"
	"veritaslab/internal/storage"
)

// seed fills a development database with fake users, submissions and
// discussions, and promotes administrators.

var (
	users       int
	submissions int
	password    string
	adminEmail  string
	randomSeed  int64
	promoteMail string
)

var rootCmd = &cobra.Command{
	Use:          "seed",
	Short:        "Fill the database with fake VeritasLab data",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, db, err := connect()
		if err != nil {
			return err
		}
		defer database.Close(db)

		blobs, err := storage.NewLocalStore(cfg.UploadDir, cfg.UploadURLPrefix, cfg.UploadMaxBytes)
		if err != nil {
			return fmt.Errorf("failed to prepare upload dir: %w", err)
		}

		repos := repository.NewRepositories(db)
		notifier := service.NewNotifier(logger)
		seeder := seed.New(
			service.NewAuthService(repos.Users, blobs, cfg, logger),
			repos.Users,
			service.NewSubmissionService(repos.Submissions, repository.NewUnitOfWork(db), blobs, notifier, logger),
			service.NewCommentService(repos, notifier, logger),
			logger,
			randomSeed,
		)

		report, err := seeder.Run(cmd.Context(), seed.Options{
			Users:       users,
			Submissions: submissions,
			Password:    password,
			AdminEmail:  adminEmail,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d users, %d articles, %d rejected, %d pending, %d comments, %d likes\n",
			report.Users, report.Approved, report.Rejected, report.Pending, report.Comments, report.Likes)
		fmt.Fprintf(cmd.OutOrStdout(), "Admin: %s / %s\n", report.Admin, password)
		return nil
	},
}

var promoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Grant the admin role to an existing account",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, db, err := connect()
		if err != nil {
			return err
		}
		defer database.Close(db)

		userRepo := repository.NewUserRepository(db)
		user, err := userRepo.FindByEmail(cmd.Context(), promoteMail)
		if err != nil {
			if repository.IsNotFound(err) {
				return fmt.Errorf("no account with email %s", promoteMail)
			}
			return err
		}
		if err := userRepo.SetRole(cmd.Context(), user.ID, models.RoleAdmin); err != nil {
			return fmt.Errorf("failed to promote %s: %w", promoteMail, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now an admin\n", user.Username)
		return nil
	},
}

func connect() (*config.Config, *slog.Logger, *gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}
	logger := shared.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, db, nil
}

func main() {
	rootCmd.Flags().IntVar(&users, "users", 20, "number of accounts to create (the first one becomes admin)")
	rootCmd.Flags().IntVar(&submissions, "submissions", 60, "number of submissions to create")
	rootCmd.Flags().StringVar(&password, "password", "veritas123", "password of every generated account")
	rootCmd.Flags().StringVar(&adminEmail, "admin-email", "admin@veritaslab.local", "email of the generated admin")
	rootCmd.Flags().Int64Var(&randomSeed, "random-seed", time.Now().UnixNano(), "seed for the random choices")

	promoteCmd.Flags().StringVar(&promoteMail, "email", "", "email of the account to promote")
	_ = promoteCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(promoteCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
