package commands

import (
	"context"

	"github.com/vineshkkmr/job-board/config"
	"github.com/vineshkkmr/job-board/internal/client/api"
	"github.com/vineshkkmr/job-board/internal/client/guard"
	"github.com/vineshkkmr/job-board/internal/client/session"
	"github.com/vineshkkmr/job-board/internal/domain"
	"github.com/vineshkkmr/job-board/internal/repository/postgres"
	"github.com/vineshkkmr/job-board/internal/repository/supabase"
	"github.com/vineshkkmr/job-board/internal/usecase"
	"github.com/vineshkkmr/job-board/pkg/auth"
	"github.com/vineshkkmr/job-board/pkg/database"
	"github.com/vineshkkmr/job-board/pkg/security"

	"github.com/spf13/cobra"
)

// APIClient is the part of the HTTP API the CLI talks to. *api.Client satisfies it.
type APIClient interface {
	guard.Verifier
	AdminStats(ctx context.Context, idToken string) (*domain.AdminStats, error)
}

// Env carries the collaborators commands are built from. Tests swap in fakes.
type Env struct {
	Config *config.Config
	// RoleUsecase opens what set-admin needs; withDocuments adds the document store.
	RoleUsecase func(ctx context.Context, withDocuments bool) (domain.RoleUsecase, func(), error)
	SignIn      func(ctx context.Context, email, password string) (guard.Session, error)
	API         APIClient
	Migrate     func(ctx context.Context) error
}

// DefaultEnv wires the production identity provider, database and API client.
func DefaultEnv(cfg *config.Config) *Env {
	return &Env{
		Config: cfg,
		RoleUsecase: func(ctx context.Context, withDocuments bool) (domain.RoleUsecase, func(), error) {
			identity := supabase.NewIdentityRepository(supabase.Config{
				BaseURL:        cfg.SupabaseUrl,
				ServiceRoleKey: cfg.SupabaseServiceRoleKey,
				Timeout:        cfg.IdentityTimeout,
			}, auth.NewVerifier(auth.VerifierConfig{JWTSecret: cfg.SupabaseJWTSecret}))

			if !withDocuments {
				return usecase.NewRoleUsecase(identity, nil, security.DefaultLogger()), func() {}, nil
			}
			pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
			if err != nil {
				return nil, nil, err
			}
			return usecase.NewRoleUsecase(identity, postgres.NewUserRepository(pool), security.DefaultLogger()), pool.Close, nil
		},
		SignIn: func(ctx context.Context, email, password string) (guard.Session, error) {
			s := session.New(session.Config{BaseURL: cfg.SupabaseUrl, AnonKey: cfg.SupabaseAnonKey, Timeout: cfg.IdentityTimeout})
			if err := s.SignIn(ctx, email, password); err != nil {
				return nil, err
			}
			return s, nil
		},
		API: api.NewClient(cfg.APIBaseURL, cfg.IdentityTimeout),
		Migrate: func(ctx context.Context) error {
			return database.RunMigrations(ctx, cfg.DBUrl)
		},
	}
}

func NewRootCmd(env *Env) *cobra.Command {
	root := &cobra.Command{
		Use:   "jobboard",
		Short: "Job board operator tools",
		Long: `jobboard: operator tools for the job board backend.

Available commands:
  set-admin  - Grant the admin role claim to a user
  dashboard  - Sign in and print the admin dashboard
  migrate    - Apply database migrations

Examples:
  jobboard set-admin boss@example.com
  jobboard set-admin boss@example.com --sync-document
  JOBBOARD_PASSWORD=... jobboard dashboard --email boss@example.com
  jobboard migrate`,
	}

	root.AddCommand(newSetAdminCmd(env))
	root.AddCommand(newDashboardCmd(env))
	root.AddCommand(newMigrateCmd(env))
	return root
}
