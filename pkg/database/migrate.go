package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vineshkkmr/job-board/internal/repository/postgres/migrations"
	"github.com/vineshkkmr/job-board/pkg/logger"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded schema migrations. goose needs a database/sql handle,
// so this opens a short-lived lib/pq connection next to the pgx pool.
func RunMigrations(ctx context.Context, connString string) error {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	logger.Log.Infow("database migrations applied")
	return nil
}
