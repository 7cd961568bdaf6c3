package postgres

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/vineshkkmr/job-board/internal/domain"
	"github.com/vineshkkmr/job-board/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	sql  string
	args []any
}

// fakeDB records statements and answers with empty result sets.
type fakeDB struct {
	calls   []recordedCall
	execTag string
	execErr error
	count   int64
}

func (f *fakeDB) record(sql string, args []any) {
	f.calls = append(f.calls, recordedCall{sql: strings.Join(strings.Fields(sql), " "), args: args})
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.record(sql, args)
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	tag := f.execTag
	if tag == "" {
		tag = "INSERT 0 1"
	}
	return pgconn.NewCommandTag(tag), nil
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.record(sql, args)
	return &emptyRows{}, nil
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.record(sql, args)
	return countRow(f.count)
}

type countRow int64

func (c countRow) Scan(dest ...any) error {
	n, ok := dest[0].(*int64)
	if !ok {
		return errors.New("countRow scans a single int64")
	}
	*n = int64(c)
	return nil
}

type emptyRows struct{}

func (emptyRows) Close()                                       {}
func (emptyRows) Err() error                                   { return nil }
func (emptyRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT 0") }
func (emptyRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (emptyRows) Next() bool                                   { return false }
func (emptyRows) Scan(dest ...any) error                       { return errors.New("no rows") }
func (emptyRows) Values() ([]any, error)                       { return nil, nil }
func (emptyRows) RawValues() [][]byte                          { return nil }
func (emptyRows) Conn() *pgx.Conn                              { return nil }

func TestJobRepo_FetchActiveFiltersAndOrders(t *testing.T) {
	db := &fakeDB{count: 7}
	jobs, total, err := NewJobRepository(db).FetchActive(context.Background(), 20, 40)
	require.NoError(t, err)
	assert.Empty(t, jobs)
	assert.Equal(t, int64(7), total)

	require.Len(t, db.calls, 2)
	assert.True(t, strings.HasSuffix(db.calls[0].sql,
		"FROM jobs WHERE status = 'active' ORDER BY created_at DESC LIMIT $1 OFFSET $2"), db.calls[0].sql)
	assert.Equal(t, []any{20, 40}, db.calls[0].args)
	assert.Equal(t, "SELECT COUNT(*) FROM jobs WHERE status = 'active'", db.calls[1].sql)
}

func TestJobRepo_FetchByRecruiterNewestFirst(t *testing.T) {
	db := &fakeDB{}
	_, err := NewJobRepository(db).FetchByRecruiter(context.Background(), "rec-1")
	require.NoError(t, err)

	require.Len(t, db.calls, 1)
	assert.True(t, strings.HasSuffix(db.calls[0].sql, "FROM jobs WHERE recruiter_id = $1 ORDER BY created_at DESC"), db.calls[0].sql)
	assert.Equal(t, []any{"rec-1"}, db.calls[0].args)
}

func TestApplicationRepo_CreateDuplicateIsConflict(t *testing.T) {
	app := &domain.Application{
		ID:          "app-1",
		JobID:       "job-1",
		ApplicantID: "u-app",
		Resume:      "https://example.com/cv.pdf",
		Status:      domain.ApplicationStatusPending,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	db := &fakeDB{execErr: &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "idx_applications_job_applicant"}}
	err := NewApplicationRepository(db).Create(context.Background(), app)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, appErr.Code)

	require.Len(t, db.calls, 1)
	assert.Equal(t, []any{"app-1", "job-1", "u-app", app.Resume, app.CoverLetter, "pending", app.CreatedAt, app.UpdatedAt}, db.calls[0].args)

	boom := errors.New("connection reset")
	err = NewApplicationRepository(&fakeDB{execErr: boom}).Create(context.Background(), app)
	assert.ErrorIs(t, err, boom)
	_, ok = apperror.As(err)
	assert.False(t, ok)
}

func TestUserRepo_UpdateRoleMissingRow(t *testing.T) {
	db := &fakeDB{execTag: "UPDATE 0"}
	err := NewUserRepository(db).UpdateRole(context.Background(), "u1", domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, []any{"u1", "admin"}, db.calls[0].args)

	db = &fakeDB{execTag: "UPDATE 1"}
	assert.NoError(t, NewUserRepository(db).UpdateRole(context.Background(), "u1", domain.RoleAdmin))
}
