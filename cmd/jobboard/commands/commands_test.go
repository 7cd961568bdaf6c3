package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/vineshkkmr/job-board/config"
	"github.com/vineshkkmr/job-board/internal/client/guard"
	"github.com/vineshkkmr/job-board/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRoleUsecase struct{ mock.Mock }

func (m *mockRoleUsecase) AssignRole(ctx context.Context, email string, role domain.Role, syncDocument bool) (*domain.IdentityRecord, error) {
	args := m.Called(ctx, email, role, syncDocument)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IdentityRecord), args.Error(1)
}

type stubSession struct{ token string }

func (s *stubSession) Active() bool { return true }
func (s *stubSession) IDToken(ctx context.Context, forceRefresh bool) (string, error) {
	return s.token, nil
}

// stubAPI treats the token as the caller's role.
type stubAPI struct {
	statsCalls int
}

func (a *stubAPI) Verify(ctx context.Context, idToken string) (*domain.Verdict, error) {
	role, _ := domain.ParseRole(idToken)
	return &domain.Verdict{IsAuthenticated: true, Role: role, UID: "u-" + idToken}, nil
}

func (a *stubAPI) AdminStats(ctx context.Context, idToken string) (*domain.AdminStats, error) {
	a.statsCalls++
	return &domain.AdminStats{
		TotalUsers:        3,
		UsersByRole:       map[string]int64{"admin": 1, "applicant": 2},
		TotalJobs:         4,
		ActiveJobs:        2,
		TotalApplications: 7,
		RecentJobs:        []domain.RecentJob{{Title: "Go Engineer", Company: "Acme", Location: "Remote", Applications: 7}},
	}, nil
}

func newTestEnv(roles *mockRoleUsecase, apiClient *stubAPI) *Env {
	return &Env{
		Config: &config.Config{GuardMaxAttempts: 1},
		RoleUsecase: func(ctx context.Context, withDocuments bool) (domain.RoleUsecase, func(), error) {
			return roles, func() {}, nil
		},
		SignIn: func(ctx context.Context, email, password string) (guard.Session, error) {
			if password != "pw" {
				return nil, errors.New("invalid email or password")
			}
			return &stubSession{token: email}, nil
		},
		API: apiClient,
	}
}

func execute(env *Env, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	root := NewRootCmd(env)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestSetAdmin_MissingEmail(t *testing.T) {
	roles := new(mockRoleUsecase)
	stdout, stderr, err := execute(newTestEnv(roles, &stubAPI{}), "set-admin")

	assert.ErrorIs(t, err, errMissingEmail)
	assert.Contains(t, stdout+stderr, "Usage:")
	assert.Contains(t, stderr, "please provide an email address")
	roles.AssertNotCalled(t, "AssignRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSetAdmin_Success(t *testing.T) {
	roles := new(mockRoleUsecase)
	roles.On("AssignRole", mock.Anything, "boss@example.com", domain.RoleAdmin, false).
		Return(&domain.IdentityRecord{UID: "u1", Email: "boss@example.com"}, nil)

	stdout, _, err := execute(newTestEnv(roles, &stubAPI{}), "set-admin", "boss@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Successfully set admin role for user boss@example.com\n", stdout)
	roles.AssertExpectations(t)
}

func TestSetAdmin_SyncDocument(t *testing.T) {
	roles := new(mockRoleUsecase)
	roles.On("AssignRole", mock.Anything, "boss@example.com", domain.RoleAdmin, true).
		Return(&domain.IdentityRecord{UID: "u1"}, nil)

	_, _, err := execute(newTestEnv(roles, &stubAPI{}), "set-admin", "boss@example.com", "--sync-document")
	require.NoError(t, err)
	roles.AssertExpectations(t)
}

func TestSetAdmin_FailuresAreNotDifferentiated(t *testing.T) {
	for _, cause := range []error{domain.ErrPrincipalNotFound, domain.ErrUpstreamUnavailable} {
		t.Run(cause.Error(), func(t *testing.T) {
			roles := new(mockRoleUsecase)
			roles.On("AssignRole", mock.Anything, "ghost@example.com", domain.RoleAdmin, false).
				Return(nil, fmt.Errorf("lookup: %w", cause))

			stdout, stderr, err := execute(newTestEnv(roles, &stubAPI{}), "set-admin", "ghost@example.com")
			require.Error(t, err)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, "error setting admin role")
			assert.NotContains(t, stderr, "Usage:")
		})
	}
}

func TestDashboard(t *testing.T) {
	t.Run("admin sees statistics", func(t *testing.T) {
		apiClient := &stubAPI{}
		stdout, _, err := execute(newTestEnv(new(mockRoleUsecase), apiClient), "dashboard", "--email", "admin", "--password", "pw")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Total Users:        3")
		assert.Contains(t, stdout, "applicants:")
		assert.Contains(t, stdout, "Go Engineer at Acme (Remote): 7 applications")
		assert.Equal(t, 1, apiClient.statsCalls)
	})

	t.Run("non admin is redirected without loading data", func(t *testing.T) {
		apiClient := &stubAPI{}
		stdout, stderr, err := execute(newTestEnv(new(mockRoleUsecase), apiClient), "dashboard", "--email", "recruiter", "--password", "pw")
		require.Error(t, err)
		assert.Empty(t, stdout)
		assert.Contains(t, stderr, guard.UnauthorizedMessage)
		assert.Contains(t, stderr, "redirect: /")
		assert.Zero(t, apiClient.statsCalls)
	})

	t.Run("no session goes to login", func(t *testing.T) {
		_, stderr, err := execute(newTestEnv(new(mockRoleUsecase), &stubAPI{}), "dashboard")
		assert.ErrorIs(t, err, guard.ErrUnauthenticated)
		assert.Contains(t, stderr, "redirect: /login")
		assert.Contains(t, stderr, guard.UnauthorizedMessage)
	})

	t.Run("bad credentials", func(t *testing.T) {
		_, _, err := execute(newTestEnv(new(mockRoleUsecase), &stubAPI{}), "dashboard", "--email", "admin", "--password", "nope")
		assert.ErrorContains(t, err, "sign in failed")
	})
}

func TestMigrate(t *testing.T) {
	env := newTestEnv(new(mockRoleUsecase), &stubAPI{})
	calls := 0
	env.Migrate = func(ctx context.Context) error {
		calls++
		return nil
	}

	stdout, _, err := execute(env, "migrate")
	require.NoError(t, err)
	assert.Equal(t, "Migrations applied\n", stdout)
	assert.Equal(t, 1, calls)

	env.Migrate = func(ctx context.Context) error { return errors.New("db down") }
	_, _, err = execute(env, "migrate")
	assert.ErrorContains(t, err, "db down")
}
