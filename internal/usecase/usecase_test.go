package usecase_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/vineshkkmr/job-board/internal/domain"

	"github.com/stretchr/testify/mock"
)

// Mock Repositories
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Upsert(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	return m.Called(ctx, id, role).Error(0)
}

type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) Create(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}
func (m *MockJobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}
func (m *MockJobRepo) FetchActive(ctx context.Context, limit, offset int) ([]domain.Job, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Job), args.Get(1).(int64), args.Error(2)
}
func (m *MockJobRepo) FetchByRecruiter(ctx context.Context, recruiterID string) ([]domain.Job, error) {
	args := m.Called(ctx, recruiterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Job), args.Error(1)
}
func (m *MockJobRepo) Update(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}
func (m *MockJobRepo) UpdateStatus(ctx context.Context, id string, status domain.JobStatus, updatedAt time.Time) error {
	return m.Called(ctx, id, status, updatedAt).Error(0)
}

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	return m.Called(ctx, app).Error(0)
}
func (m *MockApplicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) GetByJobID(ctx context.Context, jobID string) ([]domain.Application, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) GetByApplicantID(ctx context.Context, applicantID string) ([]domain.Application, error) {
	args := m.Called(ctx, applicantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) CheckExists(ctx context.Context, jobID, applicantID string) (bool, error) {
	args := m.Called(ctx, jobID, applicantID)
	return args.Bool(0), args.Error(1)
}
func (m *MockApplicationRepo) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus, updatedAt time.Time) error {
	return m.Called(ctx, id, status, updatedAt).Error(0)
}

type MockAdminRepo struct {
	mock.Mock
}

func (m *MockAdminRepo) GetStats(ctx context.Context) (*domain.AdminStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminStats), args.Error(1)
}
func (m *MockAdminRepo) RecentJobs(ctx context.Context, limit int) ([]domain.RecentJob, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecentJob), args.Error(1)
}

// memoryIdentity is an in-memory identity provider. Tokens are "token-<uid>".
type memoryIdentity struct {
	mu      sync.Mutex
	records map[string]*domain.IdentityRecord
	down    bool
}

func newMemoryIdentity(records ...*domain.IdentityRecord) *memoryIdentity {
	m := &memoryIdentity{records: map[string]*domain.IdentityRecord{}}
	for _, r := range records {
		if r.CustomClaims == nil {
			r.CustomClaims = map[string]interface{}{}
		}
		m.records[r.UID] = r
	}
	return m
}

func (m *memoryIdentity) VerifyIDToken(ctx context.Context, idToken string) (*domain.TokenClaims, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return nil, domain.ErrUpstreamUnavailable
	}
	uid, ok := strings.CutPrefix(idToken, "token-")
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	return &domain.TokenClaims{UID: uid}, nil
}

func (m *memoryIdentity) GetUser(ctx context.Context, uid string) (*domain.IdentityRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return nil, domain.ErrUpstreamUnavailable
	}
	rec, ok := m.records[uid]
	if !ok {
		return nil, domain.ErrPrincipalNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *memoryIdentity) GetUserByEmail(ctx context.Context, email string) (*domain.IdentityRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return nil, domain.ErrUpstreamUnavailable
	}
	for _, rec := range m.records {
		if strings.EqualFold(rec.Email, email) {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, domain.ErrPrincipalNotFound
}

func (m *memoryIdentity) SetCustomClaims(ctx context.Context, uid string, claims map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return domain.ErrUpstreamUnavailable
	}
	rec, ok := m.records[uid]
	if !ok {
		return domain.ErrPrincipalNotFound
	}
	rec.CustomClaims = claims
	return nil
}

func asRole(role domain.Role, uid string) context.Context {
	return domain.WithPrincipal(context.Background(), uid, role)
}
