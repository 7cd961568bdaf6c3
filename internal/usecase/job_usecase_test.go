package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/vineshkkmr/job-board/internal/domain"
	"github.com/vineshkkmr/job-board/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateJob(t *testing.T) {
	t.Run("normalizes and stamps the posting", func(t *testing.T) {
		repo := new(MockJobRepo)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Job")).Return(nil)
		uc := usecase.NewJobUsecase(repo)

		job := &domain.Job{
			Title:        "  Go Engineer ",
			Type:         domain.JobTypeFullTime,
			Requirements: []string{"Go", " ", "", " SQL "},
			Salary:       &domain.Salary{Min: 100, Max: 200},
			RecruiterID:  "someone-else",
			Status:       domain.JobStatusClosed,
		}
		require.NoError(t, uc.CreateJob(asRole(domain.RoleRecruiter, "rec-1"), job))

		assert.NotEmpty(t, job.ID)
		assert.Equal(t, "Go Engineer", job.Title)
		assert.Equal(t, []string{"Go", "SQL"}, job.Requirements)
		assert.Equal(t, "USD", job.Salary.Currency)
		assert.Equal(t, "rec-1", job.RecruiterID)
		assert.Equal(t, domain.JobStatusActive, job.Status)
		assert.False(t, job.CreatedAt.IsZero())
		repo.AssertExpectations(t)
	})

	t.Run("applicant cannot post", func(t *testing.T) {
		repo := new(MockJobRepo)
		uc := usecase.NewJobUsecase(repo)
		err := uc.CreateJob(asRole(domain.RoleApplicant, "app-1"), &domain.Job{Title: "x"})
		requireAppError(t, err, http.StatusForbidden, "Access denied: recruiter role required")
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		uc := usecase.NewJobUsecase(new(MockJobRepo))
		err := uc.CreateJob(context.Background(), &domain.Job{Title: "x"})
		requireAppError(t, err, http.StatusUnauthorized, "User not authenticated")
	})

	t.Run("inverted salary range", func(t *testing.T) {
		uc := usecase.NewJobUsecase(new(MockJobRepo))
		err := uc.CreateJob(asRole(domain.RoleRecruiter, "rec-1"), &domain.Job{Title: "x", Salary: &domain.Salary{Min: 10, Max: 1}})
		assert.Error(t, err)
	})
}

func TestListActiveJobs_Paging(t *testing.T) {
	repo := new(MockJobRepo)
	repo.On("FetchActive", mock.Anything, 10, 0).Return([]domain.Job{{ID: "j1"}}, int64(1), nil)
	repo.On("FetchActive", mock.Anything, 20, 40).Return([]domain.Job{}, int64(1), nil)
	uc := usecase.NewJobUsecase(repo)

	jobs, total, err := uc.ListActiveJobs(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
	assert.Equal(t, int64(1), total)

	_, _, err = uc.ListActiveJobs(context.Background(), 3, 20)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGetJob_NotFound(t *testing.T) {
	repo := new(MockJobRepo)
	repo.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrNotFound)
	uc := usecase.NewJobUsecase(repo)

	_, err := uc.GetJob(context.Background(), "missing")
	requireAppError(t, err, http.StatusNotFound, "Job not found")
}

func TestUpdateJobStatus(t *testing.T) {
	owned := func() *domain.Job {
		return &domain.Job{ID: "j1", RecruiterID: "rec-1", Status: domain.JobStatusActive}
	}

	t.Run("owner closes job", func(t *testing.T) {
		repo := new(MockJobRepo)
		repo.On("GetByID", mock.Anything, "j1").Return(owned(), nil)
		repo.On("UpdateStatus", mock.Anything, "j1", domain.JobStatusClosed, mock.Anything).Return(nil)
		uc := usecase.NewJobUsecase(repo)

		job, err := uc.UpdateJobStatus(asRole(domain.RoleRecruiter, "rec-1"), "j1", domain.JobStatusClosed)
		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusClosed, job.Status)
		repo.AssertExpectations(t)
	})

	t.Run("other recruiter is refused", func(t *testing.T) {
		repo := new(MockJobRepo)
		repo.On("GetByID", mock.Anything, "j1").Return(owned(), nil)
		uc := usecase.NewJobUsecase(repo)

		_, err := uc.UpdateJobStatus(asRole(domain.RoleRecruiter, "rec-2"), "j1", domain.JobStatusClosed)
		requireAppError(t, err, http.StatusForbidden, "You can only manage your own jobs")
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid status", func(t *testing.T) {
		uc := usecase.NewJobUsecase(new(MockJobRepo))
		_, err := uc.UpdateJobStatus(asRole(domain.RoleRecruiter, "rec-1"), "j1", domain.JobStatus("archived"))
		requireAppError(t, err, http.StatusBadRequest, "Invalid job status")
	})
}

func TestUpdateJob_KeepsOwnershipAndStatus(t *testing.T) {
	repo := new(MockJobRepo)
	repo.On("GetByID", mock.Anything, "j1").Return(&domain.Job{ID: "j1", RecruiterID: "rec-1", Status: domain.JobStatusClosed}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(j *domain.Job) bool {
		return j.RecruiterID == "rec-1" && j.Status == domain.JobStatusClosed && j.Title == "Renamed"
	})).Return(nil)
	uc := usecase.NewJobUsecase(repo)

	err := uc.UpdateJob(asRole(domain.RoleRecruiter, "rec-1"), &domain.Job{ID: "j1", Title: "Renamed", RecruiterID: "rec-9", Status: domain.JobStatusActive})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
