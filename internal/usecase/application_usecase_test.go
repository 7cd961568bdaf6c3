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

const resumeURL = "https://cdn.example.com/resume.pdf"

func TestApply(t *testing.T) {
	activeJob := &domain.Job{ID: "j1", RecruiterID: "rec-1", Status: domain.JobStatusActive}

	t.Run("creates pending application for caller", func(t *testing.T) {
		apps, jobs := new(MockApplicationRepo), new(MockJobRepo)
		jobs.On("GetByID", mock.Anything, "j1").Return(activeJob, nil)
		apps.On("CheckExists", mock.Anything, "j1", "app-1").Return(false, nil)
		apps.On("Create", mock.Anything, mock.AnythingOfType("*domain.Application")).Return(nil)
		uc := usecase.NewApplicationUsecase(apps, jobs)

		app, err := uc.Apply(asRole(domain.RoleApplicant, "app-1"), "j1", resumeURL, " hello ")
		require.NoError(t, err)
		assert.Equal(t, "app-1", app.ApplicantID)
		assert.Equal(t, domain.ApplicationStatusPending, app.Status)
		require.NotNil(t, app.CoverLetter)
		assert.Equal(t, "hello", *app.CoverLetter)
		apps.AssertExpectations(t)
	})

	t.Run("blank cover letter is omitted", func(t *testing.T) {
		apps, jobs := new(MockApplicationRepo), new(MockJobRepo)
		jobs.On("GetByID", mock.Anything, "j1").Return(activeJob, nil)
		apps.On("CheckExists", mock.Anything, "j1", "app-1").Return(false, nil)
		apps.On("Create", mock.Anything, mock.Anything).Return(nil)
		uc := usecase.NewApplicationUsecase(apps, jobs)

		app, err := uc.Apply(asRole(domain.RoleApplicant, "app-1"), "j1", resumeURL, "  ")
		require.NoError(t, err)
		assert.Nil(t, app.CoverLetter)
	})

	t.Run("duplicate is a conflict", func(t *testing.T) {
		apps, jobs := new(MockApplicationRepo), new(MockJobRepo)
		jobs.On("GetByID", mock.Anything, "j1").Return(activeJob, nil)
		apps.On("CheckExists", mock.Anything, "j1", "app-1").Return(true, nil)
		uc := usecase.NewApplicationUsecase(apps, jobs)

		_, err := uc.Apply(asRole(domain.RoleApplicant, "app-1"), "j1", resumeURL, "")
		requireAppError(t, err, http.StatusConflict, "You have already applied to this job")
		apps.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("closed job", func(t *testing.T) {
		apps, jobs := new(MockApplicationRepo), new(MockJobRepo)
		jobs.On("GetByID", mock.Anything, "j2").Return(&domain.Job{ID: "j2", Status: domain.JobStatusClosed}, nil)
		uc := usecase.NewApplicationUsecase(apps, jobs)

		_, err := uc.Apply(asRole(domain.RoleApplicant, "app-1"), "j2", resumeURL, "")
		requireAppError(t, err, http.StatusBadRequest, "This job is no longer accepting applications")
	})

	t.Run("resume must be a URL", func(t *testing.T) {
		uc := usecase.NewApplicationUsecase(new(MockApplicationRepo), new(MockJobRepo))
		_, err := uc.Apply(asRole(domain.RoleApplicant, "app-1"), "j1", "my resume", "")
		requireAppError(t, err, http.StatusBadRequest, "Resume must be a valid URL")
	})

	t.Run("recruiter cannot apply", func(t *testing.T) {
		uc := usecase.NewApplicationUsecase(new(MockApplicationRepo), new(MockJobRepo))
		_, err := uc.Apply(asRole(domain.RoleRecruiter, "rec-1"), "j1", resumeURL, "")
		requireAppError(t, err, http.StatusForbidden, "Access denied: applicant role required")
	})
}

func TestListByJob_OwnerOnly(t *testing.T) {
	apps, jobs := new(MockApplicationRepo), new(MockJobRepo)
	jobs.On("GetByID", mock.Anything, "j1").Return(&domain.Job{ID: "j1", RecruiterID: "rec-1"}, nil)
	apps.On("GetByJobID", mock.Anything, "j1").Return([]domain.Application{{ID: "a1"}}, nil)
	uc := usecase.NewApplicationUsecase(apps, jobs)

	list, err := uc.ListByJob(asRole(domain.RoleRecruiter, "rec-1"), "j1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = uc.ListByJob(asRole(domain.RoleRecruiter, "rec-2"), "j1")
	requireAppError(t, err, http.StatusForbidden, "You can only view applications for your own jobs")
}

func TestUpdateApplicationStatus(t *testing.T) {
	apps, jobs := new(MockApplicationRepo), new(MockJobRepo)
	apps.On("GetByID", mock.Anything, "a1").Return(&domain.Application{ID: "a1", JobID: "j1", Status: domain.ApplicationStatusPending}, nil)
	jobs.On("GetByID", mock.Anything, "j1").Return(&domain.Job{ID: "j1", RecruiterID: "rec-1"}, nil)
	apps.On("UpdateStatus", mock.Anything, "a1", domain.ApplicationStatusReviewed, mock.Anything).Return(nil)
	uc := usecase.NewApplicationUsecase(apps, jobs)

	app, err := uc.UpdateStatus(asRole(domain.RoleRecruiter, "rec-1"), "a1", domain.ApplicationStatusReviewed)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusReviewed, app.Status)

	_, err = uc.UpdateStatus(asRole(domain.RoleRecruiter, "rec-1"), "a1", domain.ApplicationStatus("hired"))
	requireAppError(t, err, http.StatusBadRequest, "Invalid application status")
}

func TestListMyApplications(t *testing.T) {
	apps := new(MockApplicationRepo)
	apps.On("GetByApplicantID", mock.Anything, "app-1").Return([]domain.Application{{ID: "a1"}, {ID: "a2"}}, nil)
	uc := usecase.NewApplicationUsecase(apps, new(MockJobRepo))

	list, err := uc.ListMyApplications(asRole(domain.RoleApplicant, "app-1"))
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = uc.ListMyApplications(context.Background())
	requireAppError(t, err, http.StatusUnauthorized, "User not authenticated")
}
