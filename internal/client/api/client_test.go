package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vineshkkmr/job-board/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/auth/verify", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var body struct {
			IDToken string `json:"idToken"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		w.Header().Set("Content-Type", "application/json")
		switch body.IDToken {
		case "admin":
			_, _ = w.Write([]byte(`{"isAuthenticated":true,"role":"admin","uid":"u1"}`))
		case "plain":
			_, _ = w.Write([]byte(`{"isAuthenticated":true,"role":null,"uid":"u2"}`))
		case "down":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"isAuthenticated":false,"role":null,"error":"Server error"}`))
		case "busy":
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"success":false,"message":"Too many requests"}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"isAuthenticated":false,"role":null,"error":"Invalid token"}`))
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", 0)
	ctx := context.Background()

	verdict, err := client.Verify(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, verdict.IsAuthenticated)
	assert.Equal(t, domain.RoleAdmin, verdict.Role)
	assert.Equal(t, "u1", verdict.UID)

	verdict, err = client.Verify(ctx, "plain")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleNone, verdict.Role)

	verdict, err = client.Verify(ctx, "forged")
	require.NoError(t, err)
	assert.False(t, verdict.IsAuthenticated)
	assert.Equal(t, "Invalid token", verdict.Error)

	_, err = client.Verify(ctx, "down")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, "Server error", statusErr.Message)
	assert.True(t, statusErr.Temporary())

	_, err = client.Verify(ctx, "busy")
	require.ErrorAs(t, err, &statusErr)
	assert.True(t, statusErr.Temporary())
	assert.Equal(t, "Too many requests", statusErr.Message)
}

func TestVerifyUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := NewClient(srv.URL, 0).Verify(context.Background(), "admin")
	assert.ErrorIs(t, err, ErrUnreachable)

	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
}

func TestAdminStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/admin/stats", r.URL.Path)
		if r.Header.Get("Authorization") != "Bearer admin" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"success":false,"message":"Unauthorized access"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"message":"Admin statistics","data":{"totalUsers":3,"usersByRole":{"admin":1,"recruiter":1,"applicant":1},"totalJobs":2,"activeJobs":1,"totalApplications":5,"recentJobs":[{"id":"j1","title":"Go Engineer","applications":5}]}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)

	stats, err := client.AdminStats(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.UsersByRole["recruiter"])
	require.Len(t, stats.RecentJobs, 1)
	assert.Equal(t, int64(5), stats.RecentJobs[0].Applications)

	_, err = client.AdminStats(context.Background(), "recruiter")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.False(t, statusErr.Temporary())
	assert.Equal(t, "Unauthorized access", statusErr.Message)
}
