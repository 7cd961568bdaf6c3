package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vineshkkmr/job-board/internal/domain"
	"github.com/vineshkkmr/job-board/pkg/auth"
)

const listUsersPageSize = 100

// TokenVerifier checks an access token locally. *auth.Verifier satisfies it.
type TokenVerifier interface {
	Verify(tokenString string) (*auth.Claims, error)
}

type Config struct {
	BaseURL        string
	ServiceRoleKey string
	Timeout        time.Duration
}

type identityRepo struct {
	baseURL    string
	serviceKey string
	verifier   TokenVerifier
	http       *http.Client
}

// NewIdentityRepository talks to the GoTrue admin API. Custom claims live in app_metadata,
// which only the service role can write.
func NewIdentityRepository(cfg Config, verifier TokenVerifier) domain.IdentityProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &identityRepo{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		serviceKey: cfg.ServiceRoleKey,
		verifier:   verifier,
		http:       &http.Client{Timeout: timeout},
	}
}

type adminUser struct {
	ID          string                 `json:"id"`
	Email       string                 `json:"email"`
	AppMetadata map[string]interface{} `json:"app_metadata"`
	CreatedAt   time.Time              `json:"created_at"`
}

type listUsersResponse struct {
	Users []adminUser `json:"users"`
}

func (u *adminUser) toRecord() *domain.IdentityRecord {
	claims := u.AppMetadata
	if claims == nil {
		claims = map[string]interface{}{}
	}
	return &domain.IdentityRecord{
		UID:          u.ID,
		Email:        u.Email,
		CustomClaims: claims,
		CreatedAt:    u.CreatedAt,
	}
}

func (r *identityRepo) VerifyIDToken(ctx context.Context, idToken string) (*domain.TokenClaims, error) {
	claims, err := r.verifier.Verify(idToken)
	if err != nil {
		if errors.Is(err, auth.ErrKeySetUnavailable) {
			return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	return &domain.TokenClaims{UID: claims.Subject, Email: claims.Email}, nil
}

func (r *identityRepo) GetUser(ctx context.Context, uid string) (*domain.IdentityRecord, error) {
	var user adminUser
	if err := r.do(ctx, http.MethodGet, "/auth/v1/admin/users/"+url.PathEscape(uid), nil, &user); err != nil {
		return nil, err
	}
	return user.toRecord(), nil
}

// GetUserByEmail pages through the admin user list; GoTrue has no lookup by email.
func (r *identityRepo) GetUserByEmail(ctx context.Context, email string) (*domain.IdentityRecord, error) {
	for page := 1; ; page++ {
		path := fmt.Sprintf("/auth/v1/admin/users?page=%d&per_page=%d", page, listUsersPageSize)
		var resp listUsersResponse
		if err := r.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
			return nil, err
		}
		for i := range resp.Users {
			if strings.EqualFold(resp.Users[i].Email, email) {
				return resp.Users[i].toRecord(), nil
			}
		}
		if len(resp.Users) < listUsersPageSize {
			return nil, fmt.Errorf("%w: %s", domain.ErrPrincipalNotFound, email)
		}
	}
}

func (r *identityRepo) SetCustomClaims(ctx context.Context, uid string, claims map[string]interface{}) error {
	body := map[string]interface{}{"app_metadata": claims}
	return r.do(ctx, http.MethodPut, "/auth/v1/admin/users/"+url.PathEscape(uid), body, nil)
}

func (r *identityRepo) do(ctx context.Context, method, path string, body, out interface{}) error {
	if r.baseURL == "" || r.serviceKey == "" {
		return fmt.Errorf("%w: admin API not configured", domain.ErrUpstreamUnavailable)
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", r.serviceKey)
	req.Header.Set("Authorization", "Bearer "+r.serviceKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrPrincipalNotFound, path)
	case resp.StatusCode >= 300:
		return fmt.Errorf("%w: %s %s returned %d", domain.ErrUpstreamUnavailable, method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", domain.ErrUpstreamUnavailable, path, err)
	}
	return nil
}
