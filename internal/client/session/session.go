// Package session holds a Supabase password session for command line clients.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/vineshkkmr/job-board/internal/domain"

	"golang.org/x/sync/singleflight"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnreachable        = errors.New("identity provider unreachable")
)

// refreshLeeway renews tokens that are about to expire.
const refreshLeeway = 30 * time.Second

type Config struct {
	BaseURL string
	AnonKey string
	Timeout time.Duration
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// Session is safe for concurrent use.
type Session struct {
	baseURL string
	anonKey string
	http    *http.Client
	now     func() time.Time

	// refreshes collapses concurrent refreshes of the same refresh token into one grant.
	refreshes singleflight.Group

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
	uid          string
	email        string
}

func New(cfg Config) *Session {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Session{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		anonKey: cfg.AnonKey,
		http:    &http.Client{Timeout: timeout},
		now:     time.Now,
	}
}

// SignIn exchanges an email and password for a session.
func (s *Session) SignIn(ctx context.Context, email, password string) error {
	tok, err := s.grant(ctx, "password", map[string]string{"email": email, "password": password})
	if err != nil {
		if errors.Is(err, domain.ErrSessionExpired) {
			return ErrInvalidCredentials
		}
		return err
	}
	s.store(tok)
	return nil
}

func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshToken != ""
}

// UID is the signed-in principal, empty when signed out.
func (s *Session) UID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uid
}

// IDToken returns the access token, refreshing it when forced or near expiry.
// A rejected refresh ends the session and returns domain.ErrSessionExpired.
func (s *Session) IDToken(ctx context.Context, forceRefresh bool) (string, error) {
	s.mu.Lock()
	refresh := s.refreshToken
	token := s.accessToken
	fresh := s.now().Add(refreshLeeway).Before(s.expiresAt)
	s.mu.Unlock()

	if refresh == "" {
		return "", domain.ErrSessionExpired
	}
	if !forceRefresh && fresh {
		return token, nil
	}

	ch := s.refreshes.DoChan(refresh, func() (interface{}, error) {
		return s.refresh(context.WithoutCancel(ctx), refresh)
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// refresh redeems the refresh token unless another caller already rotated it.
func (s *Session) refresh(ctx context.Context, refresh string) (string, error) {
	s.mu.Lock()
	if s.refreshToken != refresh {
		token, active := s.accessToken, s.refreshToken != ""
		s.mu.Unlock()
		if !active {
			return "", domain.ErrSessionExpired
		}
		return token, nil
	}
	s.mu.Unlock()

	tok, err := s.grant(ctx, "refresh_token", map[string]string{"refresh_token": refresh})
	if err != nil {
		if errors.Is(err, domain.ErrSessionExpired) {
			s.SignOut()
		}
		return "", err
	}
	s.store(tok)
	return tok.AccessToken, nil
}

func (s *Session) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken, s.refreshToken, s.uid, s.email = "", "", "", ""
	s.expiresAt = time.Time{}
}

func (s *Session) store(tok *tokenResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = tok.AccessToken
	if tok.RefreshToken != "" {
		s.refreshToken = tok.RefreshToken
	}
	s.expiresAt = s.now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	if tok.User.ID != "" {
		s.uid, s.email = tok.User.ID, tok.User.Email
	}
}

func (s *Session) grant(ctx context.Context, grantType string, body map[string]string) (*tokenResponse, error) {
	if s.baseURL == "" || s.anonKey == "" {
		return nil, fmt.Errorf("%w: SUPABASE_URL and SUPABASE_ANON_KEY are required", ErrUnreachable)
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/auth/v1/token?grant_type="+grantType, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", s.anonKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%s grant rejected: %w", grantType, domain.ErrSessionExpired)
	case resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: token endpoint returned %d", ErrUnreachable, resp.StatusCode)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return nil, fmt.Errorf("%w: decode token response: %v", ErrUnreachable, err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("%w: empty access token", ErrUnreachable)
	}
	return &tok, nil
}
