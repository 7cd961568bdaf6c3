package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vineshkkmr/job-board/internal/domain"
)

// ErrUnreachable wraps transport failures: the request never produced a response.
var ErrUnreachable = errors.New("api unreachable")

// StatusError is a response the client could not turn into a result.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("api returned status %d: %s", e.StatusCode, e.Message)
}

// Temporary reports whether repeating the request may succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

// Client calls the job board HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Verify posts idToken to the role verification endpoint.
//
// A 401 is a verdict, not an error: it comes back with IsAuthenticated false.
// Server errors and rate limiting return a *StatusError.
func (c *Client) Verify(ctx context.Context, idToken string) (*domain.Verdict, error) {
	payload, err := json.Marshal(map[string]string{"idToken": idToken})
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, "/v1/auth/verify", "", payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read verify response: %v", ErrUnreachable, err)
	}

	var verdict domain.Verdict
	switch resp.StatusCode {
	case http.StatusOK, http.StatusUnauthorized:
		if err := json.Unmarshal(body, &verdict); err != nil {
			return nil, &StatusError{StatusCode: resp.StatusCode, Message: "malformed verdict"}
		}
		if resp.StatusCode == http.StatusUnauthorized {
			verdict.IsAuthenticated = false
		}
		return &verdict, nil
	default:
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}
}

// AdminStats fetches the dashboard statistics with the caller's token.
func (c *Client) AdminStats(ctx context.Context, idToken string) (*domain.AdminStats, error) {
	resp, err := c.do(ctx, http.MethodGet, "/v1/admin/stats", idToken, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read stats response: %v", ErrUnreachable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: "malformed response"}
	}
	var stats domain.AdminStats
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: "malformed stats"}
	}
	return &stats, nil
}

func (c *Client) do(ctx context.Context, method, path, bearer string, payload []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUnreachable, method, path, err)
	}
	return resp, nil
}

// errorMessage pulls a human readable message out of either response shape.
func errorMessage(body []byte) string {
	var probe struct {
		Error   interface{} `json:"error"`
		Message string      `json:"message"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return ""
	}
	if msg, ok := probe.Error.(string); ok && msg != "" {
		return msg
	}
	return probe.Message
}
