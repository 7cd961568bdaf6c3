// Package guard gates protected pages behind a role verification round trip.
//
// Each activation asks the session for a freshly minted token, verifies it
// against the server and only then lets the caller load protected data. Every
// negative outcome ends in a notification and a redirect.
package guard

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/vineshkkmr/job-board/internal/domain"
	"github.com/vineshkkmr/job-board/pkg/logger"

	"github.com/cenkalti/backoff/v4"
)

var (
	ErrUnauthenticated = errors.New("no active session")
	ErrUnauthorized    = errors.New("role not permitted")
	ErrNetworkFailure  = errors.New("verification service unreachable")
	ErrStale           = errors.New("superseded by a newer activation")
)

// UnauthorizedMessage is the only message shown to the user on a denied activation.
const UnauthorizedMessage = "Unauthorized access"

// Session is the signed-in state the guard reads. It is passed explicitly to every activation.
type Session interface {
	Active() bool
	// IDToken returns a token; forceRefresh mints a new one so recently changed claims are included.
	// An error wrapping domain.ErrSessionExpired means the user must sign in again.
	IDToken(ctx context.Context, forceRefresh bool) (string, error)
}

// Verifier resolves a token into a verdict. *api.Client satisfies it.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (*domain.Verdict, error)
}

type Navigator interface {
	Redirect(path string)
	Notify(message string)
}

type Outcome int

const (
	Unauthenticated Outcome = iota
	Unauthorized
	Permitted
	Stale
)

func (o Outcome) String() string {
	switch o {
	case Permitted:
		return "permitted"
	case Unauthenticated:
		return "unauthenticated"
	case Unauthorized:
		return "unauthorized"
	case Stale:
		return "stale"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Decision is the result of one activation.
type Decision struct {
	Outcome    Outcome
	Verdict    *domain.Verdict
	Activation uint64
}

// Permitted reports whether protected data may be loaded.
func (d Decision) Permitted() bool {
	return d.Outcome == Permitted
}

type Config struct {
	LoginPath       string
	HomePath        string
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func (c Config) withDefaults() Config {
	if c.LoginPath == "" {
		c.LoginPath = "/login"
	}
	if c.HomePath == "" {
		c.HomePath = "/"
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.InitialInterval <= 0 {
		c.InitialInterval = 200 * time.Millisecond
	}
	if c.MaxInterval <= 0 {
		c.MaxInterval = 2 * time.Second
	}
	return c
}

type Guard struct {
	verifier   Verifier
	nav        Navigator
	cfg        Config
	activation atomic.Uint64
}

func New(verifier Verifier, nav Navigator, cfg Config) *Guard {
	return &Guard{verifier: verifier, nav: nav, cfg: cfg.withDefaults()}
}

// Activate runs one guarded activation requiring role. Starting a new activation
// supersedes any in flight: their results come back Stale and navigate nowhere.
func (g *Guard) Activate(ctx context.Context, session Session, role domain.Role) (Decision, error) {
	token := g.activation.Add(1)
	decision := Decision{Activation: token}

	if session == nil || !session.Active() {
		return g.deny(decision, Unauthenticated, ErrUnauthenticated)
	}

	idToken, err := session.IDToken(ctx, true)
	if !g.current(token) {
		return g.stale(decision)
	}
	if err != nil {
		if errors.Is(err, domain.ErrSessionExpired) {
			return g.deny(decision, Unauthenticated, fmt.Errorf("%w: %w", ErrUnauthenticated, err))
		}
		return g.deny(decision, Unauthorized, fmt.Errorf("%w: refresh token: %w", ErrNetworkFailure, err))
	}

	verdict, err := g.verify(ctx, idToken)
	if !g.current(token) {
		return g.stale(decision)
	}
	if err != nil {
		logger.Log.Warnw("Role verification failed", "activation", token, "error", err)
		return g.deny(decision, Unauthorized, fmt.Errorf("%w: %w", ErrNetworkFailure, err))
	}

	decision.Verdict = verdict
	if !verdict.IsAuthenticated || verdict.Role != role {
		return g.deny(decision, Unauthorized, ErrUnauthorized)
	}

	decision.Outcome = Permitted
	return decision, nil
}

// Run activates and, only when permitted, calls load. A load that finishes after a
// newer activation started is reported Stale.
func (g *Guard) Run(ctx context.Context, session Session, role domain.Role, load func(ctx context.Context) error) (Decision, error) {
	decision, err := g.Activate(ctx, session, role)
	if err != nil || !decision.Permitted() {
		return decision, err
	}
	if err := load(ctx); err != nil {
		if !g.current(decision.Activation) {
			return g.stale(decision)
		}
		return decision, err
	}
	if !g.current(decision.Activation) {
		return g.stale(decision)
	}
	return decision, nil
}

// verify calls the verifier with bounded exponential backoff. Only transient
// failures are retried; a verdict of any kind ends the loop.
func (g *Guard) verify(ctx context.Context, idToken string) (*domain.Verdict, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = g.cfg.InitialInterval
	policy.MaxInterval = g.cfg.MaxInterval
	policy.MaxElapsedTime = 0

	var verdict *domain.Verdict
	operation := func() error {
		v, err := g.verifier.Verify(ctx, idToken)
		if err != nil {
			if !retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		verdict = v
		return nil
	}
	notify := func(err error, next time.Duration) {
		logger.Log.Debugw("Retrying role verification", "error", err, "delay", next)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(g.cfg.MaxAttempts-1)), ctx)
	if err := backoff.RetryNotify(operation, b, notify); err != nil {
		return nil, err
	}
	return verdict, nil
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var temp interface{ Temporary() bool }
	if errors.As(err, &temp) {
		return temp.Temporary()
	}
	return true
}

func (g *Guard) current(token uint64) bool {
	return g.activation.Load() == token
}

func (g *Guard) deny(d Decision, outcome Outcome, err error) (Decision, error) {
	d.Outcome = outcome
	g.nav.Notify(UnauthorizedMessage)
	if outcome == Unauthenticated {
		g.nav.Redirect(g.cfg.LoginPath)
	} else {
		g.nav.Redirect(g.cfg.HomePath)
	}
	return d, err
}

func (g *Guard) stale(d Decision) (Decision, error) {
	d.Outcome = Stale
	d.Verdict = nil
	return d, ErrStale
}
