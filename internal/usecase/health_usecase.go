package usecase

import (
	"context"
	"time"
)

// HealthCheckFunc probes one dependency. A nil error means healthy.
type HealthCheckFunc func(ctx context.Context) error

type HealthStatus struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
}

type HealthUsecase interface {
	Check(ctx context.Context) HealthStatus
}

type healthUsecase struct {
	checks  map[string]HealthCheckFunc
	timeout time.Duration
}

// NewHealthUsecase reports "ok" only when every registered check passes.
func NewHealthUsecase(checks map[string]HealthCheckFunc) HealthUsecase {
	return &healthUsecase{checks: checks, timeout: 2 * time.Second}
}

func (u *healthUsecase) Check(ctx context.Context) HealthStatus {
	result := HealthStatus{Status: "ok", Dependencies: map[string]string{}}
	for name, check := range u.checks {
		checkCtx, cancel := context.WithTimeout(ctx, u.timeout)
		err := check(checkCtx)
		cancel()
		if err != nil {
			result.Dependencies[name] = "unavailable"
			result.Status = "degraded"
			continue
		}
		result.Dependencies[name] = "ok"
	}
	return result
}
