package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	database Pinger
	cache    Pinger
}

// New creates a Service. Either pinger can be nil (fixture mode, cache disabled).
func New(database, cache Pinger) *Service {
	return &Service{database: database, cache: cache}
}

// Check runs health checks against all configured components.
// Search keeps serving from the database when only the cache is down, so that is degraded.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	ping(ctx, checks, "database", s.database)
	ping(ctx, checks, "cache", s.cache)

	status := Healthy
	switch {
	case checks["database"] == CheckError:
		status = Unhealthy
	case checks["cache"] == CheckError:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}

func ping(ctx context.Context, checks map[string]CheckResult, name string, p Pinger) {
	if p == nil {
		return
	}
	if err := p.Ping(ctx); err != nil {
		checks[name] = CheckError
		return
	}
	checks[name] = CheckOK
}
