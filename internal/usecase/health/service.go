package health

import (
	"context"
	"sort"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all dependencies are reachable.
	Healthy Status = "ok"
	// Degraded indicates an optional dependency is failing.
	Degraded Status = "degraded"
	// Unhealthy indicates the search API itself is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual dependency check outcome.
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

// Names returns the checked dependency names in sorted order.
func (r Report) Names() []string {
	names := make([]string, 0, len(r.Checks))
	for n := range r.Checks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Service coordinates health checks.
type Service struct {
	searchAPI Checker
	optional  map[string]Checker
}

// New creates a Service. searchAPI is required for the service to be healthy;
// each optional checker can only degrade the status.
func New(searchAPI Checker, optional map[string]Checker) *Service {
	return &Service{searchAPI: searchAPI, optional: optional}
}

// Check runs every health check.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, len(s.optional)+1)
	status := Healthy

	if err := s.searchAPI.HealthCheck(ctx); err != nil {
		checks["search_api"] = CheckError
		status = Unhealthy
	} else {
		checks["search_api"] = CheckOK
	}

	for name, c := range s.optional {
		if c == nil {
			continue
		}
		if err := c.HealthCheck(ctx); err != nil {
			checks[name] = CheckError
			if status == Healthy {
				status = Degraded
			}
		} else {
			checks[name] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}
