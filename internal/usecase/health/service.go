package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckMissing indicates an index that has not been created.
	CheckMissing CheckResult = "missing"
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
	db      DBPinger
	indexes []IndexChecker
}

// New creates a Service checking the database and each index.
func New(db DBPinger, indexes ...IndexChecker) *Service {
	return &Service{db: db, indexes: indexes}
}

// Check runs health checks against all components. Index checks are keyed
// "index:<name>".
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, 1+len(s.indexes))

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
	} else {
		checks["database"] = CheckOK
	}

	for _, idx := range s.indexes {
		key := "index:" + idx.Name()
		ok, err := idx.Exists(ctx)
		switch {
		case err != nil:
			checks[key] = CheckError
		case !ok:
			checks[key] = CheckMissing
		default:
			checks[key] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v != CheckOK {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
