package domain

// CheckStatus is the outcome of one doctor probe.
type CheckStatus string

const (
	CheckOK   CheckStatus = "ok"
	CheckWarn CheckStatus = "warn"
	CheckFail CheckStatus = "fail"
)

// HealthCheck is a single named probe result.
type HealthCheck struct {
	Name   string
	Status CheckStatus
	Detail string
}

// HealthReport aggregates doctor probe results.
type HealthReport struct {
	Checks []HealthCheck
}

// Healthy reports whether no probe failed outright.
func (r HealthReport) Healthy() bool {
	for _, c := range r.Checks {
		if c.Status == CheckFail {
			return false
		}
	}
	return true
}
