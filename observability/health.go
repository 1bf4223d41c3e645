package observability

import "context"

// HealthStatus is a component's reported condition.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDegraded HealthStatus = "degraded"
	HealthStatusDown     HealthStatus = "down"
)

// severity orders statuses so aggregation can take the worst one.
func severity(s HealthStatus) int {
	switch s {
	case HealthStatusDown:
		return 2
	case HealthStatusDegraded:
		return 1
	default:
		return 0
	}
}

// Health is one dependency's check result.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// HealthChecker is implemented by dependencies the health endpoint polls,
// such as the Postgres store and the Redis session store.
type HealthChecker interface {
	CheckHealth(ctx context.Context) Health
}

// ServiceHealth aggregates component checks into an overall status.
type ServiceHealth struct {
	Service    string       `json:"service"`
	Status     HealthStatus `json:"status"`
	Version    string       `json:"version,omitempty"`
	Components []Health     `json:"components,omitempty"`
}

// NewServiceHealth starts an aggregate at "up"; components can only drag it
// down.
func NewServiceHealth(service, version string) *ServiceHealth {
	return &ServiceHealth{
		Service: service,
		Status:  HealthStatusUp,
		Version: version,
	}
}

// AddComponent records a component result and keeps the overall status at
// the worst severity seen.
func (sh *ServiceHealth) AddComponent(h Health) {
	sh.Components = append(sh.Components, h)
	if severity(h.Status) > severity(sh.Status) {
		sh.Status = h.Status
	}
}
