package valueobjects

type HealthStatus string

const (
	HealthStatusOK       HealthStatus = "ok"
	HealthStatusDegraded HealthStatus = "degraded"
)

// NewHealthStatus reports degraded as soon as the subscription store cannot
// answer; the dispatch path cannot resolve subscribers without it.
func NewHealthStatus(storageReachable bool) HealthStatus {
	if !storageReachable {
		return HealthStatusDegraded
	}
	return HealthStatusOK
}

func (h HealthStatus) IsHealthy() bool {
	return h == HealthStatusOK
}

func (h HealthStatus) String() string {
	return string(h)
}
