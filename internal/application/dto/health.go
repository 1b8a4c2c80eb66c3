package dto

type GetHealthCommand struct{}

type HealthOutput struct {
	Status     string `json:"status"`
	Storage    string `json:"storage"`
	EventTypes int    `json:"eventTypes"`
}

const (
	HealthStorageReachable   = "reachable"
	HealthStorageUnavailable = "unavailable"
)
