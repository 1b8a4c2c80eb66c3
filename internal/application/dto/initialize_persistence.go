package dto

import "time"

type InitializePersistenceCommand struct {
	ReadinessTimeout       time.Duration
	ReadinessRetryInterval time.Duration
	// EventTypes are ensured after migrations; names already present are kept.
	EventTypes []string
}
