package entities

// Subscriber is one registered delivery target. It references its event type
// by id; EventType carries the resolved name for read models only.
type Subscriber struct {
	ID          int64
	URL         string
	EventTypeID int64
	EventType   string
}

type EventType struct {
	ID   int64
	Name string
}
