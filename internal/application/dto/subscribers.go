package dto

type SubscriberOutput struct {
	ID          int64  `json:"id"`
	URL         string `json:"url"`
	EventTypeID int64  `json:"eventTypeId"`
	EventType   string `json:"eventType"`
}

type EventTypeOutput struct {
	ID        int64  `json:"id"`
	EventType string `json:"eventType"`
}

type ListSubscribersQuery struct{}

type ListEventTypesQuery struct{}

type AddSubscriberCommand struct {
	URL         string
	EventTypeID int64
}

type RemoveSubscriberCommand struct {
	ID int64
}
