package subscription

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	portsout "webhookhub/internal/application/ports/out"
	"webhookhub/internal/domain/entities"
	apperrors "webhookhub/internal/shared_kernel/errors"
)

const foreignKeyViolation = "23503"

type Directory struct {
	db *sql.DB
}

var _ portsout.SubscriptionDirectory = (*Directory)(nil)

func NewDirectory(db *sql.DB) *Directory {
	return &Directory{db: db}
}

func (d *Directory) ListSubscribers(ctx context.Context, eventType string) ([]entities.Subscriber, *apperrors.AppError) {
	const query = `
SELECT s.id, s.url, s.event_type_id, et.name
FROM app.subscribers s
JOIN app.event_types et ON et.id = s.event_type_id
WHERE et.name = $1
ORDER BY s.id ASC
`

	return d.querySubscribers(ctx, query, eventType)
}

func (d *Directory) ListAllSubscribers(ctx context.Context) ([]entities.Subscriber, *apperrors.AppError) {
	const query = `
SELECT s.id, s.url, s.event_type_id, et.name
FROM app.subscribers s
JOIN app.event_types et ON et.id = s.event_type_id
ORDER BY s.id ASC
`

	return d.querySubscribers(ctx, query)
}

func (d *Directory) AddSubscriber(ctx context.Context, url string, eventTypeID int64) (entities.Subscriber, *apperrors.AppError) {
	trimmedURL := strings.TrimSpace(url)
	if trimmedURL == "" {
		return entities.Subscriber{}, apperrors.NewValidation(
			"invalid_request",
			"url is required",
			map[string]any{"field": "url"},
		)
	}

	const query = `
WITH inserted AS (
  INSERT INTO app.subscribers (url, event_type_id)
  SELECT $1, et.id
  FROM app.event_types et
  WHERE et.id = $2
  RETURNING id, url, event_type_id
)
SELECT i.id, i.url, i.event_type_id, et.name
FROM inserted i
JOIN app.event_types et ON et.id = i.event_type_id
`

	subscriber := entities.Subscriber{}
	err := d.db.QueryRowContext(ctx, query, trimmedURL, eventTypeID).Scan(
		&subscriber.ID,
		&subscriber.URL,
		&subscriber.EventTypeID,
		&subscriber.EventType,
	)
	if stderrors.Is(err, sql.ErrNoRows) || isForeignKeyViolation(err) {
		return entities.Subscriber{}, apperrors.NewValidation(
			"event_type_unknown",
			"eventTypeId does not reference a known event type",
			map[string]any{"field": "eventTypeId", "event_type_id": eventTypeID},
		)
	}
	if err != nil {
		return entities.Subscriber{}, apperrors.NewInternal(
			"subscription_directory_write_failed",
			"failed to add subscriber",
			map[string]any{"error": err.Error()},
		)
	}

	return subscriber, nil
}

func (d *Directory) RemoveSubscriber(ctx context.Context, id int64) *apperrors.AppError {
	const query = `DELETE FROM app.subscribers WHERE id = $1`

	if _, err := d.db.ExecContext(ctx, query, id); err != nil {
		return apperrors.NewInternal(
			"subscription_directory_write_failed",
			"failed to remove subscriber",
			map[string]any{"error": err.Error(), "subscriber_id": id},
		)
	}
	return nil
}

func (d *Directory) ListAllEventTypes(ctx context.Context) ([]entities.EventType, *apperrors.AppError) {
	const query = `SELECT id, name FROM app.event_types ORDER BY id ASC`

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, queryFailed("failed to query event types", err)
	}
	defer rows.Close()

	eventTypes := []entities.EventType{}
	for rows.Next() {
		eventType := entities.EventType{}
		if err := rows.Scan(&eventType.ID, &eventType.Name); err != nil {
			return nil, queryFailed("failed to scan event type row", err)
		}
		eventTypes = append(eventTypes, eventType)
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed("failed while iterating event type rows", err)
	}

	return eventTypes, nil
}

func (d *Directory) querySubscribers(ctx context.Context, query string, args ...any) ([]entities.Subscriber, *apperrors.AppError) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, queryFailed("failed to query subscribers", err)
	}
	defer rows.Close()

	subscribers := []entities.Subscriber{}
	for rows.Next() {
		subscriber := entities.Subscriber{}
		if err := rows.Scan(
			&subscriber.ID,
			&subscriber.URL,
			&subscriber.EventTypeID,
			&subscriber.EventType,
		); err != nil {
			return nil, queryFailed("failed to scan subscriber row", err)
		}
		subscribers = append(subscribers, subscriber)
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed("failed while iterating subscriber rows", err)
	}

	return subscribers, nil
}

func queryFailed(message string, err error) *apperrors.AppError {
	return apperrors.NewInternal(
		"subscription_directory_query_failed",
		message,
		map[string]any{"error": err.Error()},
	)
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return stderrors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}
