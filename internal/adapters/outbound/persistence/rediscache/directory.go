package rediscache

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	portsout "webhookhub/internal/application/ports/out"
	"webhookhub/internal/domain/entities"
	apperrors "webhookhub/internal/shared_kernel/errors"
)

const (
	defaultKeyPrefix = "webhookhub:directory"
	generationSuffix = ":gen"
)

// Directory caches subscriber lookups in Redis in front of another
// SubscriptionDirectory. Entries are keyed by a generation counter that every
// mutation bumps after the base write commits, so a reader never sees a
// listing older than the last acknowledged mutation. Redis failures fall back
// to the base directory. A non-positive TTL disables caching.
type Directory struct {
	base      portsout.SubscriptionDirectory
	redis     *redis.Client
	ttl       time.Duration
	keyPrefix string
	logger    logrus.FieldLogger
}

var _ portsout.SubscriptionDirectory = (*Directory)(nil)

type Option func(*Directory)

func WithKeyPrefix(prefix string) Option {
	return func(d *Directory) {
		if prefix != "" {
			d.keyPrefix = prefix
		}
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(d *Directory) {
		if logger != nil {
			d.logger = logger
		}
	}
}

func NewDirectory(base portsout.SubscriptionDirectory, client *redis.Client, ttl time.Duration, opts ...Option) *Directory {
	if base == nil {
		panic("rediscache.NewDirectory: base directory is nil")
	}
	discard := logrus.New()
	discard.Out = io.Discard

	d := &Directory{
		base:      base,
		redis:     client,
		ttl:       ttl,
		keyPrefix: defaultKeyPrefix,
		logger:    discard,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Directory) ListSubscribers(ctx context.Context, eventType string) ([]entities.Subscriber, *apperrors.AppError) {
	generation, ok := d.generation(ctx)
	if !ok {
		return d.base.ListSubscribers(ctx, eventType)
	}

	key := d.subscribersKey(generation, eventType)
	var cached []entities.Subscriber
	if d.load(ctx, key, &cached) {
		return cached, nil
	}

	subscribers, appErr := d.base.ListSubscribers(ctx, eventType)
	if appErr != nil {
		return nil, appErr
	}

	d.store(ctx, key, subscribers)
	return subscribers, nil
}

func (d *Directory) ListAllEventTypes(ctx context.Context) ([]entities.EventType, *apperrors.AppError) {
	generation, ok := d.generation(ctx)
	if !ok {
		return d.base.ListAllEventTypes(ctx)
	}

	key := d.eventTypesKey(generation)
	var cached []entities.EventType
	if d.load(ctx, key, &cached) {
		return cached, nil
	}

	eventTypes, appErr := d.base.ListAllEventTypes(ctx)
	if appErr != nil {
		return nil, appErr
	}

	d.store(ctx, key, eventTypes)
	return eventTypes, nil
}

// ListAllSubscribers is an administrative listing and always reads through.
func (d *Directory) ListAllSubscribers(ctx context.Context) ([]entities.Subscriber, *apperrors.AppError) {
	return d.base.ListAllSubscribers(ctx)
}

func (d *Directory) AddSubscriber(ctx context.Context, url string, eventTypeID int64) (entities.Subscriber, *apperrors.AppError) {
	subscriber, appErr := d.base.AddSubscriber(ctx, url, eventTypeID)
	if appErr != nil {
		return entities.Subscriber{}, appErr
	}

	d.bumpGeneration(ctx)
	return subscriber, nil
}

func (d *Directory) RemoveSubscriber(ctx context.Context, id int64) *apperrors.AppError {
	if appErr := d.base.RemoveSubscriber(ctx, id); appErr != nil {
		return appErr
	}

	d.bumpGeneration(ctx)
	return nil
}

func (d *Directory) enabled() bool {
	return d.redis != nil && d.ttl > 0
}

func (d *Directory) generation(ctx context.Context) (int64, bool) {
	if !d.enabled() {
		return 0, false
	}

	generation, err := d.redis.Get(ctx, d.generationKey()).Int64()
	if err == nil {
		return generation, true
	}
	if stderrors.Is(err, redis.Nil) {
		return 0, true
	}

	d.logger.WithError(err).Warn("subscriber cache generation lookup failed")
	return 0, false
}

func (d *Directory) bumpGeneration(ctx context.Context) {
	if !d.enabled() {
		return
	}
	if err := d.redis.Incr(ctx, d.generationKey()).Err(); err != nil {
		// Without the bump cached listings could outlive the mutation, so
		// drop every entry under the prefix instead.
		d.logger.WithError(err).Warn("subscriber cache generation bump failed")
		d.purge(ctx)
	}
}

func (d *Directory) purge(ctx context.Context) {
	iter := d.redis.Scan(ctx, 0, d.keyPrefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		_ = d.redis.Del(ctx, iter.Val()).Err()
	}
	if err := iter.Err(); err != nil {
		d.logger.WithError(err).Error("subscriber cache purge failed")
	}
}

func (d *Directory) load(ctx context.Context, key string, dst any) bool {
	data, err := d.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !stderrors.Is(err, redis.Nil) {
			d.logger.WithError(err).WithField("cache_key", key).Warn("subscriber cache read failed")
			_ = d.redis.Del(ctx, key).Err()
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		_ = d.redis.Del(ctx, key).Err()
		return false
	}
	return true
}

func (d *Directory) store(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := d.redis.Set(ctx, key, data, d.ttl).Err(); err != nil {
		d.logger.WithError(err).WithField("cache_key", key).Warn("subscriber cache write failed")
	}
}

func (d *Directory) generationKey() string {
	return d.keyPrefix + generationSuffix
}

func (d *Directory) subscribersKey(generation int64, eventType string) string {
	return fmt.Sprintf("%s:%d:subscribers:%s", d.keyPrefix, generation, eventType)
}

func (d *Directory) eventTypesKey(generation int64) string {
	return fmt.Sprintf("%s:%d:event_types", d.keyPrefix, generation)
}
