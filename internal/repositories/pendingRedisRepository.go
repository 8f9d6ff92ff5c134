package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"smarthire/internal/models"
	"smarthire/internal/utils"
)

const maxUpdateRetries = 8

type redisPendingRepository struct {
	client    *redis.Client
	prefix    string
	retention time.Duration
	now       func() time.Time
}

// NewRedisPendingRepository stores records as JSON under prefix+token. Each
// key expires retention after the record's ExpiresAt, so PurgeExpired has
// nothing to do.
func NewRedisPendingRepository(client *redis.Client, prefix string, retention time.Duration) PendingRepository {
	return &redisPendingRepository{
		client:    client,
		prefix:    prefix,
		retention: retention,
		now:       time.Now,
	}
}

func (r *redisPendingRepository) key(token string) string {
	return r.prefix + token
}

func (r *redisPendingRepository) ttl(rec *models.PendingRecord) time.Duration {
	ttl := rec.ExpiresAt.Add(r.retention).Sub(r.now())
	if ttl < time.Second {
		ttl = time.Second
	}
	return ttl
}

func (r *redisPendingRepository) Create(ctx context.Context, rec *models.PendingRecord) error {
	timer := utils.NewDBTimer("create", "pending")

	data, err := json.Marshal(rec)
	if err != nil {
		timer.Done(err)
		return fmt.Errorf("failed to encode pending record: %w", err)
	}
	ok, err := r.client.SetNX(ctx, r.key(rec.Token), data, r.ttl(rec)).Result()
	timer.Done(err)
	if err != nil {
		return fmt.Errorf("failed to store pending record: %w", err)
	}
	if !ok {
		return ErrAlreadyExists
	}
	return nil
}

func decodePending(data []byte) (*models.PendingRecord, error) {
	var rec models.PendingRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode pending record: %w", err)
	}
	return &rec, nil
}

func (r *redisPendingRepository) Get(ctx context.Context, token string) (*models.PendingRecord, error) {
	timer := utils.NewDBTimer("get", "pending")

	data, err := r.client.Get(ctx, r.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		timer.Done(nil)
		return nil, ErrNotFound
	}
	timer.Done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending record: %w", err)
	}
	return decodePending(data)
}

// Update runs fn inside an optimistic WATCH/MULTI transaction and retries
// when another writer touched the key in between.
func (r *redisPendingRepository) Update(ctx context.Context, token string, fn UpdateFunc) (*models.PendingRecord, error) {
	timer := utils.NewDBTimer("update", "pending")
	key := r.key(token)

	var (
		result *models.PendingRecord
		fnErr  error
	)
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		rec, err := decodePending(data)
		if err != nil {
			return err
		}

		remove, err := fn(rec)
		if err != nil {
			fnErr = err
			return err
		}

		var encoded []byte
		if !remove {
			if encoded, err = json.Marshal(rec); err != nil {
				return err
			}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if remove {
				pipe.Del(ctx, key)
			} else {
				pipe.Set(ctx, key, encoded, r.ttl(rec))
			}
			return nil
		})
		if err == nil {
			result = rec
		}
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		switch {
		case err == nil:
			timer.Done(nil)
			return result, nil
		case fnErr != nil:
			timer.Done(nil)
			return nil, fnErr
		case errors.Is(err, ErrNotFound):
			timer.Done(nil)
			return nil, ErrNotFound
		case errors.Is(err, redis.TxFailedErr):
			continue
		default:
			timer.Done(err)
			return nil, fmt.Errorf("failed to update pending record: %w", err)
		}
	}
	err := fmt.Errorf("failed to update pending record %s: too much contention", token)
	timer.Done(err)
	return nil, err
}

func (r *redisPendingRepository) Delete(ctx context.Context, token string) error {
	timer := utils.NewDBTimer("delete", "pending")

	err := r.client.Del(ctx, r.key(token)).Err()
	timer.Done(err)
	if err != nil {
		return fmt.Errorf("failed to delete pending record: %w", err)
	}
	return nil
}

// PurgeExpired is a no-op; Redis expires keys on its own.
func (r *redisPendingRepository) PurgeExpired(context.Context, time.Time) (int, error) {
	return 0, nil
}
