package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/johnquangdev/video-summarizer/internal/domain/entities"
	"github.com/johnquangdev/video-summarizer/internal/domain/repositories"
)

const (
	redisJobKeyPrefix = "summary:job:"
	redisJobIndexKey  = "summary:jobs"
	redisMaxTxRetries = 10
)

// RedisJobRepository keeps jobs as JSON documents in Redis.
// Updates use WATCH/MULTI so a reader never sees a half-written job.
type RedisJobRepository struct {
	client *redis.Client
}

var _ repositories.JobRepository = (*RedisJobRepository)(nil)

// NewRedisJobRepository creates a Redis backed job repository
func NewRedisJobRepository(client *redis.Client) *RedisJobRepository {
	return &RedisJobRepository{client: client}
}

func redisJobKey(id string) string {
	return redisJobKeyPrefix + id
}

func redisError(op string, err error) error {
	return &repositories.StoreError{Backend: repositories.BackendRedis, Op: op, Err: err}
}

// Create stores a new job and indexes it by creation time
func (r *RedisJobRepository) Create(ctx context.Context, job *entities.Job) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	ok, err := r.client.SetNX(ctx, redisJobKey(job.ID), data, 0).Result()
	if err != nil {
		return redisError("create job", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", entities.ErrJobAlreadyExists, job.ID)
	}

	if err := r.client.ZAdd(ctx, redisJobIndexKey, redis.Z{
		Score:  float64(job.CreatedAt.UnixNano()),
		Member: job.ID,
	}).Err(); err != nil {
		return redisError("index job", err)
	}
	return nil
}

// Get retrieves a job by ID
func (r *RedisJobRepository) Get(ctx context.Context, id string) (*entities.Job, error) {
	data, err := r.client.Get(ctx, redisJobKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", entities.ErrJobNotFound, id)
		}
		return nil, redisError("get job", err)
	}
	return decodeJob(data)
}

// Update applies fn inside an optimistic transaction, retrying on conflicts
func (r *RedisJobRepository) Update(ctx context.Context, id string, fn func(job *entities.Job) error) (*entities.Job, error) {
	key := redisJobKey(id)
	var updated *entities.Job

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return fmt.Errorf("%w: %s", entities.ErrJobNotFound, id)
			}
			return redisError("get job", err)
		}

		job, err := decodeJob(data)
		if err != nil {
			return err
		}
		if err := fn(job); err != nil {
			return err
		}

		out, err := json.Marshal(job)
		if err != nil {
			return fmt.Errorf("marshal job: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, 0)
			return nil
		})
		if err != nil {
			if errors.Is(err, redis.TxFailedErr) {
				return err
			}
			return redisError("update job", err)
		}
		updated = job
		return nil
	}

	for i := 0; i < redisMaxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("update job %s: too many concurrent writers", id)
}

// List returns all indexed jobs, newest first
func (r *RedisJobRepository) List(ctx context.Context) ([]*entities.Job, error) {
	ids, err := r.client.ZRevRange(ctx, redisJobIndexKey, 0, -1).Result()
	if err != nil {
		return nil, redisError("list jobs", err)
	}
	if len(ids) == 0 {
		return []*entities.Job{}, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, redisJobKey(id))
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, redisError("list jobs", err)
	}

	jobs := make([]*entities.Job, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		job, err := decodeJob([]byte(s))
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func decodeJob(data []byte) (*entities.Job, error) {
	var job entities.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("decode job: %w", err)
	}
	return &job, nil
}
