package repositories

import (
	"context"
	"fmt"

	"github.com/johnquangdev/video-summarizer/internal/domain/entities"
)

// JobRepository is the job registry store.
//
// Get and List return snapshots that the caller may keep. Update applies fn to
// the current record and persists the outcome atomically with respect to
// concurrent readers of the same job; if fn returns an error nothing is
// written. Missing jobs are reported as entities.ErrJobNotFound.
type JobRepository interface {
	Create(ctx context.Context, job *entities.Job) error
	Get(ctx context.Context, id string) (*entities.Job, error)
	Update(ctx context.Context, id string, fn func(job *entities.Job) error) (*entities.Job, error)
	List(ctx context.Context) ([]*entities.Job, error)
}

// Backends that can report a StoreError
const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// StoreError reports that the backend holding the registry failed, as opposed
// to a domain error such as entities.ErrJobNotFound
type StoreError struct {
	Backend string
	Op      string
	Err     error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
