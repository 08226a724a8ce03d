package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/johnquangdev/video-summarizer/internal/domain/entities"
	"github.com/johnquangdev/video-summarizer/internal/domain/repositories"
)

// MemoryJobRepository is a process-local job store.
// Records are copied in and out, so callers never share memory with it.
// Jobs are kept until the process exits.
type MemoryJobRepository struct {
	mu   sync.RWMutex
	jobs map[string]*entities.Job
}

var _ repositories.JobRepository = (*MemoryJobRepository)(nil)

// NewMemoryJobRepository creates an empty in-memory store
func NewMemoryJobRepository() *MemoryJobRepository {
	return &MemoryJobRepository{
		jobs: make(map[string]*entities.Job),
	}
}

// Create stores a new job
func (m *MemoryJobRepository) Create(_ context.Context, job *entities.Job) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.jobs[job.ID]; exists {
		return fmt.Errorf("%w: %s", entities.ErrJobAlreadyExists, job.ID)
	}
	m.jobs[job.ID] = job.Clone()
	return nil
}

// Get returns a snapshot of the job
func (m *MemoryJobRepository) Get(_ context.Context, id string) (*entities.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, exists := m.jobs[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", entities.ErrJobNotFound, id)
	}
	return job.Clone(), nil
}

// Update applies fn to a working copy and swaps it in under the write lock
func (m *MemoryJobRepository) Update(_ context.Context, id string, fn func(job *entities.Job) error) (*entities.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, exists := m.jobs[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", entities.ErrJobNotFound, id)
	}

	working := current.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	m.jobs[id] = working
	return working.Clone(), nil
}

// List returns snapshots of all jobs, newest first
func (m *MemoryJobRepository) List(_ context.Context) ([]*entities.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	jobs := make([]*entities.Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		jobs = append(jobs, job.Clone())
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
	return jobs, nil
}
