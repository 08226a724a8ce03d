package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/video-summarizer/internal/domain/entities"
	"github.com/johnquangdev/video-summarizer/internal/domain/repositories"
)

// summaryJob is the persisted row of a summarization job
type summaryJob struct {
	ID          string                                  `gorm:"type:varchar(36);primary_key"`
	Status      string                                  `gorm:"type:varchar(20);not null;index"`
	Progress    int                                     `gorm:"type:integer;not null;default:0"`
	Stage       string                                  `gorm:"type:text"`
	InputPath   string                                  `gorm:"type:text;not null"`
	OutputPath  string                                  `gorm:"type:text;not null"`
	Options     datatypes.JSONType[entities.JobOptions] `gorm:"type:jsonb"`
	Result      datatypes.JSONType[*entities.JobResult] `gorm:"type:jsonb"`
	Error       string                                  `gorm:"type:text"`
	StartedAt   *time.Time                              `gorm:"type:timestamp"`
	CompletedAt *time.Time                              `gorm:"type:timestamp"`
	CreatedAt   time.Time                               `gorm:"autoCreateTime"`
	UpdatedAt   time.Time                               `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (summaryJob) TableName() string {
	return "summary_jobs"
}

func toRow(job *entities.Job) *summaryJob {
	return &summaryJob{
		ID:          job.ID,
		Status:      string(job.Status),
		Progress:    job.Progress,
		Stage:       job.Stage,
		InputPath:   job.InputPath,
		OutputPath:  job.OutputPath,
		Options:     datatypes.NewJSONType(job.Options),
		Result:      datatypes.NewJSONType(job.Result),
		Error:       job.Error,
		StartedAt:   job.StartedAt,
		CompletedAt: job.CompletedAt,
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
	}
}

func (r *summaryJob) toEntity() *entities.Job {
	return &entities.Job{
		ID:          r.ID,
		Status:      entities.JobStatus(r.Status),
		Progress:    r.Progress,
		Stage:       r.Stage,
		InputPath:   r.InputPath,
		OutputPath:  r.OutputPath,
		Options:     r.Options.Data(),
		Result:      r.Result.Data(),
		Error:       r.Error,
		StartedAt:   r.StartedAt,
		CompletedAt: r.CompletedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func postgresError(op string, err error) error {
	return &repositories.StoreError{Backend: repositories.BackendPostgres, Op: op, Err: err}
}

// JobRepository persists jobs in PostgreSQL
type JobRepository struct {
	db *gorm.DB
}

var _ repositories.JobRepository = (*JobRepository)(nil)

// NewJobRepository creates a new job repository
func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a new job
func (r *JobRepository) Create(ctx context.Context, job *entities.Job) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	if err := r.db.WithContext(ctx).Create(toRow(job)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", entities.ErrJobAlreadyExists, job.ID)
		}
		return postgresError("create job", err)
	}
	return nil
}

// Get retrieves a job by ID
func (r *JobRepository) Get(ctx context.Context, id string) (*entities.Job, error) {
	var row summaryJob
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", entities.ErrJobNotFound, id)
		}
		return nil, postgresError("get job", err)
	}
	return row.toEntity(), nil
}

// Update locks the row, applies fn and saves inside one transaction
func (r *JobRepository) Update(ctx context.Context, id string, fn func(job *entities.Job) error) (*entities.Job, error) {
	var updated *entities.Job
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row summaryJob
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", entities.ErrJobNotFound, id)
			}
			return postgresError("lock job", err)
		}

		job := row.toEntity()
		if err := fn(job); err != nil {
			return err
		}

		if err := tx.Save(toRow(job)).Error; err != nil {
			return postgresError("update job", err)
		}
		updated = job
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// List returns all jobs, newest first
func (r *JobRepository) List(ctx context.Context) ([]*entities.Job, error) {
	var rows []summaryJob
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, postgresError("list jobs", err)
	}
	jobs := make([]*entities.Job, 0, len(rows))
	for i := range rows {
		jobs = append(jobs, rows[i].toEntity())
	}
	return jobs, nil
}
