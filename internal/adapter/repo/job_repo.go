package repo

import (
	"context"

	"campaignstudio/internal/domain"
	"campaignstudio/internal/infra"
	"campaignstudio/internal/sqlinline"
)

// JobRepositoryPG implements domain.JobRepository.
type JobRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewJobRepository creates a new job repository backed by PostgreSQL.
func NewJobRepository(sql infra.SQLExecutor) *JobRepositoryPG {
	return &JobRepositoryPG{sql: sql}
}

// Create inserts a new job record.
func (r *JobRepositoryPG) Create(ctx context.Context, job *domain.GenerationJob) error {
	return r.sql.QueryRow(ctx, sqlinline.QInsertGenerationJob,
		job.ID,
		job.BusinessID,
		job.CampaignID,
		string(job.Status),
		job.Prompt,
		job.AspectRatio,
		job.StyleID,
		string(job.ModelTier),
		job.ErrorMessage,
	).Scan(&job.CreatedAt, &job.UpdatedAt)
}

// GetByID fetches a job by its identifier.
func (r *JobRepositoryPG) GetByID(ctx context.Context, id string) (*domain.GenerationJob, error) {
	var (
		job    domain.GenerationJob
		status string
		tier   string
	)
	err := r.sql.QueryRow(ctx, sqlinline.QSelectGenerationJobByID, id).Scan(
		&job.ID,
		&job.BusinessID,
		&job.CampaignID,
		&status,
		&job.Prompt,
		&job.AspectRatio,
		&job.StyleID,
		&tier,
		&job.ErrorMessage,
		&job.ResultAssetID,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return nil, mapNoRows(err)
	}
	job.Status = domain.JobStatus(status)
	job.ModelTier = domain.ModelTier(tier)
	return &job, nil
}

// UpdateProgress replaces the progress label of an unfinished job.
func (r *JobRepositoryPG) UpdateProgress(ctx context.Context, id, label string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QUpdateGenerationJobProgress, id, label)
	return err
}

// Complete marks the job completed with its result asset.
func (r *JobRepositoryPG) Complete(ctx context.Context, id, assetID string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QCompleteGenerationJob, id, assetID)
	return err
}

// Fail marks the job failed with a reason.
func (r *JobRepositoryPG) Fail(ctx context.Context, id, reason string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QFailGenerationJob, id, reason)
	return err
}

var _ domain.JobRepository = (*JobRepositoryPG)(nil)
