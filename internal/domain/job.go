package domain

import "time"

// JobStatus enumerates generation job lifecycle states.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// GenerationJob tracks one call to the image provider. ErrorMessage carries
// the progress label while processing and the failure reason once failed.
type GenerationJob struct {
	ID            string
	BusinessID    string
	CampaignID    string
	Status        JobStatus
	Prompt        string
	AspectRatio   string
	StyleID       string
	ModelTier     ModelTier
	ErrorMessage  string
	ResultAssetID string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
