package domain

import (
	"context"
	"time"
)

// BusinessRepository reads tenant profiles.
type BusinessRepository interface {
	GetByID(ctx context.Context, id string) (*Business, error)
}

// CampaignRepository persists campaign records.
type CampaignRepository interface {
	Create(ctx context.Context, campaign *Campaign) error
	GetByID(ctx context.Context, id string) (*Campaign, error)
	UpdateProgress(ctx context.Context, id string, completedImages int) error
	SetAnchor(ctx context.Context, id, anchorURL, anchorAssetID string) error
	Finish(ctx context.Context, id string, status CampaignStatus, completedImages int, errMsg string, completedAt time.Time) error
	ReplaceAnchor(ctx context.Context, id, anchorURL, anchorAssetID string, regenerations int) error
}

// JobRepository persists generation jobs.
type JobRepository interface {
	Create(ctx context.Context, job *GenerationJob) error
	GetByID(ctx context.Context, id string) (*GenerationJob, error)
	UpdateProgress(ctx context.Context, id, label string) error
	Complete(ctx context.Context, id, assetID string) error
	Fail(ctx context.Context, id, reason string) error
}

// AssetRepository persists published assets.
type AssetRepository interface {
	Create(ctx context.Context, asset *Asset) error
	ListByCampaign(ctx context.Context, campaignID string) ([]Asset, error)
}
