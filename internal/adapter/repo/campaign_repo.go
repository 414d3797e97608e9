package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"campaignstudio/internal/domain"
	"campaignstudio/internal/infra"
	"campaignstudio/internal/sqlinline"
)

// CampaignRepositoryPG implements domain.CampaignRepository.
type CampaignRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewCampaignRepository creates a campaign repository backed by PostgreSQL.
func NewCampaignRepository(sql infra.SQLExecutor) *CampaignRepositoryPG {
	return &CampaignRepositoryPG{sql: sql}
}

// Create inserts a new campaign and fills its timestamps.
func (r *CampaignRepositoryPG) Create(ctx context.Context, c *domain.Campaign) error {
	prompts, err := json.Marshal(c.Prompts)
	if err != nil {
		return fmt.Errorf("encode prompts: %w", err)
	}
	return r.sql.QueryRow(ctx, sqlinline.QInsertCampaign,
		c.ID,
		c.BusinessID,
		string(c.Status),
		c.TotalImages,
		prompts,
		c.AspectRatio,
		c.StyleID,
		string(c.ModelTier),
		c.FreedomMode,
		c.Locale,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

// GetByID fetches a campaign.
func (r *CampaignRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	var (
		c       domain.Campaign
		status  string
		tier    string
		prompts []byte
	)
	err := r.sql.QueryRow(ctx, sqlinline.QSelectCampaignByID, id).Scan(
		&c.ID,
		&c.BusinessID,
		&status,
		&c.TotalImages,
		&c.CompletedImages,
		&prompts,
		&c.AspectRatio,
		&c.StyleID,
		&tier,
		&c.FreedomMode,
		&c.Locale,
		&c.AnchorURL,
		&c.AnchorAssetID,
		&c.AnchorRegenerations,
		&c.Error,
		&c.CompletedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, mapNoRows(err)
	}
	if len(prompts) > 0 {
		if err := json.Unmarshal(prompts, &c.Prompts); err != nil {
			return nil, fmt.Errorf("decode prompts: %w", err)
		}
	}
	c.Status = domain.CampaignStatus(status)
	c.ModelTier = domain.ModelTier(tier)
	return &c, nil
}

// UpdateProgress raises the in-progress floor of completed images.
func (r *CampaignRepositoryPG) UpdateProgress(ctx context.Context, id string, completedImages int) error {
	_, err := r.sql.Exec(ctx, sqlinline.QUpdateCampaignProgress, id, completedImages)
	return err
}

// SetAnchor records the first anchor of a campaign.
func (r *CampaignRepositoryPG) SetAnchor(ctx context.Context, id, anchorURL, anchorAssetID string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QSetCampaignAnchor, id, anchorURL, anchorAssetID)
	return err
}

// Finish writes the terminal status of an orchestrator run.
func (r *CampaignRepositoryPG) Finish(ctx context.Context, id string, status domain.CampaignStatus, completedImages int, errMsg string, completedAt time.Time) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QFinishCampaign, id, string(status), completedImages, errMsg, completedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("finish campaign %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ReplaceAnchor swaps the anchor and moves the campaign to preview.
func (r *CampaignRepositoryPG) ReplaceAnchor(ctx context.Context, id, anchorURL, anchorAssetID string, regenerations int) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QReplaceCampaignAnchor, id, anchorURL, anchorAssetID, regenerations)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ domain.CampaignRepository = (*CampaignRepositoryPG)(nil)
