package campaign

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"campaignstudio/internal/domain"
)

// StatusView is a campaign with its assets in creation order.
type StatusView struct {
	Campaign *domain.Campaign
	Assets   []domain.Asset
}

// AssetIDs lists asset ids in creation order.
func (v StatusView) AssetIDs() []string {
	ids := make([]string, 0, len(v.Assets))
	for _, a := range v.Assets {
		ids = append(ids, a.ID)
	}
	return ids
}

// AssetURLs lists public asset URLs in creation order.
func (v StatusView) AssetURLs() []string {
	urls := make([]string, 0, len(v.Assets))
	for _, a := range v.Assets {
		urls = append(urls, a.Content)
	}
	return urls
}

// CampaignStatus reads the campaign and its assets without side effects.
func (s *Service) CampaignStatus(ctx context.Context, campaignID string) (*StatusView, error) {
	campaignID, err := validCampaignID(campaignID)
	if err != nil {
		return nil, err
	}
	c, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("load campaign: %w", err)
	}
	assets, err := s.assets.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list campaign assets: %w", err)
	}
	return &StatusView{Campaign: c, Assets: assets}, nil
}

// Job returns one generation job.
func (s *Service) Job(ctx context.Context, jobID string) (*domain.GenerationJob, error) {
	jobID = strings.TrimSpace(jobID)
	if !isUUID(jobID) {
		return nil, domain.ErrNotFound
	}
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return job, nil
}
