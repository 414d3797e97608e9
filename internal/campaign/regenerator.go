package campaign

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"campaignstudio/internal/domain"
)

// LabelRegeneratingAnchor is the initial progress label of a regeneration job.
const LabelRegeneratingAnchor = "Regenerating anchor image…"

// RegenerateResult reports the new anchor and what the regeneration costs.
type RegenerateResult struct {
	CampaignID              string
	Status                  domain.CampaignStatus
	AnchorURL               string
	AnchorAssetID           string
	Regenerations           int
	CreditCost              int
	FreeRejectionsRemaining int
}

// RegenerateAnchor re-runs the first prompt, optionally with feedback, and
// swaps the campaign anchor. The campaign is left untouched on any failure.
// Regeneration requires an existing anchor and moves the campaign to preview.
func (s *Service) RegenerateAnchor(ctx context.Context, campaignID, adjustment string) (*RegenerateResult, error) {
	campaignID, err := validCampaignID(campaignID)
	if err != nil {
		return nil, err
	}

	ctx = context.WithoutCancel(ctx)
	ctx, span := tracer.Start(ctx, "campaign.regenerate_anchor")
	defer span.End()
	span.SetAttributes(attribute.String("campaign.id", campaignID))

	res, err := s.regenerate(ctx, campaignID, adjustment)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("campaign.anchor_regenerations", res.Regenerations))
	return res, nil
}

func (s *Service) regenerate(ctx context.Context, campaignID, adjustment string) (*RegenerateResult, error) {
	release, err := s.locker.Acquire(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	defer release()

	c, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("load campaign: %w", err)
	}
	switch {
	case c.Status == domain.CampaignStatusProcessing:
		return nil, domain.ErrCampaignBusy
	case !c.HasAnchor():
		return nil, domain.ErrNoAnchor
	case len(c.Prompts) == 0:
		return nil, invalid("campaign %s has no prompts", c.ID)
	}

	business, err := s.businesses.GetByID(ctx, c.BusinessID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrBusinessNotFound
		}
		return nil, fmt.Errorf("load business: %w", err)
	}

	log := s.logger.With().Str("campaign_id", c.ID).Logger()
	prompt := WithFeedback(c.Prompts[0], adjustment)
	params := c.Params()

	job, err := s.generator.StartJob(ctx, c.BusinessID, c.ID, prompt, params, LabelRegeneratingAnchor)
	if err != nil {
		return nil, err
	}
	outcome, err := s.generator.Generate(ctx, ImageInput{
		JobID:      job.ID,
		CampaignID: c.ID,
		Business:   business,
		Prompt:     prompt,
		Params:     params,
		IsAnchor:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("regenerate anchor: %w", err)
	}

	cost, remaining := s.allowance.price(c.AnchorRegenerations)
	regenerations := c.AnchorRegenerations + 1
	if err := s.campaigns.ReplaceAnchor(ctx, c.ID, outcome.AssetURL, outcome.AssetID, regenerations); err != nil {
		// the published asset is flagged as anchor but the campaign still points elsewhere
		log.Error().Err(err).Str("orphan_asset_id", outcome.AssetID).Msg("replace anchor failed")
		return nil, fmt.Errorf("replace anchor: %w", err)
	}

	log.Info().
		Str("asset_id", outcome.AssetID).
		Int("regenerations", regenerations).
		Int("credit_cost", cost).
		Msg("campaign anchor regenerated")

	return &RegenerateResult{
		CampaignID:              c.ID,
		Status:                  domain.CampaignStatusPreview,
		AnchorURL:               outcome.AssetURL,
		AnchorAssetID:           outcome.AssetID,
		Regenerations:           regenerations,
		CreditCost:              cost,
		FreeRejectionsRemaining: remaining,
	}, nil
}

// price returns the cost of the regeneration following previous ones and the
// free regenerations left after it.
func (a Allowance) price(previous int) (cost, remaining int) {
	if previous >= a.Free {
		cost = a.CreditCost
	}
	remaining = max(0, a.Free-(previous+1))
	return cost, remaining
}
