package campaign

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"campaignstudio/internal/domain"
)

// Statuses reported to the caller of CreateCampaign. The persisted status
// stays complete or failed; every non-complete run is reported as partial.
const (
	ReportComplete = "complete"
	ReportPartial  = "partial"
)

// Job progress labels set by the orchestrator when a job is created.
const (
	LabelCreatingAnchor = "Creating anchor image…"
	labelWithStyle      = "Generating image %d/%d with campaign style…"
)

// CreateInput is a campaign request.
type CreateInput struct {
	BusinessID  string
	Prompts     []string
	AspectRatio string
	StyleID     string
	ModelTier   domain.ModelTier
	FreedomMode bool
	Locale      string
}

// CreateResult is the final state of a campaign run.
type CreateResult struct {
	CampaignID      string
	Status          domain.CampaignStatus
	ReportedStatus  string
	TotalImages     int
	CompletedImages int
	AssetIDs        []string
	AnchorURL       string
	Error           string
}

// CreateCampaign validates the request, records the campaign and generates
// every prompt in order. It returns an error only when nothing was started:
// invalid input, an unknown business, or a failed campaign insert. Per-image
// failures are reflected in the result instead.
func (s *Service) CreateCampaign(ctx context.Context, in CreateInput) (*CreateResult, error) {
	in, err := normalizeCreateInput(in)
	if err != nil {
		return nil, err
	}

	business, err := s.businesses.GetByID(ctx, in.BusinessID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrBusinessNotFound, in.BusinessID)
		}
		return nil, fmt.Errorf("load business: %w", err)
	}

	// the run outlives a dropped client connection; pollers still see it finish
	ctx = context.WithoutCancel(ctx)
	ctx, span := tracer.Start(ctx, "campaign.create")
	defer span.End()

	c := &domain.Campaign{
		ID:          uuid.NewString(),
		BusinessID:  business.ID,
		Status:      domain.CampaignStatusProcessing,
		TotalImages: len(in.Prompts),
		Prompts:     in.Prompts,
		AspectRatio: in.AspectRatio,
		StyleID:     in.StyleID,
		ModelTier:   in.ModelTier,
		FreedomMode: in.FreedomMode,
		Locale:      in.Locale,
	}
	span.SetAttributes(
		attribute.String("campaign.id", c.ID),
		attribute.String("business.id", c.BusinessID),
		attribute.Int("campaign.total_images", c.TotalImages),
		attribute.String("campaign.model_tier", string(c.ModelTier)),
	)

	release, err := s.locker.Acquire(ctx, c.ID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	defer release()

	if err := s.campaigns.Create(ctx, c); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create campaign")
		return nil, fmt.Errorf("create campaign: %w", err)
	}

	result := s.run(ctx, business, c)
	if result.Status != domain.CampaignStatusComplete {
		span.SetStatus(codes.Error, result.Error)
	}
	span.SetAttributes(attribute.Int("campaign.completed_images", result.CompletedImages))
	return result, nil
}

func (s *Service) run(ctx context.Context, business *domain.Business, c *domain.Campaign) *CreateResult {
	log := s.logger.With().Str("campaign_id", c.ID).Str("business_id", c.BusinessID).Logger()
	log.Info().Int("total_images", c.TotalImages).Msg("campaign started")

	params := c.Params()
	total := len(c.Prompts)
	assetIDs := make([]string, 0, total)
	anchorURL := ""

	for i, prompt := range c.Prompts {
		// the counter is an in-progress floor: images before i have resolved
		if err := s.campaigns.UpdateProgress(ctx, c.ID, i); err != nil {
			log.Warn().Err(err).Int("index", i).Msg("update campaign progress")
		}

		label := LabelCreatingAnchor
		if i > 0 {
			label = fmt.Sprintf(labelWithStyle, i+1, total)
		}
		job, err := s.generator.StartJob(ctx, c.BusinessID, c.ID, prompt, params, label)
		if err != nil {
			log.Error().Err(err).Int("index", i).Msg("campaign image skipped")
			continue
		}

		outcome, err := s.generator.Generate(ctx, ImageInput{
			JobID:      job.ID,
			CampaignID: c.ID,
			Business:   business,
			Prompt:     prompt,
			Params:     params,
			AnchorURL:  anchorURL,
			IsAnchor:   anchorURL == "",
		})
		if err != nil {
			log.Warn().Err(err).Int("index", i).Str("job_id", job.ID).Msg("campaign image failed")
			continue
		}
		assetIDs = append(assetIDs, outcome.AssetID)

		if anchorURL == "" {
			anchorURL = outcome.AssetURL
			s.recordAnchor(ctx, c.ID, outcome, log)
		}
	}

	return s.finish(ctx, c, assetIDs, anchorURL, log)
}

func (s *Service) recordAnchor(ctx context.Context, campaignID string, outcome *ImageOutcome, log zerolog.Logger) {
	if err := s.campaigns.SetAnchor(ctx, campaignID, outcome.AssetURL, outcome.AssetID); err != nil {
		log.Error().Err(err).Str("asset_id", outcome.AssetID).Msg("persist campaign anchor")
		return
	}
	log.Info().Str("asset_id", outcome.AssetID).Msg("campaign anchor set")
}

func (s *Service) finish(ctx context.Context, c *domain.Campaign, assetIDs []string, anchorURL string, log zerolog.Logger) *CreateResult {
	total := len(c.Prompts)
	completed := len(assetIDs)

	status := domain.CampaignStatusComplete
	reported := ReportComplete
	errMsg := ""
	if completed < total {
		status = domain.CampaignStatusFailed
		reported = ReportPartial
		errMsg = fmt.Sprintf("Only %d/%d images generated", completed, total)
	}

	if err := s.campaigns.Finish(ctx, c.ID, status, completed, errMsg, s.now().UTC()); err != nil {
		log.Error().Err(err).Str("status", string(status)).Msg("finish campaign")
	}

	ev := log.Info()
	if status != domain.CampaignStatusComplete {
		ev = log.Warn()
	}
	ev.Int("completed_images", completed).Int("total_images", total).Str("status", string(status)).Msg("campaign finished")

	return &CreateResult{
		CampaignID:      c.ID,
		Status:          status,
		ReportedStatus:  reported,
		TotalImages:     total,
		CompletedImages: completed,
		AssetIDs:        assetIDs,
		AnchorURL:       anchorURL,
		Error:           errMsg,
	}
}
