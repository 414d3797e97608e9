package campaign

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"campaignstudio/internal/domain"
	"campaignstudio/internal/imageref"
	imageprovider "campaignstudio/internal/providers/image"
)

// Job progress labels.
const (
	LabelFetchingReferences = "Fetching reference images…"
	LabelCallingProvider    = "Calling provider…"
	LabelPublishing         = "Uploading image…"
)

// ReferenceResolver turns an image URL into inline bytes, or nil.
type ReferenceResolver interface {
	Fetch(ctx context.Context, url string) *imageref.Reference
}

// ImageInput is one generation request.
type ImageInput struct {
	JobID      string
	CampaignID string
	Business   *domain.Business
	Prompt     string
	Params     domain.GenerationParams
	// AnchorURL is attached as the first reference image when set.
	AnchorURL string
	// IsAnchor marks the published asset as the campaign's style reference.
	IsAnchor bool
}

// ImageOutcome is a successful generation.
type ImageOutcome struct {
	AssetID  string
	AssetURL string
	Model    string
}

// Generator performs a single image generation and keeps its job current.
type Generator struct {
	jobs       domain.JobRepository
	references ReferenceResolver
	provider   imageprovider.Provider
	models     imageprovider.ModelSelector
	styles     *StyleCatalog
	publisher  *Publisher
	logger     zerolog.Logger
}

// StartJob inserts a processing job carrying label as its progress text.
func (g *Generator) StartJob(ctx context.Context, businessID, campaignID, prompt string, params domain.GenerationParams, label string) (*domain.GenerationJob, error) {
	job := &domain.GenerationJob{
		ID:           uuid.NewString(),
		BusinessID:   businessID,
		CampaignID:   campaignID,
		Status:       domain.JobStatusProcessing,
		Prompt:       prompt,
		AspectRatio:  params.AspectRatio,
		StyleID:      params.StyleID,
		ModelTier:    params.ModelTier,
		ErrorMessage: label,
	}
	if err := g.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create generation job: %w", err)
	}
	return job, nil
}

// Generate runs one provider call. Any failure is written to the job before
// it is returned; the provider is never retried.
func (g *Generator) Generate(ctx context.Context, in ImageInput) (*ImageOutcome, error) {
	ctx, span := tracer.Start(ctx, "campaign.generate_image", trace.WithAttributes(
		attribute.String("job.id", in.JobID),
		attribute.String("campaign.id", in.CampaignID),
		attribute.Bool("image.is_anchor", in.IsAnchor),
		attribute.Bool("image.has_anchor_reference", in.AnchorURL != ""),
	))
	defer span.End()

	log := g.logger.With().Str("job_id", in.JobID).Str("campaign_id", in.CampaignID).Logger()

	outcome, err := g.recoverGenerate(ctx, in, log)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if failErr := g.jobs.Fail(ctx, in.JobID, err.Error()); failErr != nil {
			log.Error().Err(failErr).Msg("mark job failed")
		}
		return nil, err
	}
	return outcome, nil
}

// recoverGenerate turns a panic raised while generating into a provider
// failure so the job is failed and the campaign loop moves on.
func (g *Generator) recoverGenerate(ctx context.Context, in ImageInput, log zerolog.Logger) (outcome *ImageOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("image generation panicked")
			outcome, err = nil, fmt.Errorf("%w: panic: %v", domain.ErrProviderFailure, r)
		}
	}()
	return g.generate(ctx, in, log)
}

func (g *Generator) generate(ctx context.Context, in ImageInput, log zerolog.Logger) (*ImageOutcome, error) {
	if in.Business == nil {
		return nil, fmt.Errorf("generate image: %w", domain.ErrBusinessNotFound)
	}
	g.progress(ctx, in.JobID, LabelFetchingReferences, log)

	var parts []imageprovider.Part
	hasAnchor := false
	if in.AnchorURL != "" {
		if ref := g.references.Fetch(ctx, in.AnchorURL); ref != nil {
			parts = append(parts, imageprovider.ImagePart{Data: ref.Data, MIMEType: ref.MIMEType})
			hasAnchor = true
		} else {
			log.Warn().Msg("anchor reference unavailable, generating without it")
		}
	}
	hasLogo := false
	if in.Business.HasLogo() {
		if ref := g.references.Fetch(ctx, in.Business.LogoURL); ref != nil {
			parts = append(parts, imageprovider.ImagePart{Data: ref.Data, MIMEType: ref.MIMEType})
			hasLogo = true
		}
	}

	var style *Style
	if s, ok := g.styles.Lookup(in.Params.StyleID); ok {
		style = &s
	}
	text := ComposePrompt(PromptInput{
		Business:    *in.Business,
		Prompt:      in.Prompt,
		Style:       style,
		FreedomMode: in.Params.FreedomMode,
		Locale:      in.Params.Locale,
		HasAnchor:   hasAnchor,
		HasLogo:     hasLogo,
	})
	parts = append(parts, imageprovider.TextPart{Text: text})

	g.progress(ctx, in.JobID, LabelCallingProvider, log)
	spec := g.models(in.Params.ModelTier)
	result, err := g.provider.Generate(ctx, imageprovider.Request{
		Parts:       parts,
		AspectRatio: in.Params.AspectRatio,
		Model:       spec,
		RequestID:   in.JobID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderFailure, err)
	}
	if result == nil || len(result.Data) == 0 {
		return nil, domain.ErrNoImageReturned
	}

	g.progress(ctx, in.JobID, LabelPublishing, log)
	asset, err := g.publisher.Publish(ctx, PublishInput{
		BusinessID:  in.Business.ID,
		CampaignID:  in.CampaignID,
		Prompt:      in.Prompt,
		StyleID:     in.Params.StyleID,
		AspectRatio: in.Params.AspectRatio,
		IsAnchor:    in.IsAnchor,
		Data:        result.Data,
		MIMEType:    result.MIMEType,
	})
	if err != nil {
		return nil, err
	}

	if err := g.jobs.Complete(ctx, in.JobID, asset.ID); err != nil {
		// the asset is already published, so this stays a success
		log.Error().Err(err).Str("asset_id", asset.ID).Msg("mark job completed")
	}
	log.Info().
		Str("asset_id", asset.ID).
		Str("model", result.Model).
		Int("reference_images", len(parts)-1).
		Msg("image generated")
	return &ImageOutcome{AssetID: asset.ID, AssetURL: asset.Content, Model: result.Model}, nil
}

func (g *Generator) progress(ctx context.Context, jobID, label string, log zerolog.Logger) {
	if err := g.jobs.UpdateProgress(ctx, jobID, label); err != nil {
		log.Warn().Err(err).Str("label", label).Msg("update job progress")
	}
}
