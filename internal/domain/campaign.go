package domain

import "time"

// CampaignStatus enumerates the persisted campaign lifecycle.
type CampaignStatus string

const (
	CampaignStatusProcessing CampaignStatus = "processing"
	CampaignStatusPreview    CampaignStatus = "preview"
	CampaignStatusComplete   CampaignStatus = "complete"
	CampaignStatusFailed     CampaignStatus = "failed"
)

// IsTerminal reports whether the orchestrator is done with the campaign.
func (s CampaignStatus) IsTerminal() bool {
	return s == CampaignStatusComplete || s == CampaignStatusFailed
}

// ModelTier is the coarse quality setting mapped to a provider model.
type ModelTier string

const (
	ModelTierStandard ModelTier = "standard"
	ModelTierHD       ModelTier = "hd"
	ModelTierUltra    ModelTier = "ultra"
)

// MinCampaignPrompts is the smallest campaign accepted at creation.
const MinCampaignPrompts = 2

// DefaultAspectRatio applies when a campaign request omits one.
const DefaultAspectRatio = "1:1"

// Campaign is an ordered batch of generations sharing one style anchor.
//
// CompletedImages is an in-progress floor while the campaign is processing:
// it is raised to i before image i starts, and set to the number of
// successful assets once the run finishes.
type Campaign struct {
	ID                  string
	BusinessID          string
	Status              CampaignStatus
	TotalImages         int
	CompletedImages     int
	Prompts             []string
	AspectRatio         string
	StyleID             string
	ModelTier           ModelTier
	FreedomMode         bool
	Locale              string
	AnchorURL           string
	AnchorAssetID       string
	AnchorRegenerations int
	Error               string
	CompletedAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// HasAnchor reports whether an anchor image has been published.
func (c Campaign) HasAnchor() bool {
	return c.AnchorURL != ""
}

// GenerationParams are the settings shared by every image of a campaign.
type GenerationParams struct {
	AspectRatio string
	StyleID     string
	ModelTier   ModelTier
	FreedomMode bool
	Locale      string
}

// Params extracts the shared generation settings.
func (c Campaign) Params() GenerationParams {
	return GenerationParams{
		AspectRatio: c.AspectRatio,
		StyleID:     c.StyleID,
		ModelTier:   c.ModelTier,
		FreedomMode: c.FreedomMode,
		Locale:      c.Locale,
	}
}
