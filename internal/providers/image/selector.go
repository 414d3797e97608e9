package image

import "campaignstudio/internal/domain"

// Default model identifiers per tier.
const (
	ModelStandard = "gemini-2.5-flash-image"
	ModelPremium  = "gemini-3-pro-image-preview"
)

// NewModelSelector maps standard to the standard model and hd/ultra to the
// premium one; ultra additionally requests 4K output. Empty names fall back
// to the defaults.
func NewModelSelector(standard, premium string) ModelSelector {
	if standard == "" {
		standard = ModelStandard
	}
	if premium == "" {
		premium = ModelPremium
	}
	return func(tier domain.ModelTier) ModelSpec {
		switch tier {
		case domain.ModelTierUltra:
			return ModelSpec{Model: premium, ImageSize: "4K"}
		case domain.ModelTierHD:
			return ModelSpec{Model: premium}
		default:
			return ModelSpec{Model: standard}
		}
	}
}

// DefaultModelSelector uses the built-in model names.
var DefaultModelSelector = NewModelSelector("", "")
