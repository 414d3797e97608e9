package campaign

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"campaignstudio/internal/domain"
)

// MaxCampaignPrompts bounds a run to what fits the request time budget.
const MaxCampaignPrompts = 12

// SupportedAspectRatios are the ratios accepted by the image models.
var SupportedAspectRatios = []string{"1:1", "2:3", "3:2", "3:4", "4:3", "4:5", "5:4", "9:16", "16:9", "21:9"}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidCampaign, fmt.Sprintf(format, args...))
}

func normalizeCreateInput(in CreateInput) (CreateInput, error) {
	in.BusinessID = strings.TrimSpace(in.BusinessID)
	if in.BusinessID == "" {
		return in, invalid("business id is required")
	}
	if _, err := uuid.Parse(in.BusinessID); err != nil {
		return in, invalid("business id %q is not a valid id", in.BusinessID)
	}

	if len(in.Prompts) < domain.MinCampaignPrompts {
		return in, invalid("a campaign needs at least %d prompts, got %d", domain.MinCampaignPrompts, len(in.Prompts))
	}
	if len(in.Prompts) > MaxCampaignPrompts {
		return in, invalid("a campaign accepts at most %d prompts, got %d", MaxCampaignPrompts, len(in.Prompts))
	}
	prompts := make([]string, len(in.Prompts))
	for i, p := range in.Prompts {
		p = strings.TrimSpace(p)
		if p == "" {
			return in, invalid("prompt %d is empty", i+1)
		}
		prompts[i] = p
	}
	in.Prompts = prompts

	in.AspectRatio = strings.TrimSpace(in.AspectRatio)
	if in.AspectRatio == "" {
		in.AspectRatio = domain.DefaultAspectRatio
	}
	if !slices.Contains(SupportedAspectRatios, in.AspectRatio) {
		return in, invalid("aspect ratio %q is not supported", in.AspectRatio)
	}

	tier, err := ParseModelTier(string(in.ModelTier))
	if err != nil {
		return in, err
	}
	in.ModelTier = tier
	in.StyleID = strings.TrimSpace(in.StyleID)
	in.Locale = strings.TrimSpace(in.Locale)
	return in, nil
}

// ParseModelTier accepts a tier name case-insensitively; empty means standard.
func ParseModelTier(raw string) (domain.ModelTier, error) {
	switch domain.ModelTier(strings.ToLower(strings.TrimSpace(raw))) {
	case "", domain.ModelTierStandard:
		return domain.ModelTierStandard, nil
	case domain.ModelTierHD:
		return domain.ModelTierHD, nil
	case domain.ModelTierUltra:
		return domain.ModelTierUltra, nil
	default:
		return "", invalid("model tier %q is not supported", raw)
	}
}

func validCampaignID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", invalid("campaign id is required")
	}
	if !isUUID(id) {
		return "", domain.ErrCampaignNotFound
	}
	return id, nil
}

// isUUID reports whether id can exist in a uuid column.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
