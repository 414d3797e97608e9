package campaign

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"campaignstudio/internal/domain"
)

// AnchorMatchBlock is added to every prompt that carries the campaign anchor.
const AnchorMatchBlock = "STYLE REFERENCE: the first image provided is this campaign's anchor. " +
	"Match its colour grading, lighting, composition language and overall mood exactly " +
	"so the new image reads as part of the same campaign."

// FeedbackAdjustmentLabel prefixes caller feedback appended on anchor regeneration.
const FeedbackAdjustmentLabel = "FEEDBACK ADJUSTMENT:"

// PromptInput is everything folded into the text part of a provider request.
type PromptInput struct {
	Business    domain.Business
	Prompt      string
	Style       *Style
	FreedomMode bool
	Locale      string
	HasAnchor   bool
	HasLogo     bool
}

// ComposePrompt builds the final instruction text. The caller's prompt goes
// last so brand context reads as a preamble.
func ComposePrompt(in PromptInput) string {
	var lines []string

	b := in.Business
	if name := strings.TrimSpace(b.Name); name != "" {
		brand := "Brand: " + name
		if industry := strings.TrimSpace(b.Industry); industry != "" {
			brand += fmt.Sprintf(" (%s)", cases.Title(language.English).String(industry))
		}
		lines = append(lines, brand+".")
	}
	if desc := strings.TrimSpace(b.Description); desc != "" {
		lines = append(lines, "About the brand: "+desc)
	}
	if palette := cleanPalette(b.ColorPalette); len(palette) > 0 {
		lines = append(lines, "Brand colour palette: "+strings.Join(palette, ", ")+".")
	}

	if s := in.Style; s != nil {
		label := firstNonEmpty(s.Name, s.ID)
		style := "Visual style: " + label
		if s.Direction != "" && s.Direction != label {
			style += " - " + s.Direction
		}
		lines = append(lines, style+".")
		if s.Lighting != "" {
			lines = append(lines, "Lighting: "+s.Lighting+".")
		}
		if s.Palette != "" {
			lines = append(lines, "Palette guidance: "+s.Palette+".")
		}
	}

	if in.HasAnchor {
		lines = append(lines, AnchorMatchBlock)
	}
	if in.HasLogo {
		ordinal := "first"
		if in.HasAnchor {
			ordinal = "second"
		}
		lines = append(lines, fmt.Sprintf("The %s image provided is the brand logo; place it subtly and never distort it.", ordinal))
	}

	if !in.FreedomMode {
		lines = append(lines,
			"Keep the brand palette dominant.",
			"Do not render any text other than the brand name.",
		)
	}
	if lang := typographyLanguage(in.Locale); lang != "" {
		lines = append(lines, "Any on-image text must be written in "+lang+".")
	}

	lines = append(lines, "Create: "+strings.TrimSpace(in.Prompt))
	return strings.Join(lines, "\n")
}

// WithFeedback appends a feedback clause to prompt.
func WithFeedback(prompt, feedback string) string {
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return prompt
	}
	return prompt + "\n\n" + FeedbackAdjustmentLabel + " " + feedback
}

// typographyLanguage names the locale's language in English, or "" when the
// locale is empty, unparsable or English.
func typographyLanguage(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return ""
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return ""
	}
	base, _ := tag.Base()
	if base.String() == "en" {
		return ""
	}
	return display.English.Languages().Name(language.Make(base.String()))
}

func cleanPalette(colors []string) []string {
	out := make([]string, 0, len(colors))
	for _, c := range colors {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
