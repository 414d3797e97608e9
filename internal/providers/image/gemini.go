package image

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"campaignstudio/internal/domain"
)

type generateContentFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// Gemini generates images through the Gemini API image models.
type Gemini struct {
	generate generateContentFunc
	logger   zerolog.Logger
}

// NewGemini creates a Gemini provider authenticated with apiKey.
func NewGemini(ctx context.Context, apiKey string, logger zerolog.Logger) (*Gemini, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Gemini{
		generate: client.Models.GenerateContent,
		logger:   logger.With().Str("provider", "gemini").Logger(),
	}, nil
}

// Generate sends the parts in order and returns the first inline image.
func (g *Gemini) Generate(ctx context.Context, req Request) (*Result, error) {
	if req.Model.Model == "" {
		return nil, errors.New("gemini: model is required")
	}
	parts, err := toGenaiParts(req.Parts)
	if err != nil {
		return nil, err
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
		ImageConfig: &genai.ImageConfig{
			AspectRatio: req.AspectRatio,
			ImageSize:   req.Model.ImageSize,
		},
	}

	g.logger.Debug().
		Str("request_id", req.RequestID).
		Str("model", req.Model.Model).
		Int("reference_images", req.ImageCount()).
		Msg("gemini generate")

	resp, err := g.generate(ctx, req.Model.Model, []*genai.Content{{Role: genai.RoleUser, Parts: parts}}, config)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	res, err := firstImage(resp, req.Model.Model)
	if err != nil {
		return nil, err
	}
	res.References = req.ImageCount()
	return res, nil
}

func toGenaiParts(parts []Part) ([]*genai.Part, error) {
	out := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		switch v := p.(type) {
		case TextPart:
			out = append(out, genai.NewPartFromText(v.Text))
		case ImagePart:
			if len(v.Data) == 0 {
				continue
			}
			out = append(out, &genai.Part{InlineData: &genai.Blob{Data: v.Data, MIMEType: v.MIMEType}})
		default:
			return nil, fmt.Errorf("gemini: unsupported part %T", p)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("gemini: request has no parts")
	}
	return out, nil
}

func firstImage(resp *genai.GenerateContentResponse, model string) (*Result, error) {
	if resp == nil {
		return nil, domain.ErrNoImageReturned
	}
	var text []string
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil {
				continue
			}
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mime := part.InlineData.MIMEType
				if mime == "" {
					mime = "image/png"
				}
				return &Result{Data: part.InlineData.Data, MIMEType: mime, Model: model}, nil
			}
			if t := strings.TrimSpace(part.Text); t != "" {
				text = append(text, t)
			}
		}
	}
	if len(text) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoImageReturned, truncate(strings.Join(text, " "), 200))
	}
	return nil, domain.ErrNoImageReturned
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "…"
}

var _ Provider = (*Gemini)(nil)
