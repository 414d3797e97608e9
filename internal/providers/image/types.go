package image

import (
	"context"

	"campaignstudio/internal/domain"
)

// Part is one element of a multimodal provider request: TextPart or ImagePart.
type Part interface {
	isPart()
}

// TextPart carries instruction text.
type TextPart struct {
	Text string
}

// ImagePart carries an inline reference image.
type ImagePart struct {
	Data     []byte
	MIMEType string
}

func (TextPart) isPart()  {}
func (ImagePart) isPart() {}

// ModelSpec names the provider model and optional output size for a tier.
type ModelSpec struct {
	Model     string
	ImageSize string
}

// ModelSelector maps a quality tier to a model. Implementations must be pure.
type ModelSelector func(tier domain.ModelTier) ModelSpec

// Request is a normalized single-image generation call. Parts keep their
// order on the wire.
type Request struct {
	Parts       []Part
	AspectRatio string
	Model       ModelSpec
	RequestID   string
}

// Result is the first image returned by the provider.
type Result struct {
	Data     []byte
	MIMEType string
	Model    string
	// References is the number of image parts sent with the request.
	References int
}

// Provider is the contract implemented by all image backends.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Result, error)
}

// PromptText joins the text parts of a request.
func (r Request) PromptText() string {
	var out string
	for _, p := range r.Parts {
		if t, ok := p.(TextPart); ok {
			if out != "" {
				out += "\n"
			}
			out += t.Text
		}
	}
	return out
}

// ImageCount reports how many reference images the request carries.
func (r Request) ImageCount() int {
	n := 0
	for _, p := range r.Parts {
		if _, ok := p.(ImagePart); ok {
			n++
		}
	}
	return n
}
