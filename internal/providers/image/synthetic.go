package image

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	stdimage "image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"
	"strings"
)

// Synthetic renders deterministic PNGs without calling any external service.
// It keeps the campaign pipeline exercisable in local and CI environments.
// Reference images shift the palette so anchored generations visibly share it.
type Synthetic struct {
	// Width caps the longest edge at 1K; zero means 512. Larger image sizes
	// scale it.
	Width int
}

var sizeScale = map[string]int{"2K": 2, "4K": 4}

// Generate returns a PNG derived from the request contents.
func (s Synthetic) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var seedParts []any
	var palette string
	for _, p := range req.Parts {
		switch v := p.(type) {
		case TextPart:
			seedParts = append(seedParts, v.Text)
		case ImagePart:
			if palette == "" {
				palette = deterministicSeed(string(v.Data))
			}
		}
	}
	seed := deterministicSeed(append(seedParts, req.RequestID, req.Model.Model)...)
	if palette == "" {
		palette = seed
	}

	edge := s.Width
	if edge <= 0 {
		edge = 512
	}
	if scale, ok := sizeScale[strings.ToUpper(strings.TrimSpace(req.Model.ImageSize))]; ok {
		edge *= scale
	}
	w, h := dimensionsFor(req.AspectRatio, edge)
	data, err := renderSyntheticImage(w, h, palette, seed)
	if err != nil {
		return nil, err
	}
	model := req.Model.Model
	if model == "" {
		model = "synthetic"
	}
	return &Result{Data: data, MIMEType: "image/png", Model: model, References: req.ImageCount()}, nil
}

func renderSyntheticImage(width, height int, palette, seed string) ([]byte, error) {
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, width, height))
	base := colorFromSeed(palette, 0)
	accent := colorFromSeed(palette, 1)
	draw.Draw(img, img.Bounds(), &stdimage.Uniform{C: base}, stdimage.Point{}, draw.Src)

	stripeHeight := max(8, height/12)
	for y := 0; y < height; y += stripeHeight * 2 {
		stripe := stdimage.Rect(0, y, width, min(height, y+stripeHeight))
		draw.Draw(img, stripe, &stdimage.Uniform{C: accent}, stdimage.Point{}, draw.Over)
	}

	// the diagonal follows the per-image seed so images in a campaign differ
	diagonal := colorFromSeed(seed, 2)
	step := max(16, width/32)
	for x := 0; x < max(width, height); x += step {
		for y := 0; y < height; y++ {
			xx := x + y
			if xx >= width {
				break
			}
			img.Set(xx, y, diagonal)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("synthetic: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func colorFromSeed(seed string, shift int) color.RGBA {
	doubled := seed + seed
	start := (shift * 6) % len(seed)
	segment := doubled[start : start+6]
	return color.RGBA{R: hexByte(segment[0:2]), G: hexByte(segment[2:4]), B: hexByte(segment[4:6]), A: 255}
}

func hexByte(s string) uint8 {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0
	}
	return uint8(v)
}

func deterministicSeed(parts ...any) string {
	hasher := sha256.New()
	for _, part := range parts {
		fmt.Fprintf(hasher, "%v|", part)
	}
	return hex.EncodeToString(hasher.Sum(nil))[:16]
}

// dimensionsFor scales an "W:H" ratio so the longest edge equals edge.
func dimensionsFor(aspect string, edge int) (int, int) {
	a, b, ok := strings.Cut(strings.TrimSpace(aspect), ":")
	if !ok {
		return edge, edge
	}
	w, errW := strconv.Atoi(strings.TrimSpace(a))
	h, errH := strconv.Atoi(strings.TrimSpace(b))
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return edge, edge
	}
	if w >= h {
		return edge, max(1, edge*h/w)
	}
	return max(1, edge*w/h), edge
}

var _ Provider = Synthetic{}
