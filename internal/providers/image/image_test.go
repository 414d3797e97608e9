package image

import (
	"bytes"
	"context"
	"errors"
	stdimage "image"
	"image/png"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"campaignstudio/internal/domain"
)

func TestModelSelector(t *testing.T) {
	sel := NewModelSelector("", "")
	tests := []struct {
		tier domain.ModelTier
		want ModelSpec
	}{
		{tier: domain.ModelTierStandard, want: ModelSpec{Model: ModelStandard}},
		{tier: "", want: ModelSpec{Model: ModelStandard}},
		{tier: domain.ModelTierHD, want: ModelSpec{Model: ModelPremium}},
		{tier: domain.ModelTierUltra, want: ModelSpec{Model: ModelPremium, ImageSize: "4K"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, sel(tt.tier)); diff != "" {
			t.Fatalf("tier %q (-want +got):\n%s", tt.tier, diff)
		}
	}
	if got := NewModelSelector("custom-fast", "custom-pro")(domain.ModelTierHD); got.Model != "custom-pro" {
		t.Fatalf("override ignored: %+v", got)
	}
}

func TestGeminiSendsPartsInOrder(t *testing.T) {
	var (
		gotModel    string
		gotContents []*genai.Content
		gotConfig   *genai.GenerateContentConfig
	)
	g := &Gemini{logger: zerolog.Nop(), generate: func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		gotModel, gotContents, gotConfig = model, contents, config
		return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				genai.NewPartFromText("here you go"),
				{InlineData: &genai.Blob{Data: []byte("jpeg"), MIMEType: "image/jpeg"}},
			}},
		}}}, nil
	}}

	res, err := g.Generate(context.Background(), Request{
		Parts: []Part{
			ImagePart{Data: []byte("anchor"), MIMEType: "image/png"},
			ImagePart{Data: []byte("logo"), MIMEType: "image/png"},
			TextPart{Text: "menu board"},
		},
		AspectRatio: "4:5",
		Model:       ModelSpec{Model: ModelPremium, ImageSize: "4K"},
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if string(res.Data) != "jpeg" || res.MIMEType != "image/jpeg" || res.Model != ModelPremium {
		t.Fatalf("unexpected result %+v", res)
	}
	if gotModel != ModelPremium {
		t.Fatalf("model = %q", gotModel)
	}
	parts := gotContents[0].Parts
	if len(parts) != 3 {
		t.Fatalf("parts = %d, want 3", len(parts))
	}
	if string(parts[0].InlineData.Data) != "anchor" || string(parts[1].InlineData.Data) != "logo" || parts[2].Text != "menu board" {
		t.Fatal("parts not in anchor, logo, text order")
	}
	if gotConfig.ImageConfig.AspectRatio != "4:5" || gotConfig.ImageConfig.ImageSize != "4K" {
		t.Fatalf("image config = %+v", gotConfig.ImageConfig)
	}
	if res.References != 2 {
		t.Fatalf("references = %d, want 2", res.References)
	}
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{in: "short", n: 10, want: "short"},
		{in: "abcdef", n: 3, want: "abc…"},
		// "é" is two bytes; cutting at 2 would split it
		{in: "aébc", n: 2, want: "a…"},
		{in: "日本語", n: 4, want: "日…"},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.n)
		if got != tt.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Fatalf("truncate(%q, %d) produced invalid UTF-8", tt.in, tt.n)
		}
	}
}

func TestGeminiNoImageReturned(t *testing.T) {
	g := &Gemini{logger: zerolog.Nop(), generate: func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{genai.NewPartFromText("I cannot draw that")}},
		}}}, nil
	}}
	_, err := g.Generate(context.Background(), Request{Parts: []Part{TextPart{Text: "x"}}, Model: ModelSpec{Model: ModelStandard}})
	if !errors.Is(err, domain.ErrNoImageReturned) {
		t.Fatalf("error = %v, want ErrNoImageReturned", err)
	}
}

func TestGeminiPropagatesTransportError(t *testing.T) {
	boom := errors.New("deadline exceeded")
	g := &Gemini{logger: zerolog.Nop(), generate: func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		return nil, boom
	}}
	_, err := g.Generate(context.Background(), Request{Parts: []Part{TextPart{Text: "x"}}, Model: ModelSpec{Model: ModelStandard}})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want %v", err, boom)
	}
}

func TestSyntheticIsDeterministicAndSized(t *testing.T) {
	req := Request{Parts: []Part{TextPart{Text: "hero shot"}}, AspectRatio: "16:9", RequestID: "j1"}
	a, err := Synthetic{Width: 64}.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	b, err := Synthetic{Width: 64}.Generate(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Data, b.Data) {
		t.Fatal("synthetic output is not deterministic")
	}
	img, err := png.Decode(bytes.NewReader(a.Data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if got := img.Bounds(); got != stdimage.Rect(0, 0, 64, 36) {
		t.Fatalf("bounds = %v, want 64x36", got)
	}
}

func TestSyntheticHonoursImageSizeAndCountsReferences(t *testing.T) {
	req := Request{
		Parts: []Part{
			ImagePart{Data: []byte("anchor"), MIMEType: "image/png"},
			ImagePart{Data: []byte("logo"), MIMEType: "image/png"},
			TextPart{Text: "poster"},
		},
		AspectRatio: "1:1",
		Model:       ModelSpec{Model: ModelPremium, ImageSize: "4K"},
	}
	res, err := Synthetic{Width: 16}.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if res.References != 2 {
		t.Fatalf("references = %d, want 2", res.References)
	}
	img, err := png.Decode(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if got := img.Bounds(); got != stdimage.Rect(0, 0, 64, 64) {
		t.Fatalf("bounds = %v, want 64x64 for 4K", got)
	}
}

func TestSyntheticAnchorSharesPalette(t *testing.T) {
	anchor := ImagePart{Data: []byte("anchor-bytes"), MIMEType: "image/png"}
	first, _ := Synthetic{Width: 32}.Generate(context.Background(), Request{Parts: []Part{anchor, TextPart{Text: "a"}}})
	second, _ := Synthetic{Width: 32}.Generate(context.Background(), Request{Parts: []Part{anchor, TextPart{Text: "b"}}})

	imgA, _ := png.Decode(bytes.NewReader(first.Data))
	imgB, _ := png.Decode(bytes.NewReader(second.Data))
	// the last column holds no diagonal pixel in row 0 for either image
	if imgA.At(31, 0) != imgB.At(31, 0) {
		t.Fatal("anchored generations should share the base palette")
	}
	if bytes.Equal(first.Data, second.Data) {
		t.Fatal("different prompts should still yield different images")
	}
}

func TestDimensionsFor(t *testing.T) {
	cases := map[string][2]int{
		"1:1":  {100, 100},
		"9:16": {56, 100},
		"4:5":  {80, 100},
		"bad":  {100, 100},
		"0:1":  {100, 100},
	}
	for aspect, want := range cases {
		w, h := dimensionsFor(aspect, 100)
		if w != want[0] || h != want[1] {
			t.Fatalf("dimensionsFor(%q) = %dx%d, want %dx%d", aspect, w, h, want[0], want[1])
		}
	}
}

func TestRequestHelpers(t *testing.T) {
	req := Request{Parts: []Part{ImagePart{Data: []byte{1}}, TextPart{Text: "a"}, TextPart{Text: "b"}}}
	if req.ImageCount() != 1 || req.PromptText() != "a\nb" {
		t.Fatalf("helpers: %d %q", req.ImageCount(), req.PromptText())
	}
}
