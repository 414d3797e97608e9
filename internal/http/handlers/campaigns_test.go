package handlers_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"campaignstudio/internal/campaign"
	"campaignstudio/internal/domain"
	"campaignstudio/internal/http/handlers"
	"campaignstudio/internal/http/httpapi"
	zipx "campaignstudio/pkg/zip"
)

type fakeService struct {
	createIn  campaign.CreateInput
	createRes *campaign.CreateResult
	createErr error

	status    *campaign.StatusView
	statusErr error

	regenID   string
	regenAdj  string
	regenRes  *campaign.RegenerateResult
	regenErr  error
	entries   []zipx.Entry
	exportErr error
	job       *domain.GenerationJob
	jobErr    error
}

func (f *fakeService) CreateCampaign(ctx context.Context, in campaign.CreateInput) (*campaign.CreateResult, error) {
	f.createIn = in
	return f.createRes, f.createErr
}

func (f *fakeService) CampaignStatus(ctx context.Context, id string) (*campaign.StatusView, error) {
	return f.status, f.statusErr
}

func (f *fakeService) RegenerateAnchor(ctx context.Context, id, adj string) (*campaign.RegenerateResult, error) {
	f.regenID, f.regenAdj = id, adj
	return f.regenRes, f.regenErr
}

func (f *fakeService) ExportEntries(ctx context.Context, id string) ([]zipx.Entry, error) {
	return f.entries, f.exportErr
}

func (f *fakeService) Job(ctx context.Context, id string) (*domain.GenerationJob, error) {
	return f.job, f.jobErr
}

func newServer(svc handlers.CampaignService) http.Handler {
	app := handlers.NewApp(svc, zerolog.Nop())
	return httpapi.NewRouter(app, httpapi.Options{Logger: zerolog.Nop(), RateLimitPerMin: 100})
}

func do(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	rec := do(t, newServer(&fakeService{}), http.MethodGet, "/v1/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestCreateCampaignReportsPartial(t *testing.T) {
	svc := &fakeService{createRes: &campaign.CreateResult{
		CampaignID:      "c1",
		Status:          domain.CampaignStatusFailed,
		ReportedStatus:  campaign.ReportPartial,
		TotalImages:     2,
		CompletedImages: 1,
		AssetIDs:        []string{"a1"},
		AnchorURL:       "https://cdn.test/a1.png",
		Error:           "Only 1/2 images generated",
	}}
	body := `{"business_id":"b1","prompts":["A coffee shop hero shot","Matching Instagram story"],"model_tier":"hd","style_id":"rustic"}`

	rec := do(t, newServer(svc), http.MethodPost, "/v1/campaigns", body, "Accept-Language", "id-ID,en;q=0.5")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeBody(t, rec)
	require.Equal(t, "partial", got["status"])
	require.Equal(t, "c1", got["campaign_id"])
	require.EqualValues(t, 1, got["completed_images"])
	require.Equal(t, []any{"a1"}, got["asset_ids"])
	require.Equal(t, "https://cdn.test/a1.png", got["anchor_url"])

	require.Equal(t, []string{"A coffee shop hero shot", "Matching Instagram story"}, svc.createIn.Prompts)
	require.Equal(t, domain.ModelTierHD, svc.createIn.ModelTier)
	require.Equal(t, "id", svc.createIn.Locale)
}

func TestCreateCampaignEmptyAssetsEncodeAsArray(t *testing.T) {
	svc := &fakeService{createRes: &campaign.CreateResult{CampaignID: "c1", ReportedStatus: campaign.ReportPartial, TotalImages: 2}}
	rec := do(t, newServer(svc), http.MethodPost, "/v1/campaigns", `{"business_id":"b1","prompts":["a","b"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"asset_ids":[]`)
}

func TestCreateCampaignRejectsMalformedPayloads(t *testing.T) {
	tests := map[string]string{
		"not json":       `{`,
		"one prompt":     `{"business_id":"b1","prompts":["only"]}`,
		"missing biz":    `{"prompts":["a","b"]}`,
		"empty prompt":   `{"business_id":"b1","prompts":["a",""]}`,
		"unknown field":  `{"business_id":"b1","prompts":["a","b"],"quantity":3}`,
		"invalid locale": `{"business_id":"b1","prompts":["a","b"],"locale":"not a locale"}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			svc := &fakeService{}
			rec := do(t, newServer(svc), http.MethodPost, "/v1/campaigns", body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			require.Nil(t, svc.createIn.Prompts, "service must not be called")
		})
	}
}

func TestCreateCampaignValidationMessageUsesJSONNames(t *testing.T) {
	rec := do(t, newServer(&fakeService{}), http.MethodPost, "/v1/campaigns", `{"business_id":"b1","prompts":["only"]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errBody := decodeBody(t, rec)["error"].(map[string]any)
	require.Equal(t, "invalid_request", errBody["code"])
	require.Contains(t, errBody["message"], "prompts failed min=2")
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
		name string
	}{
		{fmt.Errorf("%w: bad tier", domain.ErrInvalidCampaign), http.StatusBadRequest, "invalid_request"},
		{fmt.Errorf("%w: b1", domain.ErrBusinessNotFound), http.StatusNotFound, "business_not_found"},
		{domain.ErrCampaignBusy, http.StatusConflict, "campaign_busy"},
		{errors.New("connection refused"), http.StatusInternalServerError, "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{createErr: tt.err}
			rec := do(t, newServer(svc), http.MethodPost, "/v1/campaigns", `{"business_id":"b1","prompts":["a","b"]}`)
			require.Equal(t, tt.code, rec.Code)
			require.Equal(t, tt.name, decodeBody(t, rec)["error"].(map[string]any)["code"])
			require.NotContains(t, rec.Body.String(), "connection refused")
		})
	}
}

func TestCampaignStatus(t *testing.T) {
	done := time.Date(2026, 3, 1, 9, 5, 0, 0, time.UTC)
	svc := &fakeService{status: &campaign.StatusView{
		Campaign: &domain.Campaign{
			ID:              "c1",
			BusinessID:      "b1",
			Status:          domain.CampaignStatusFailed,
			TotalImages:     3,
			CompletedImages: 2,
			AspectRatio:     "1:1",
			ModelTier:       domain.ModelTierStandard,
			AnchorURL:       "https://cdn.test/a1.png",
			Error:           "Only 2/3 images generated",
			CompletedAt:     &done,
		},
		Assets: []domain.Asset{
			{ID: "a1", Content: "https://cdn.test/a1.png"},
			{ID: "a2", Content: "https://cdn.test/a2.png"},
		},
	}}

	rec := do(t, newServer(svc), http.MethodGet, "/v1/campaigns/c1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody(t, rec)
	require.Equal(t, "failed", got["status"])
	require.Equal(t, []any{"a1", "a2"}, got["asset_ids"])
	require.Equal(t, []any{"https://cdn.test/a1.png", "https://cdn.test/a2.png"}, got["asset_urls"])
	require.Equal(t, "Only 2/3 images generated", got["error"])
	require.Equal(t, "2026-03-01T09:05:00Z", got["completed_at"])
}

func TestCampaignStatusNotFound(t *testing.T) {
	rec := do(t, newServer(&fakeService{statusErr: domain.ErrCampaignNotFound}), http.MethodGet, "/v1/campaigns/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegenerateAnchor(t *testing.T) {
	svc := &fakeService{regenRes: &campaign.RegenerateResult{
		CampaignID:              "c1",
		Status:                  domain.CampaignStatusPreview,
		AnchorURL:               "https://cdn.test/a3.png",
		AnchorAssetID:           "a3",
		Regenerations:           1,
		FreeRejectionsRemaining: 1,
	}}
	rec := do(t, newServer(svc), http.MethodPost, "/v1/campaigns/c1/regenerate", `{"adjusted_prompt":"make it warmer"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "c1", svc.regenID)
	require.Equal(t, "make it warmer", svc.regenAdj)
	got := decodeBody(t, rec)
	require.Equal(t, "preview", got["status"])
	require.EqualValues(t, 0, got["credit_cost"])
	require.EqualValues(t, 1, got["free_rejections_remaining"])
}

func TestRegenerateAnchorAcceptsEmptyBody(t *testing.T) {
	svc := &fakeService{regenRes: &campaign.RegenerateResult{CampaignID: "c1", Status: domain.CampaignStatusPreview}}
	rec := do(t, newServer(svc), http.MethodPost, "/v1/campaigns/c1/regenerate", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Empty(t, svc.regenAdj)
}

func TestRegenerateAnchorConflicts(t *testing.T) {
	for _, err := range []error{domain.ErrNoAnchor, domain.ErrCampaignBusy} {
		rec := do(t, newServer(&fakeService{regenErr: err}), http.MethodPost, "/v1/campaigns/c1/regenerate", `{}`)
		require.Equal(t, http.StatusConflict, rec.Code)
	}
}

func TestExportCampaign(t *testing.T) {
	svc := &fakeService{entries: []zipx.Entry{
		{Name: "01-a3.png", Data: []byte("anchor")},
		{Name: "02-a1.png", Data: []byte("first")},
	}}
	rec := do(t, newServer(svc), http.MethodGet, "/v1/campaigns/c1/export.zip", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "campaign-c1.zip")

	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	require.Equal(t, "01-a3.png", zr.File[0].Name)
}

func TestJobStatus(t *testing.T) {
	svc := &fakeService{job: &domain.GenerationJob{
		ID:           "j1",
		CampaignID:   "c1",
		Status:       domain.JobStatusProcessing,
		ErrorMessage: campaign.LabelCallingProvider,
	}}
	rec := do(t, newServer(svc), http.MethodGet, "/v1/jobs/j1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody(t, rec)
	require.Equal(t, campaign.LabelCallingProvider, got["progress"])
	require.NotContains(t, got, "error")

	svc.job = &domain.GenerationJob{ID: "j1", Status: domain.JobStatusFailed, ErrorMessage: "provider failure: 503"}
	got = decodeBody(t, do(t, newServer(svc), http.MethodGet, "/v1/jobs/j1", ""))
	require.Equal(t, "provider failure: 503", got["error"])
	require.NotContains(t, got, "progress")

	rec = do(t, newServer(&fakeService{jobErr: domain.ErrNotFound}), http.MethodGet, "/v1/jobs/x", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
