package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"campaignstudio/internal/campaign"
	"campaignstudio/internal/domain"
	"campaignstudio/internal/middleware"
	"campaignstudio/pkg/zip"
)

type createCampaignRequest struct {
	BusinessID  string   `json:"business_id" validate:"required"`
	Prompts     []string `json:"prompts" validate:"required,min=2,max=12,dive,required,max=4000"`
	AspectRatio string   `json:"aspect_ratio" validate:"omitempty,max=8"`
	StyleID     string   `json:"style_id" validate:"omitempty,max=200"`
	ModelTier   string   `json:"model_tier" validate:"omitempty,max=16"`
	FreedomMode bool     `json:"freedom_mode"`
	Locale      string   `json:"locale" validate:"omitempty,bcp47_language_tag"`
}

type createCampaignResponse struct {
	CampaignID      string   `json:"campaign_id"`
	Status          string   `json:"status"`
	TotalImages     int      `json:"total_images"`
	CompletedImages int      `json:"completed_images"`
	AssetIDs        []string `json:"asset_ids"`
	AnchorURL       string   `json:"anchor_url,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// CreateCampaign runs a whole campaign inside the request and answers with
// its final state.
func (a *App) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if !a.decode(w, r, &req, false) {
		return
	}
	locale := req.Locale
	if locale == "" {
		locale = middleware.LocaleFromContext(r.Context())
	}

	res, err := a.Campaigns.CreateCampaign(r.Context(), campaign.CreateInput{
		BusinessID:  req.BusinessID,
		Prompts:     req.Prompts,
		AspectRatio: req.AspectRatio,
		StyleID:     req.StyleID,
		ModelTier:   domain.ModelTier(req.ModelTier),
		FreedomMode: req.FreedomMode,
		Locale:      locale,
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	assetIDs := res.AssetIDs
	if assetIDs == nil {
		assetIDs = []string{}
	}
	a.json(w, http.StatusOK, createCampaignResponse{
		CampaignID:      res.CampaignID,
		Status:          res.ReportedStatus,
		TotalImages:     res.TotalImages,
		CompletedImages: res.CompletedImages,
		AssetIDs:        assetIDs,
		AnchorURL:       res.AnchorURL,
		Error:           res.Error,
	})
}

type campaignStatusResponse struct {
	CampaignID          string     `json:"campaign_id"`
	BusinessID          string     `json:"business_id"`
	Status              string     `json:"status"`
	TotalImages         int        `json:"total_images"`
	CompletedImages     int        `json:"completed_images"`
	AspectRatio         string     `json:"aspect_ratio"`
	StyleID             string     `json:"style_id,omitempty"`
	ModelTier           string     `json:"model_tier"`
	AnchorURL           string     `json:"anchor_url,omitempty"`
	AnchorRegenerations int        `json:"anchor_regenerations"`
	AssetIDs            []string   `json:"asset_ids"`
	AssetURLs           []string   `json:"asset_urls"`
	Error               string     `json:"error,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
}

func (a *App) CampaignStatus(w http.ResponseWriter, r *http.Request) {
	view, err := a.Campaigns.CampaignStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	c := view.Campaign
	a.json(w, http.StatusOK, campaignStatusResponse{
		CampaignID:          c.ID,
		BusinessID:          c.BusinessID,
		Status:              string(c.Status),
		TotalImages:         c.TotalImages,
		CompletedImages:     c.CompletedImages,
		AspectRatio:         c.AspectRatio,
		StyleID:             c.StyleID,
		ModelTier:           string(c.ModelTier),
		AnchorURL:           c.AnchorURL,
		AnchorRegenerations: c.AnchorRegenerations,
		AssetIDs:            view.AssetIDs(),
		AssetURLs:           view.AssetURLs(),
		Error:               c.Error,
		CreatedAt:           c.CreatedAt,
		CompletedAt:         c.CompletedAt,
	})
}

type regenerateRequest struct {
	AdjustedPrompt string `json:"adjusted_prompt" validate:"max=2000"`
}

type regenerateResponse struct {
	CampaignID              string `json:"campaign_id"`
	Status                  string `json:"status"`
	AnchorURL               string `json:"anchor_url"`
	AnchorAssetID           string `json:"anchor_asset_id"`
	AnchorRegenerations     int    `json:"anchor_regenerations"`
	CreditCost              int    `json:"credit_cost"`
	FreeRejectionsRemaining int    `json:"free_rejections_remaining"`
}

func (a *App) RegenerateAnchor(w http.ResponseWriter, r *http.Request) {
	var req regenerateRequest
	if !a.decode(w, r, &req, true) {
		return
	}
	res, err := a.Campaigns.RegenerateAnchor(r.Context(), chi.URLParam(r, "id"), req.AdjustedPrompt)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, regenerateResponse{
		CampaignID:              res.CampaignID,
		Status:                  string(res.Status),
		AnchorURL:               res.AnchorURL,
		AnchorAssetID:           res.AnchorAssetID,
		AnchorRegenerations:     res.Regenerations,
		CreditCost:              res.CreditCost,
		FreeRejectionsRemaining: res.FreeRejectionsRemaining,
	})
}

// ExportCampaign streams the campaign's assets as a ZIP archive.
func (a *App) ExportCampaign(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	entries, err := a.Campaigns.ExportEntries(r.Context(), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "campaign-"+id+".zip"))
	w.WriteHeader(http.StatusOK)
	if err := zip.Write(w, entries); err != nil {
		a.logger(r).Error().Err(err).Str("campaign_id", id).Msg("stream campaign export")
	}
}
