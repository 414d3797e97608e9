package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"campaignstudio/internal/domain"
)

type jobResponse struct {
	ID            string    `json:"id"`
	BusinessID    string    `json:"business_id"`
	CampaignID    string    `json:"campaign_id,omitempty"`
	Status        string    `json:"status"`
	Prompt        string    `json:"prompt"`
	ModelTier     string    `json:"model_tier"`
	Progress      string    `json:"progress,omitempty"`
	Error         string    `json:"error,omitempty"`
	ResultAssetID string    `json:"result_asset_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (a *App) JobStatus(w http.ResponseWriter, r *http.Request) {
	job, err := a.Campaigns.Job(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	resp := jobResponse{
		ID:            job.ID,
		BusinessID:    job.BusinessID,
		CampaignID:    job.CampaignID,
		Status:        string(job.Status),
		Prompt:        job.Prompt,
		ModelTier:     string(job.ModelTier),
		ResultAssetID: job.ResultAssetID,
		CreatedAt:     job.CreatedAt,
		UpdatedAt:     job.UpdatedAt,
	}
	// the message column doubles as progress label while the job runs
	switch job.Status {
	case domain.JobStatusFailed:
		resp.Error = job.ErrorMessage
	case domain.JobStatusPending, domain.JobStatusProcessing:
		resp.Progress = job.ErrorMessage
	}
	a.json(w, http.StatusOK, resp)
}
