package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"campaignstudio/internal/campaign"
	"campaignstudio/internal/domain"
	"campaignstudio/pkg/zip"
)

// CampaignService is the campaign surface the handlers depend on.
type CampaignService interface {
	CreateCampaign(ctx context.Context, in campaign.CreateInput) (*campaign.CreateResult, error)
	CampaignStatus(ctx context.Context, campaignID string) (*campaign.StatusView, error)
	RegenerateAnchor(ctx context.Context, campaignID, adjustment string) (*campaign.RegenerateResult, error)
	ExportEntries(ctx context.Context, campaignID string) ([]zip.Entry, error)
	Job(ctx context.Context, jobID string) (*domain.GenerationJob, error)
}

type App struct {
	Campaigns CampaignService
	Logger    zerolog.Logger

	validate *validator.Validate
}

func NewApp(campaigns CampaignService, logger zerolog.Logger) *App {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json field names in validation messages
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &App{Campaigns: campaigns, Logger: logger, validate: v}
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, errorBody{Error: errorDetail{Code: errCode, Message: message}})
}

// writeError maps service errors to HTTP responses.
func (a *App) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCampaign):
		a.error(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, domain.ErrBusinessNotFound):
		a.error(w, http.StatusNotFound, "business_not_found", "business not found")
	case errors.Is(err, domain.ErrCampaignNotFound):
		a.error(w, http.StatusNotFound, "campaign_not_found", "campaign not found")
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "not found")
	case errors.Is(err, domain.ErrCampaignBusy):
		a.error(w, http.StatusConflict, "campaign_busy", err.Error())
	case errors.Is(err, domain.ErrNoAnchor):
		a.error(w, http.StatusConflict, "no_anchor", err.Error())
	default:
		a.logger(r).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

// decode reads a JSON body into dst and validates it. An empty body is
// accepted when allowEmpty is set.
func (a *App) decode(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !(allowEmpty && errors.Is(err, io.EOF)) {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return false
	}
	if err := a.validate.Struct(dst); err != nil {
		a.error(w, http.StatusBadRequest, "invalid_request", validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fe.Namespace()
		if _, rest, ok := strings.Cut(msg, "."); ok {
			msg = rest
		}
		msg += " failed " + fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		msgs = append(msgs, msg)
	}
	return strings.Join(msgs, "; ")
}

func (a *App) logger(r *http.Request) *zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &a.Logger
}
