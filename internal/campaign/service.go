// Package campaign runs anchored multi-image campaigns: a strictly sequential
// loop whose first successful image becomes the style reference for every
// later generation.
package campaign

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	"campaignstudio/internal/domain"
	imageprovider "campaignstudio/internal/providers/image"
	"campaignstudio/internal/storage"
)

var tracer = otel.Tracer("campaignstudio/internal/campaign")

// Allowance prices anchor regenerations. The first Free regenerations of a
// campaign cost nothing; each later one costs CreditCost.
type Allowance struct {
	Free       int
	CreditCost int
}

// Deps are the collaborators of a Service. Models, Styles, Locker and Clock
// fall back to defaults when nil.
type Deps struct {
	Businesses domain.BusinessRepository
	Campaigns  domain.CampaignRepository
	Jobs       domain.JobRepository
	Assets     domain.AssetRepository
	Store      storage.ObjectStore
	References ReferenceResolver
	Provider   imageprovider.Provider
	Models     imageprovider.ModelSelector
	Styles     *StyleCatalog
	Locker     Locker
	Allowance  Allowance
	Logger     zerolog.Logger
	Clock      func() time.Time
}

// Service exposes campaign creation, anchor regeneration and status reads.
type Service struct {
	businesses domain.BusinessRepository
	campaigns  domain.CampaignRepository
	jobs       domain.JobRepository
	assets     domain.AssetRepository
	references ReferenceResolver
	generator  *Generator
	locker     Locker
	allowance  Allowance
	logger     zerolog.Logger
	now        func() time.Time
}

func NewService(d Deps) (*Service, error) {
	switch {
	case d.Businesses == nil, d.Campaigns == nil, d.Jobs == nil, d.Assets == nil:
		return nil, errors.New("campaign: repositories are required")
	case d.Store == nil:
		return nil, errors.New("campaign: object store is required")
	case d.Provider == nil:
		return nil, errors.New("campaign: image provider is required")
	case d.References == nil:
		return nil, errors.New("campaign: reference resolver is required")
	}
	if d.Models == nil {
		d.Models = imageprovider.DefaultModelSelector
	}
	if d.Styles == nil {
		d.Styles = DefaultStyleCatalog()
	}
	if d.Locker == nil {
		d.Locker = NewMemoryLocker()
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.Allowance.Free < 0 {
		d.Allowance.Free = 0
	}

	logger := d.Logger.With().Str("component", "campaign").Logger()
	return &Service{
		businesses: d.Businesses,
		campaigns:  d.Campaigns,
		jobs:       d.Jobs,
		assets:     d.Assets,
		references: d.References,
		generator: &Generator{
			jobs:       d.Jobs,
			references: d.References,
			provider:   d.Provider,
			models:     d.Models,
			styles:     d.Styles,
			publisher:  NewPublisher(d.Store, d.Assets),
			logger:     logger,
		},
		locker:    d.Locker,
		allowance: d.Allowance,
		logger:    logger,
		now:       d.Clock,
	}, nil
}
