package campaign

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"campaignstudio/internal/domain"
	"campaignstudio/internal/imageref"
	imageprovider "campaignstudio/internal/providers/image"
)

// ledger is an in-memory stand-in for the Postgres repositories. It mirrors
// the guards of the SQL statements.
type ledger struct {
	mu         sync.Mutex
	businesses map[string]domain.Business
	campaigns  map[string]*domain.Campaign
	jobs       map[string]*domain.GenerationJob
	jobOrder   []string
	assets     []domain.Asset
	progress   []int
	clock      time.Time

	createCampaignErr error
	createJobErr      error
	replaceAnchorErr  error
}

func newLedger() *ledger {
	return &ledger{
		businesses: map[string]domain.Business{},
		campaigns:  map[string]*domain.Campaign{},
		jobs:       map[string]*domain.GenerationJob{},
		clock:      time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (l *ledger) tick() time.Time {
	l.clock = l.clock.Add(time.Millisecond)
	return l.clock
}

type businessRepo struct{ *ledger }

func (r businessRepo) GetByID(ctx context.Context, id string) (*domain.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.businesses[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

type campaignRepo struct{ *ledger }

func (r campaignRepo) Create(ctx context.Context, c *domain.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createCampaignErr != nil {
		return r.createCampaignErr
	}
	c.CreatedAt = r.tick()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	cp.Prompts = append([]string(nil), c.Prompts...)
	r.campaigns[c.ID] = &cp
	return nil
}

func (r campaignRepo) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r campaignRepo) UpdateProgress(ctx context.Context, id string, completed int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, completed)
	c, ok := r.campaigns[id]
	if !ok || c.Status != domain.CampaignStatusProcessing {
		return nil
	}
	c.CompletedImages = max(c.CompletedImages, min(completed, c.TotalImages))
	return nil
}

func (r campaignRepo) SetAnchor(ctx context.Context, id, url, assetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.campaigns[id]; ok && c.AnchorURL == "" {
		c.AnchorURL = url
		c.AnchorAssetID = assetID
	}
	return nil
}

func (r campaignRepo) Finish(ctx context.Context, id string, status domain.CampaignStatus, completed int, errMsg string, completedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok || c.Status != domain.CampaignStatusProcessing {
		return domain.ErrNotFound
	}
	c.Status = status
	c.CompletedImages = min(completed, c.TotalImages)
	c.Error = errMsg
	c.CompletedAt = &completedAt
	return nil
}

func (r campaignRepo) ReplaceAnchor(ctx context.Context, id, url, assetID string, regenerations int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.replaceAnchorErr != nil {
		return r.replaceAnchorErr
	}
	c, ok := r.campaigns[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.AnchorURL = url
	c.AnchorAssetID = assetID
	c.AnchorRegenerations = regenerations
	c.Status = domain.CampaignStatusPreview
	return nil
}

type jobRepo struct{ *ledger }

func (r jobRepo) Create(ctx context.Context, job *domain.GenerationJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createJobErr != nil {
		return r.createJobErr
	}
	job.CreatedAt = r.tick()
	cp := *job
	r.jobs[job.ID] = &cp
	r.jobOrder = append(r.jobOrder, job.ID)
	return nil
}

func (r jobRepo) GetByID(ctx context.Context, id string) (*domain.GenerationJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (r jobRepo) open(id string) *domain.GenerationJob {
	j, ok := r.jobs[id]
	if !ok || (j.Status != domain.JobStatusPending && j.Status != domain.JobStatusProcessing) {
		return nil
	}
	return j
}

func (r jobRepo) UpdateProgress(ctx context.Context, id, label string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j := r.open(id); j != nil {
		j.ErrorMessage = label
	}
	return nil
}

func (r jobRepo) Complete(ctx context.Context, id, assetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j := r.open(id); j != nil {
		j.Status = domain.JobStatusCompleted
		j.ResultAssetID = assetID
		j.ErrorMessage = ""
	}
	return nil
}

func (r jobRepo) Fail(ctx context.Context, id, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j := r.open(id); j != nil {
		j.Status = domain.JobStatusFailed
		j.ErrorMessage = reason
	}
	return nil
}

func (l *ledger) orderedJobs() []domain.GenerationJob {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.GenerationJob, 0, len(l.jobOrder))
	for _, id := range l.jobOrder {
		out = append(out, *l.jobs[id])
	}
	return out
}

type assetRepo struct{ *ledger }

func (r assetRepo) Create(ctx context.Context, a *domain.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.CreatedAt = r.tick()
	r.assets = append(r.assets, *a)
	return nil
}

func (r assetRepo) ListByCampaign(ctx context.Context, campaignID string) ([]domain.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Asset
	for _, a := range r.assets {
		if a.CampaignID == campaignID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// memoryStore serves uploads back through the reference resolver.
type memoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

const cdnBase = "https://cdn.test/"

func (s *memoryStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	if s.objects == nil {
		s.objects = map[string][]byte{}
	}
	s.objects[key] = append([]byte(nil), data...)
	return cdnBase + key, nil
}

// references resolves uploaded objects plus any extra URLs registered.
type references struct {
	store  *memoryStore
	extra  map[string][]byte
	mu     sync.Mutex
	called []string
}

func (r *references) Fetch(ctx context.Context, url string) *imageref.Reference {
	r.mu.Lock()
	r.called = append(r.called, url)
	r.mu.Unlock()
	if data, ok := r.extra[url]; ok {
		return &imageref.Reference{URL: url, Data: data, MIMEType: "image/png"}
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if data, ok := r.store.objects[strings.TrimPrefix(url, cdnBase)]; ok {
		return &imageref.Reference{URL: url, Data: data, MIMEType: "image/png"}
	}
	return nil
}

// syncBuffer collects log output from concurrent goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// scriptedProvider answers call n with script[n] and records every request.
type scriptedProvider struct {
	mu       sync.Mutex
	requests []imageprovider.Request
	script   []func(req imageprovider.Request) (*imageprovider.Result, error)
	// before runs ahead of each call while no lock is held
	before func(call int)
}

func (p *scriptedProvider) Generate(ctx context.Context, req imageprovider.Request) (*imageprovider.Result, error) {
	p.mu.Lock()
	call := len(p.requests)
	p.requests = append(p.requests, req)
	p.mu.Unlock()
	if p.before != nil {
		p.before(call)
	}
	if call < len(p.script) && p.script[call] != nil {
		return p.script[call](req)
	}
	return succeed(req)
}

func (p *scriptedProvider) calls() []imageprovider.Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]imageprovider.Request(nil), p.requests...)
}

func succeed(req imageprovider.Request) (*imageprovider.Result, error) {
	return &imageprovider.Result{Data: []byte("img:" + req.RequestID), MIMEType: "image/png", Model: req.Model.Model}, nil
}

func noImage(imageprovider.Request) (*imageprovider.Result, error) {
	return nil, domain.ErrNoImageReturned
}

func providerDown(imageprovider.Request) (*imageprovider.Result, error) {
	return nil, errors.New("503 service unavailable")
}

// imageParts returns the inline image payloads of a request in order.
func imageParts(req imageprovider.Request) []string {
	var out []string
	for _, p := range req.Parts {
		if img, ok := p.(imageprovider.ImagePart); ok {
			out = append(out, string(img.Data))
		}
	}
	return out
}
