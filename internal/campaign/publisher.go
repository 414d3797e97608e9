package campaign

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"campaignstudio/internal/domain"
	"campaignstudio/internal/storage"
)

// PublishInput describes one generated image to persist.
type PublishInput struct {
	BusinessID  string
	CampaignID  string
	Prompt      string
	StyleID     string
	AspectRatio string
	IsAnchor    bool
	Data        []byte
	MIMEType    string
}

// Publisher uploads generated images and records them in the asset ledger.
type Publisher struct {
	store  storage.ObjectStore
	assets domain.AssetRepository
}

func NewPublisher(store storage.ObjectStore, assets domain.AssetRepository) *Publisher {
	return &Publisher{store: store, assets: assets}
}

// Publish stores the bytes under the campaign prefix and inserts the asset.
func (p *Publisher) Publish(ctx context.Context, in PublishInput) (*domain.Asset, error) {
	if len(in.Data) == 0 {
		return nil, fmt.Errorf("%w: empty image", domain.ErrUploadFailed)
	}
	mime := in.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	id := uuid.NewString()
	key := AssetKey(in.BusinessID, in.CampaignID, id, mime)

	url, err := p.store.Upload(ctx, key, in.Data, mime)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUploadFailed, err)
	}

	asset := &domain.Asset{
		ID:               id,
		BusinessID:       in.BusinessID,
		Type:             domain.AssetTypeImage,
		Prompt:           in.Prompt,
		Content:          url,
		StyleID:          in.StyleID,
		AspectRatio:      in.AspectRatio,
		CampaignID:       in.CampaignID,
		IsCampaignAnchor: in.IsAnchor,
		MIMEType:         mime,
		Bytes:            int64(len(in.Data)),
	}
	if err := p.assets.Create(ctx, asset); err != nil {
		return nil, fmt.Errorf("record asset: %w", err)
	}
	return asset, nil
}

// AssetKey is the object key of a campaign asset.
func AssetKey(businessID, campaignID, assetID, mime string) string {
	if campaignID == "" {
		return fmt.Sprintf("businesses/%s/assets/%s%s", businessID, assetID, storage.ExtensionForMIME(mime))
	}
	return fmt.Sprintf("businesses/%s/campaigns/%s/%s%s", businessID, campaignID, assetID, storage.ExtensionForMIME(mime))
}
