package campaign

import (
	"context"
	"fmt"

	"campaignstudio/internal/domain"
	"campaignstudio/internal/storage"
	"campaignstudio/pkg/zip"
)

// ExportEntries downloads every campaign asset for archiving. The current
// anchor comes first, the rest keep creation order. Assets that cannot be
// fetched are skipped.
func (s *Service) ExportEntries(ctx context.Context, campaignID string) ([]zip.Entry, error) {
	view, err := s.CampaignStatus(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	ordered := make([]domain.Asset, 0, len(view.Assets))
	for _, a := range view.Assets {
		if a.ID == view.Campaign.AnchorAssetID {
			ordered = append([]domain.Asset{a}, ordered...)
			continue
		}
		ordered = append(ordered, a)
	}

	entries := make([]zip.Entry, 0, len(ordered))
	for _, a := range ordered {
		ref := s.references.Fetch(ctx, a.Content)
		if ref == nil {
			s.logger.Warn().Str("campaign_id", campaignID).Str("asset_id", a.ID).Msg("export: asset unavailable")
			continue
		}
		entries = append(entries, zip.Entry{
			Name:     fmt.Sprintf("%02d-%s%s", len(entries)+1, a.ID, storage.ExtensionForMIME(ref.MIMEType)),
			Data:     ref.Data,
			Modified: a.CreatedAt,
		})
	}
	return entries, nil
}
