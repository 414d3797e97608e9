package repo

import (
	"context"

	"campaignstudio/internal/domain"
	"campaignstudio/internal/infra"
	"campaignstudio/internal/sqlinline"
)

// AssetRepositoryPG implements domain.AssetRepository using PostgreSQL.
type AssetRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewAssetRepository constructs a new asset repository instance.
func NewAssetRepository(sql infra.SQLExecutor) *AssetRepositoryPG {
	return &AssetRepositoryPG{sql: sql}
}

// Create inserts an asset ledger entry.
func (r *AssetRepositoryPG) Create(ctx context.Context, a *domain.Asset) error {
	if a.Type == "" {
		a.Type = domain.AssetTypeImage
	}
	return r.sql.QueryRow(ctx, sqlinline.QInsertAsset,
		a.ID,
		a.BusinessID,
		string(a.Type),
		a.Prompt,
		a.Content,
		a.StyleID,
		a.AspectRatio,
		a.CampaignID,
		a.IsCampaignAnchor,
		a.MIMEType,
		a.Bytes,
	).Scan(&a.CreatedAt)
}

// ListByCampaign returns the campaign's assets in creation order.
func (r *AssetRepositoryPG) ListByCampaign(ctx context.Context, campaignID string) ([]domain.Asset, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListAssetsByCampaign, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []domain.Asset
	for rows.Next() {
		var (
			a   domain.Asset
			typ string
		)
		if err := rows.Scan(
			&a.ID,
			&a.BusinessID,
			&typ,
			&a.Prompt,
			&a.Content,
			&a.StyleID,
			&a.AspectRatio,
			&a.CampaignID,
			&a.IsCampaignAnchor,
			&a.MIMEType,
			&a.Bytes,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		a.Type = domain.AssetType(typ)
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assets, nil
}

var _ domain.AssetRepository = (*AssetRepositoryPG)(nil)
