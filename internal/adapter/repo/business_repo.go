package repo

import (
	"context"

	"campaignstudio/internal/domain"
	"campaignstudio/internal/infra"
	"campaignstudio/internal/sqlinline"
)

// BusinessRepositoryPG implements domain.BusinessRepository.
type BusinessRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewBusinessRepository creates a business profile reader backed by PostgreSQL.
func NewBusinessRepository(sql infra.SQLExecutor) *BusinessRepositoryPG {
	return &BusinessRepositoryPG{sql: sql}
}

// GetByID fetches a business profile.
func (r *BusinessRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Business, error) {
	var b domain.Business
	err := r.sql.QueryRow(ctx, sqlinline.QSelectBusinessByID, id).Scan(
		&b.ID,
		&b.Name,
		&b.Industry,
		&b.Description,
		&b.LogoURL,
		&b.ColorPalette,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &b, nil
}

var _ domain.BusinessRepository = (*BusinessRepositoryPG)(nil)
