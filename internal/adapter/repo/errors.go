package repo

import (
	"campaignstudio/internal/domain"
	"campaignstudio/internal/infra"
)

func mapNoRows(err error) error {
	if infra.IsNoRows(err) {
		return domain.ErrNotFound
	}
	return err
}
