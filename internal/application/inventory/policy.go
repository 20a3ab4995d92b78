package inventory

import (
	"context"

	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/repository"
)

// SettingsPolicySource lee la política de store_settings y usa fallback si la tienda no tiene una propia.
type SettingsPolicySource struct {
	repo     repository.StoreSettingsRepository
	fallback entity.LedgerPolicy
}

var _ PolicySource = (*SettingsPolicySource)(nil)

// NewSettingsPolicySource construye la fuente de políticas.
func NewSettingsPolicySource(repo repository.StoreSettingsRepository, fallback entity.LedgerPolicy) *SettingsPolicySource {
	return &SettingsPolicySource{repo: repo, fallback: fallback}
}

// Policy devuelve la política de la tienda.
func (s *SettingsPolicySource) Policy(ctx context.Context, storeID string) (entity.LedgerPolicy, error) {
	settings, err := s.repo.Get(ctx, storeID)
	if err != nil {
		return entity.LedgerPolicy{}, err
	}
	if settings == nil || !settings.Policy.Valid() {
		return s.fallback, nil
	}
	return settings.Policy, nil
}
