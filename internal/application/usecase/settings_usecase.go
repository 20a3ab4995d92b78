package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/waterfire-source/Mycalinks-sub015/internal/application/dto"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/repository"
)

// PolicyInvalidator descarta la política cacheada de una tienda.
type PolicyInvalidator interface {
	Invalidate(ctx context.Context, storeID string) error
}

// SettingsUseCase lectura y cambio de la política del libro por tienda.
type SettingsUseCase struct {
	repo        repository.StoreSettingsRepository
	fallback    entity.LedgerPolicy
	invalidator PolicyInvalidator // opcional
	now         func() time.Time
}

// NewSettingsUseCase construye el caso de uso. invalidator puede ser nil.
func NewSettingsUseCase(repo repository.StoreSettingsRepository, fallback entity.LedgerPolicy, invalidator PolicyInvalidator) *SettingsUseCase {
	return &SettingsUseCase{repo: repo, fallback: fallback, invalidator: invalidator, now: time.Now}
}

// Get devuelve la política vigente de la tienda.
func (uc *SettingsUseCase) Get(ctx context.Context, storeID string) (*dto.SettingsResponse, error) {
	s, err := uc.repo.Get(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if s == nil || !s.Policy.Valid() {
		return &dto.SettingsResponse{
			StoreID:         storeID,
			KeepRule:        string(uc.fallback.KeepRule),
			AllocationOrder: string(uc.fallback.Order),
			Default:         true,
		}, nil
	}
	return toSettingsResponse(s), nil
}

// Update guarda la política; las operaciones posteriores la usan.
func (uc *SettingsUseCase) Update(ctx context.Context, storeID string, in dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	policy := entity.LedgerPolicy{KeepRule: entity.KeepRule(in.KeepRule), Order: entity.AllocationOrder(in.AllocationOrder)}
	if !policy.Valid() {
		return nil, fmt.Errorf("%w: política %s/%s", domain.ErrInvalidInput, in.KeepRule, in.AllocationOrder)
	}
	s := &entity.StoreSettings{StoreID: storeID, Policy: policy, UpdatedAt: uc.now()}
	if err := uc.repo.Upsert(ctx, s); err != nil {
		return nil, err
	}
	if uc.invalidator != nil {
		if err := uc.invalidator.Invalidate(ctx, storeID); err != nil {
			return nil, fmt.Errorf("invalidate policy cache: %w", err)
		}
	}
	return toSettingsResponse(s), nil
}

func toSettingsResponse(s *entity.StoreSettings) *dto.SettingsResponse {
	updatedAt := s.UpdatedAt
	return &dto.SettingsResponse{
		StoreID:         s.StoreID,
		KeepRule:        string(s.Policy.KeepRule),
		AllocationOrder: string(s.Policy.Order),
		UpdatedAt:       &updatedAt,
	}
}
