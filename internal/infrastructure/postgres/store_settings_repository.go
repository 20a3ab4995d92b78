package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/repository"
)

var _ repository.StoreSettingsRepository = (*StoreSettingsRepo)(nil)

// StoreSettingsRepo configuración del libro por tienda.
type StoreSettingsRepo struct {
	q Querier
}

// NewStoreSettingsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStoreSettingsRepository(q Querier) *StoreSettingsRepo {
	return &StoreSettingsRepo{q: q}
}

func (r *StoreSettingsRepo) Get(ctx context.Context, storeID string) (*entity.StoreSettings, error) {
	var s entity.StoreSettings
	err := r.q.QueryRow(ctx, `
		SELECT store_id, keep_rule, allocation_order, updated_at FROM store_settings WHERE store_id = $1`, storeID,
	).Scan(&s.StoreID, &s.Policy.KeepRule, &s.Policy.Order, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store settings: %w", err)
	}
	return &s, nil
}

func (r *StoreSettingsRepo) Upsert(ctx context.Context, s *entity.StoreSettings) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO store_settings (store_id, keep_rule, allocation_order, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (store_id)
		DO UPDATE SET keep_rule = EXCLUDED.keep_rule, allocation_order = EXCLUDED.allocation_order, updated_at = EXCLUDED.updated_at`,
		s.StoreID, s.Policy.KeepRule, s.Policy.Order, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert store settings: %w", err)
	}
	return nil
}
