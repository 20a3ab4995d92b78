package repository

import (
	"context"

	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
)

// CostLotRepository define el puerto para los lotes de costo.
// Usado dentro de transacciones para garantizar consistencia.
type CostLotRepository interface {
	// Create asigna ID y Sequence si vienen vacíos.
	Create(ctx context.Context, lot *entity.CostLot) error
	// ListForUpdate lotes del producto en el ámbito con remanente > 0, en orden de creación, bloqueados.
	ListForUpdate(ctx context.Context, productID string, scope entity.LotScope) ([]*entity.CostLot, error)
	// ListScopeForUpdate lotes con remanente > 0 de cualquier producto retenidos en el ámbito, bloqueados.
	ListScopeForUpdate(ctx context.Context, storeID string, scope entity.LotScope) ([]*entity.CostLot, error)
	// ListByProduct lotes vivos del producto (incluye vacíos si includeEmpty).
	ListByProduct(ctx context.Context, productID string, includeEmpty bool) ([]*entity.CostLot, error)
	UpdateRemaining(ctx context.Context, id string, remaining int64) error
}
