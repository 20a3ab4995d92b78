package repository

import (
	"context"

	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
)

// StockMovementRepository define el puerto del historial de movimientos (solo inserción).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error)
	ListBySource(ctx context.Context, kind entity.SourceKind, sourceID string) ([]*entity.StockMovement, error)
}
