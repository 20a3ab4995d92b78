package repository

import (
	"context"

	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para productos.
// GetByID y GetForUpdate devuelven (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	ListByStore(ctx context.Context, storeID string, limit, offset int) ([]*entity.Product, error)
	UpdateStock(ctx context.Context, id string, stockNumber int64) error
	UpdateWholesaleSummary(ctx context.Context, id string, summary entity.WholesaleSummary) error
	SoftDelete(ctx context.Context, id string) error
}
