package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa una variante de inventario vendible (ítem + condición + especialidad) de una tienda.
// StockNumber siempre es la suma de los remanentes de sus lotes vivos, salvo que InfiniteStock esté activo.
type Product struct {
	ID                    string
	StoreID               string
	DisplayName           string
	Category              ProductCategory
	StockNumber           int64
	InfiniteStock         bool // stock ilimitado: no se registran lotes
	IsSpecialPriceProduct bool // producto de precio especial: se da de baja al agotarse
	Deleted               bool
	Wholesale             WholesaleSummary
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// WholesaleSummary estadísticas de precio mayorista calculadas sobre los lotes vivos.
type WholesaleSummary struct {
	Average decimal.Decimal
	Minimum decimal.Decimal
	Maximum decimal.Decimal
	Total   decimal.Decimal
}

// Tracked indica si el producto lleva lotes de costo.
func (p *Product) Tracked() bool {
	return !p.InfiniteStock
}
