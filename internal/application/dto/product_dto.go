package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para registrar un producto. El stock y el costo nacen en 0.
type CreateProductRequest struct {
	DisplayName           string `json:"display_name" validate:"required,min=1,max=200"`
	Category              string `json:"category" validate:"required,oneof=normal box pack bundle original_pack lucky_bag deck"`
	InfiniteStock         bool   `json:"infinite_stock"`
	IsSpecialPriceProduct bool   `json:"is_special_price_product"`
}

// ProductResponse salida de un producto con su resumen mayorista.
type ProductResponse struct {
	ID                    string          `json:"id"`
	StoreID               string          `json:"store_id"`
	DisplayName           string          `json:"display_name"`
	Category              string          `json:"category"`
	StockNumber           int64           `json:"stock_number"`
	InfiniteStock         bool            `json:"infinite_stock"`
	IsSpecialPriceProduct bool            `json:"is_special_price_product"`
	Deleted               bool            `json:"deleted"`
	AverageWholesalePrice decimal.Decimal `json:"average_wholesale_price"`
	MinimumWholesalePrice decimal.Decimal `json:"minimum_wholesale_price"`
	MaximumWholesalePrice decimal.Decimal `json:"maximum_wholesale_price"`
	TotalWholesalePrice   decimal.Decimal `json:"total_wholesale_price"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// BundleComponentRequest unidades de un componente por unidad de bundle.
type BundleComponentRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,min=1"`
}

// SetBundleComponentsRequest reemplaza la composición completa de un bundle.
type SetBundleComponentsRequest struct {
	Components []BundleComponentRequest `json:"components" validate:"required,min=1,dive"`
}

// BundleComponentsResponse composición de un bundle.
type BundleComponentsResponse struct {
	BundleProductID string                   `json:"bundle_product_id"`
	Components      []BundleComponentRequest `json:"components"`
}
