package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LotRecordRequest registro mayorista de procedencia para un aumento.
type LotRecordRequest struct {
	UnitPrice decimal.Decimal `json:"unit_price"`
	ArrivedAt *time.Time      `json:"arrived_at"`
	Quantity  int64           `json:"quantity" validate:"required,min=1"`
}

// IncreaseRequest aumento de stock de un producto.
type IncreaseRequest struct {
	ProductID   string             `json:"product_id" validate:"required"`
	Quantity    int64              `json:"quantity" validate:"required,min=1"`
	UnitPrice   decimal.Decimal    `json:"unit_price"`
	ArrivedAt   *time.Time         `json:"arrived_at"`
	Lots        []LotRecordRequest `json:"lots" validate:"omitempty,dive"`
	SourceKind  string             `json:"source_kind" validate:"required"`
	SourceID    string             `json:"source_id" validate:"max=100"`
	Description string             `json:"description" validate:"max=500"`
}

// DecreaseRequest disminución de stock de un producto.
type DecreaseRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	Quantity    int64  `json:"quantity" validate:"required,min=1"`
	SourceKind  string `json:"source_kind" validate:"required"`
	SourceID    string `json:"source_id" validate:"max=100"`
	Description string `json:"description" validate:"max=500"`
}

// TransferRequest traslado entre dos productos.
type TransferRequest struct {
	FromProductID string `json:"from_product_id" validate:"required"`
	ToProductID   string `json:"to_product_id" validate:"required,nefield=FromProductID"`
	Quantity      int64  `json:"quantity" validate:"required,min=1"`
	Description   string `json:"description" validate:"max=500"`
}

// CardRequest cartas obtenidas de la apertura. Sin unit_price reciben parte del margen.
type CardRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  int64            `json:"quantity" validate:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// OpenPackRequest apertura de cajas o sobres.
type OpenPackRequest struct {
	BoxProductID          string           `json:"box_product_id" validate:"required"`
	PackCount             int64            `json:"pack_count" validate:"required,min=1"`
	CardsPerPack          int64            `json:"cards_per_pack" validate:"min=0"`
	Cards                 []CardRequest    `json:"cards" validate:"omitempty,dive"`
	UnregisteredQuantity  int64            `json:"unregistered_quantity" validate:"min=0"`
	UnregisteredProductID string           `json:"unregistered_product_id"`
	UnregisteredUnitPrice *decimal.Decimal `json:"unregistered_unit_price"`
	Description           string           `json:"description" validate:"max=500"`
}

// RollbackRequest reversión de una apertura; dry_run solo valida.
type RollbackRequest struct {
	Description string `json:"description" validate:"max=500"`
	DryRun      bool   `json:"dry_run"`
}

// BundleRequest armado o liberación de unidades de un bundle.
type BundleRequest struct {
	Quantity    int64  `json:"quantity" validate:"required,min=1"`
	Description string `json:"description" validate:"max=500"`
}

// LotRecordResponse registro consumido o creado.
type LotRecordResponse struct {
	LotID     string          `json:"lot_id,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ArrivedAt time.Time       `json:"arrived_at"`
	Quantity  int64           `json:"quantity"`
}

// LotResponse lote de costo de un producto.
type LotResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	Scope             string          `json:"scope"`
	SourceID          string          `json:"source_id,omitempty"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	ArrivedAt         time.Time       `json:"arrived_at"`
	RemainingQuantity int64           `json:"remaining_quantity"`
	Sequence          int64           `json:"sequence"`
}

// MovementResponse fila del historial.
type MovementResponse struct {
	ID             string              `json:"id"`
	ProductID      string              `json:"product_id"`
	SourceKind     string              `json:"source_kind"`
	SourceID       string              `json:"source_id,omitempty"`
	ItemCount      int64               `json:"item_count"`
	ResultingStock int64               `json:"resulting_stock"`
	UnitPrice      decimal.Decimal     `json:"unit_price"`
	TotalCost      decimal.Decimal     `json:"total_cost"`
	Lots           []LotRecordResponse `json:"lots"`
	Description    string              `json:"description,omitempty"`
	StaffID        string              `json:"staff_id,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}

// MovementListResponse historial paginado.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// SummaryResponse resumen legible de la operación.
type SummaryResponse struct {
	Text             string           `json:"text"`
	Quantity         int64            `json:"quantity"`
	TotalCost        decimal.Decimal  `json:"total_cost"`
	TotalCostWithTax *decimal.Decimal `json:"total_cost_with_tax,omitempty"`
}

// IncreaseResponse resultado de un aumento.
type IncreaseResponse struct {
	Movement       MovementResponse    `json:"movement"`
	Lots           []LotRecordResponse `json:"lots"`
	ResultingStock int64               `json:"resulting_stock"`
	Summary        *SummaryResponse    `json:"summary,omitempty"`
}

// ComponentLotsResponse lotes devueltos a un componente al liberar un bundle.
type ComponentLotsResponse struct {
	ProductID string              `json:"product_id"`
	Lots      []LotRecordResponse `json:"lots"`
}

// DecreaseResponse resultado de una disminución.
type DecreaseResponse struct {
	Movement       MovementResponse        `json:"movement"`
	Consumed       []LotRecordResponse     `json:"consumed"`
	ResultingStock int64                   `json:"resulting_stock"`
	Components     []ComponentLotsResponse `json:"components,omitempty"`
	Summary        *SummaryResponse        `json:"summary,omitempty"`
}

// TransferResponse salida del origen y entrada del destino.
type TransferResponse struct {
	From    DecreaseResponse `json:"from"`
	To      IncreaseResponse `json:"to"`
	Summary *SummaryResponse `json:"summary,omitempty"`
}

// PackCardResponse cartas registradas en la apertura.
type PackCardResponse struct {
	ProductID string           `json:"product_id"`
	Quantity  int64            `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// PackOpeningResponse registro padre de una apertura.
type PackOpeningResponse struct {
	ID                    string             `json:"id"`
	BoxProductID          string             `json:"box_product_id"`
	BoxCategory           string             `json:"box_category"`
	PackCount             int64              `json:"pack_count"`
	CardsPerPack          int64              `json:"cards_per_pack"`
	Cards                 []PackCardResponse `json:"cards"`
	UnregisteredProductID string             `json:"unregistered_product_id,omitempty"`
	UnregisteredQuantity  int64              `json:"unregistered_quantity"`
	UnregisteredUnitPrice *decimal.Decimal   `json:"unregistered_unit_price,omitempty"`
	ConsumedCost          decimal.Decimal    `json:"consumed_cost"`
	LossCost              decimal.Decimal    `json:"loss_cost"`
	UnallocatedCost       decimal.Decimal    `json:"unallocated_cost"`
	Status                string             `json:"status"`
	Description           string             `json:"description,omitempty"`
	StaffID               string             `json:"staff_id,omitempty"`
	CreatedAt             time.Time          `json:"created_at"`
	RolledBackAt          *time.Time         `json:"rolled_back_at,omitempty"`
	RollbackDescription   string             `json:"rollback_description,omitempty"`
}

// OpenPackResponse apertura creada y sus movimientos.
type OpenPackResponse struct {
	History      PackOpeningResponse `json:"history"`
	Box          DecreaseResponse    `json:"box"`
	Cards        []IncreaseResponse  `json:"cards"`
	Unregistered *IncreaseResponse   `json:"unregistered,omitempty"`
	Summary      *SummaryResponse    `json:"summary,omitempty"`
}

// RollbackResponse resultado de una reversión. reason solo aparece con outcome=failed.
type RollbackResponse struct {
	Outcome   string               `json:"outcome"`
	Reason    string               `json:"reason,omitempty"`
	History   *PackOpeningResponse `json:"history,omitempty"`
	Movements []MovementResponse   `json:"movements,omitempty"`
	Summary   *SummaryResponse     `json:"summary,omitempty"`
}

// BundleResponse movimientos del bundle y de sus componentes.
type BundleResponse struct {
	Bundle     MovementResponse    `json:"bundle"`
	Components []MovementResponse  `json:"components"`
	Lots       []LotRecordResponse `json:"lots"`
	Summary    *SummaryResponse    `json:"summary,omitempty"`
}
