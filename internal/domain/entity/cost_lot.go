package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScopeKind indica a quién pertenece un lote: al stock vivo del producto o a una fuente que lo retuvo.
type ScopeKind string

const (
	ScopeProduct               ScopeKind = "PRODUCT"
	ScopeTransaction           ScopeKind = "TRANSACTION"
	ScopeLoss                  ScopeKind = "LOSS"
	ScopeStocking              ScopeKind = "STOCKING"
	ScopePackOpening           ScopeKind = "PACK_OPENING"
	ScopePackOpeningUnregister ScopeKind = "PACK_OPENING_UNREGISTER"
	ScopeBundle                ScopeKind = "BUNDLE"
	ScopeOriginalPack          ScopeKind = "ORIGINAL_PACK"
	ScopeAppraisal             ScopeKind = "APPRAISAL"
)

// LotScope ámbito de un lote. Los lotes fuera de PRODUCT quedan "estacionados" bajo la fuente
// (venta, apertura, bundle...) para poder restaurarlos en devoluciones y reversiones.
type LotScope struct {
	Kind     ScopeKind
	SourceID string
}

// LiveScope es el ámbito del stock vendible.
var LiveScope = LotScope{Kind: ScopeProduct}

// ParkedScope construye el ámbito de lotes retenidos por una fuente.
func ParkedScope(kind ScopeKind, sourceID string) LotScope {
	return LotScope{Kind: kind, SourceID: sourceID}
}

// IsLive indica si el ámbito corresponde al stock del producto.
func (s LotScope) IsLive() bool {
	return s.Kind == ScopeProduct
}

// CostLot registro de adquisición: unidades restantes a un mismo precio mayorista y fecha de llegada.
// Un lote con RemainingQuantity == 0 queda inerte pero no se borra.
type CostLot struct {
	ID                string
	StoreID           string
	ProductID         string
	Scope             LotScope
	UnitPrice         decimal.Decimal
	ArrivedAt         time.Time
	RemainingQuantity int64
	Sequence          int64 // orden de creación; desempata la asignación
	CreatedAt         time.Time
}

// Value devuelve el costo remanente del lote.
func (l *CostLot) Value() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.RemainingQuantity))
}

// LotRecord tupla (lote, precio, cantidad) consumida o por crear ("registro mayorista").
type LotRecord struct {
	LotID     string          `json:"lot_id,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ArrivedAt time.Time       `json:"arrived_at"`
	Quantity  int64           `json:"quantity"`
}

// Cost devuelve Quantity × UnitPrice.
func (r LotRecord) Cost() decimal.Decimal {
	return r.UnitPrice.Mul(decimal.NewFromInt(r.Quantity))
}

// TotalQuantity suma las cantidades de los registros.
func TotalQuantity(records []LotRecord) int64 {
	var n int64
	for _, r := range records {
		n += r.Quantity
	}
	return n
}

// TotalCost suma el costo de los registros.
func TotalCost(records []LotRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Cost())
	}
	return total
}
