package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PackOpenStatus estado de una apertura: FINISHED → ROLLBACK (transición única, sin retorno).
type PackOpenStatus string

const (
	PackOpenFinished PackOpenStatus = "FINISHED"
	PackOpenRollback PackOpenStatus = "ROLLBACK"
)

// PackOpenCard cartas producidas por la apertura para un producto.
// UnitPrice es el precio indicado por el operador; nil = reparto automático del margen.
type PackOpenCard struct {
	ProductID string           `json:"product_id"`
	Quantity  int64            `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// PackOpenHistory registro padre de una apertura de caja; su ID es el SourceID de todos sus movimientos.
type PackOpenHistory struct {
	ID                    string
	StoreID               string
	BoxProductID          string
	BoxCategory           ProductCategory
	PackCount             int64
	CardsPerPack          int64
	Cards                 []PackOpenCard
	UnregisteredProductID string // vacío = las cartas no registradas se dan por pérdida
	UnregisteredQuantity  int64
	UnregisteredUnitPrice *decimal.Decimal
	ConsumedCost          decimal.Decimal // costo mayorista consumido de la caja
	LossCost              decimal.Decimal // parte del costo asignada a cartas perdidas
	UnallocatedCost       decimal.Decimal // margen sin unidades a las que repartirlo
	Status                PackOpenStatus
	Description           string
	StaffID               string
	CreatedAt             time.Time
	RolledBackAt          *time.Time
	RollbackDescription   string
}

// UnregisteredIsLoss indica si el remanente no registrado se registró como pérdida pura.
func (h *PackOpenHistory) UnregisteredIsLoss() bool {
	return h.UnregisteredProductID == ""
}

// TotalCards total de cartas registradas y no registradas.
func (h *PackOpenHistory) TotalCards() int64 {
	n := h.UnregisteredQuantity
	for _, c := range h.Cards {
		n += c.Quantity
	}
	return n
}
