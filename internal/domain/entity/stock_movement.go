package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockMovement fila inmutable del historial de movimientos de un producto.
// SourceID referencia la operación pareja (producto contrario de un traslado, apertura, transacción...).
type StockMovement struct {
	ID             string
	StoreID        string
	ProductID      string
	SourceKind     SourceKind
	SourceID       string
	ItemCount      int64 // positivo = aumento, negativo = disminución
	ResultingStock int64
	UnitPrice      decimal.Decimal // promedio ponderado redondeado de Lots
	Lots           []LotRecord
	Description    string
	StaffID        string
	CreatedAt      time.Time
}

// TotalCost costo total de los lotes del movimiento.
func (m *StockMovement) TotalCost() decimal.Decimal {
	return TotalCost(m.Lots)
}
