package entity

import "time"

// KeepRule regla de conservación del precio mayorista al mover stock.
type KeepRule string

const (
	KeepIndividual KeepRule = "individual" // conserva cada lote tal cual
	KeepAverage    KeepRule = "average"    // funde los lotes en un promedio
)

// Valid indica si la regla es conocida.
func (r KeepRule) Valid() bool {
	return r == KeepIndividual || r == KeepAverage
}

// AllocationOrder orden de consumo de lotes, expuesto como cuatro presets con nombre.
type AllocationOrder string

const (
	OrderOldestArrivalFirst AllocationOrder = "oldest_arrival_first" // FIFO
	OrderNewestArrivalFirst AllocationOrder = "newest_arrival_first" // LIFO
	OrderHighestCostFirst   AllocationOrder = "highest_cost_first"
	OrderLowestCostFirst    AllocationOrder = "lowest_cost_first"
)

// AllocationColumn columna por la que se ordenan los lotes.
type AllocationColumn string

const (
	ColumnArrivedAt AllocationColumn = "arrived_at"
	ColumnUnitPrice AllocationColumn = "unit_price"
)

// Valid indica si el preset es conocido.
func (o AllocationOrder) Valid() bool {
	switch o {
	case OrderOldestArrivalFirst, OrderNewestArrivalFirst, OrderHighestCostFirst, OrderLowestCostFirst:
		return true
	}
	return false
}

// Column devuelve la columna de ordenamiento del preset.
func (o AllocationOrder) Column() AllocationColumn {
	switch o {
	case OrderHighestCostFirst, OrderLowestCostFirst:
		return ColumnUnitPrice
	}
	return ColumnArrivedAt
}

// Descending indica si el preset recorre la columna de mayor a menor.
func (o AllocationOrder) Descending() bool {
	return o == OrderNewestArrivalFirst || o == OrderHighestCostFirst
}

// LedgerPolicy configuración explícita con la que opera cada llamada al libro.
type LedgerPolicy struct {
	KeepRule KeepRule        `json:"keep_rule"`
	Order    AllocationOrder `json:"allocation_order"`
}

// DefaultLedgerPolicy: lotes individuales, primero en llegar primero en salir.
func DefaultLedgerPolicy() LedgerPolicy {
	return LedgerPolicy{KeepRule: KeepIndividual, Order: OrderOldestArrivalFirst}
}

// Valid indica si ambos campos son conocidos.
func (p LedgerPolicy) Valid() bool {
	return p.KeepRule.Valid() && p.Order.Valid()
}

// StoreSettings configuración del libro a nivel tienda.
type StoreSettings struct {
	StoreID   string
	Policy    LedgerPolicy
	UpdatedAt time.Time
}
