package inventory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
)

// Take cantidad a tomar de un lote.
type Take struct {
	Lot      *entity.CostLot
	Quantity int64
}

// Record convierte la toma en el registro mayorista devuelto al llamador.
func (t Take) Record() entity.LotRecord {
	return entity.LotRecord{
		LotID:     t.Lot.ID,
		UnitPrice: t.Lot.UnitPrice,
		ArrivedAt: t.Lot.ArrivedAt,
		Quantity:  t.Quantity,
	}
}

// OrderLots devuelve una copia de lots en el orden de consumo del preset.
// Empates (misma clave) se resuelven por orden de creación para que la asignación sea determinista.
func OrderLots(order entity.AllocationOrder, lots []*entity.CostLot) []*entity.CostLot {
	sorted := make([]*entity.CostLot, len(lots))
	copy(sorted, lots)
	column := order.Column()
	desc := order.Descending()
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		var c int
		if column == entity.ColumnUnitPrice {
			c = a.UnitPrice.Cmp(b.UnitPrice)
		} else {
			c = a.ArrivedAt.Compare(b.ArrivedAt)
		}
		if desc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return a.Sequence < b.Sequence
	})
	return sorted
}

// OrderByCreation ordena por creación; reverse = del más reciente al más antiguo.
// Se usa para lotes retenidos: se devuelven en orden inverso al que se retuvieron.
func OrderByCreation(lots []*entity.CostLot, reverse bool) []*entity.CostLot {
	sorted := make([]*entity.CostLot, len(lots))
	copy(sorted, lots)
	sort.SliceStable(sorted, func(i, j int) bool {
		if reverse {
			return sorted[i].Sequence > sorted[j].Sequence
		}
		return sorted[i].Sequence < sorted[j].Sequence
	})
	return sorted
}

// Plan consume lots en el orden recibido hasta cubrir quantity, partiendo el último lote si sobra.
// Devuelve las tomas y la cantidad que no se pudo cubrir (0 si alcanzó).
func Plan(lots []*entity.CostLot, quantity int64) ([]Take, int64) {
	var takes []Take
	rest := quantity
	for _, lot := range lots {
		if rest == 0 {
			break
		}
		if lot.RemainingQuantity <= 0 {
			continue
		}
		n := min(lot.RemainingQuantity, rest)
		takes = append(takes, Take{Lot: lot, Quantity: n})
		rest -= n
	}
	return takes, rest
}

// FilterPrice devuelve solo los lotes con el precio indicado, conservando el orden.
func FilterPrice(lots []*entity.CostLot, price decimal.Decimal) []*entity.CostLot {
	var out []*entity.CostLot
	for _, l := range lots {
		if l.UnitPrice.Equal(price) {
			out = append(out, l)
		}
	}
	return out
}

// PreferArrival pone primero los lotes con llegada at y luego el resto, sin alterar el orden
// relativo de cada grupo.
func PreferArrival(lots []*entity.CostLot, at time.Time) []*entity.CostLot {
	out := make([]*entity.CostLot, 0, len(lots))
	for _, l := range lots {
		if l.ArrivedAt.Equal(at) {
			out = append(out, l)
		}
	}
	for _, l := range lots {
		if !l.ArrivedAt.Equal(at) {
			out = append(out, l)
		}
	}
	return out
}

// Records convierte las tomas en registros mayoristas.
func Records(takes []Take) []entity.LotRecord {
	records := make([]entity.LotRecord, 0, len(takes))
	for _, t := range takes {
		records = append(records, t.Record())
	}
	return records
}
