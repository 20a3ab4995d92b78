package inventory

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
)

// ValidUnitPrice: precio mayorista en unidades enteras de moneda y no negativo.
func ValidUnitPrice(p decimal.Decimal) bool {
	return !p.IsNegative() && p.Equal(p.Floor())
}

// WeightedAverage implementa el costo promedio ponderado (servicio de dominio).
// Promedio = Σ(Cantidad × Precio) / Σ Cantidad, redondeado a la unidad.
func WeightedAverage(records []entity.LotRecord) decimal.Decimal {
	count := entity.TotalQuantity(records)
	if count <= 0 {
		return decimal.Zero
	}
	return entity.TotalCost(records).Div(decimal.NewFromInt(count)).Round(0)
}

// SplitEvenly reparte total entre count unidades sin perder valor: base = ⌊total/count⌋ y las
// primeras (total mod count) unidades llevan base+1. Devuelve como mucho dos registros.
func SplitEvenly(total decimal.Decimal, count int64, arrivedAt time.Time) []entity.LotRecord {
	if count <= 0 {
		return nil
	}
	n := decimal.NewFromInt(count)
	base := total.Div(n).Floor()
	remain := total.Sub(base.Mul(n)).IntPart()
	var records []entity.LotRecord
	if remain > 0 {
		records = append(records, entity.LotRecord{UnitPrice: base.Add(decimal.NewFromInt(1)), ArrivedAt: arrivedAt, Quantity: remain})
	}
	if count-remain > 0 {
		records = append(records, entity.LotRecord{UnitPrice: base, ArrivedAt: arrivedAt, Quantity: count - remain})
	}
	return records
}

// AverageRecords funde los registros en un promedio exacto (regla de conservación "average").
func AverageRecords(records []entity.LotRecord, arrivedAt time.Time) []entity.LotRecord {
	return SplitEvenly(entity.TotalCost(records), entity.TotalQuantity(records), arrivedAt)
}

// Summarize calcula promedio, mínimo, máximo y total mayorista de los lotes con remanente.
func Summarize(lots []*entity.CostLot) entity.WholesaleSummary {
	var s entity.WholesaleSummary
	var count int64
	for _, l := range lots {
		if l.RemainingQuantity <= 0 {
			continue
		}
		if count == 0 || l.UnitPrice.LessThan(s.Minimum) {
			s.Minimum = l.UnitPrice
		}
		if count == 0 || l.UnitPrice.GreaterThan(s.Maximum) {
			s.Maximum = l.UnitPrice
		}
		count += l.RemainingQuantity
		s.Total = s.Total.Add(l.Value())
	}
	if count > 0 {
		s.Average = s.Total.Div(decimal.NewFromInt(count)).Round(0)
	}
	return s
}

// LotsToRecords convierte lotes completos (remanente actual) en registros.
func LotsToRecords(lots []*entity.CostLot) []entity.LotRecord {
	records := make([]entity.LotRecord, 0, len(lots))
	for _, l := range lots {
		if l.RemainingQuantity <= 0 {
			continue
		}
		records = append(records, entity.LotRecord{
			LotID:     l.ID,
			UnitPrice: l.UnitPrice,
			ArrivedAt: l.ArrivedAt,
			Quantity:  l.RemainingQuantity,
		})
	}
	return records
}
