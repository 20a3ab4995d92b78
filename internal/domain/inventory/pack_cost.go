package inventory

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
)

// PackOutput salida de una apertura (producto de cartas o remanente no registrado).
// UnitPrice nil = recibe una parte del margen.
type PackOutput struct {
	Quantity  int64
	UnitPrice *decimal.Decimal
}

// PackCostPlan resultado del reparto: Records[i] corresponde a outputs[i].
type PackCostPlan struct {
	Records     [][]entity.LotRecord
	Unallocated decimal.Decimal
}

// DistributePackCost reparte el costo consumido de la caja entre las cartas producidas.
// Las salidas con precio indicado toman Cantidad × Precio; el margen restante (mínimo 0)
// se reparte en partes enteras entre las unidades sin precio. Sin tales unidades el margen
// queda como no asignado.
func DistributePackCost(consumed decimal.Decimal, outputs []PackOutput, arrivedAt time.Time) PackCostPlan {
	plan := PackCostPlan{Records: make([][]entity.LotRecord, len(outputs))}

	explicit := decimal.Zero
	var autoUnits int64
	for i, o := range outputs {
		if o.Quantity <= 0 {
			continue
		}
		if o.UnitPrice != nil {
			explicit = explicit.Add(o.UnitPrice.Mul(decimal.NewFromInt(o.Quantity)))
			plan.Records[i] = []entity.LotRecord{{UnitPrice: *o.UnitPrice, ArrivedAt: arrivedAt, Quantity: o.Quantity}}
			continue
		}
		autoUnits += o.Quantity
	}

	margin := consumed.Sub(explicit)
	if margin.IsNegative() {
		margin = decimal.Zero
	}
	if autoUnits == 0 {
		plan.Unallocated = margin
		return plan
	}

	// Las unidades del reparto se asignan en el orden de las salidas.
	pool := SplitEvenly(margin, autoUnits, arrivedAt)
	idx := 0
	for i, o := range outputs {
		if o.Quantity <= 0 || o.UnitPrice != nil {
			continue
		}
		need := o.Quantity
		for need > 0 && idx < len(pool) {
			n := min(need, pool[idx].Quantity)
			plan.Records[i] = append(plan.Records[i], entity.LotRecord{
				UnitPrice: pool[idx].UnitPrice,
				ArrivedAt: arrivedAt,
				Quantity:  n,
			})
			pool[idx].Quantity -= n
			need -= n
			if pool[idx].Quantity == 0 {
				idx++
			}
		}
	}
	return plan
}
