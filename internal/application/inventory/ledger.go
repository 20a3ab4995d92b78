package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/inventory"
)

// infiniteStockUnitPrice precio del registro sintético que devuelve una salida de stock ilimitado.
var infiniteStockUnitPrice = decimal.NewFromInt(1)

// StockLedger aplica aumentos y disminuciones sobre los lotes de costo de un producto.
// Todas sus operaciones corren dentro de la transacción del llamador (repos atados a la tx)
// y reciben la LedgerPolicy de forma explícita.
type StockLedger struct {
	now func() time.Time
}

// NewStockLedger construye el libro. now nil = time.Now.
func NewStockLedger(now func() time.Time) *StockLedger {
	if now == nil {
		now = time.Now
	}
	return &StockLedger{now: now}
}

// IncreaseInput entrada de un aumento de stock.
// Lots permite indicar los registros mayoristas (procedencia); si está vacío se crea un único
// registro con UnitPrice y ArrivedAt (ahora si es nil).
type IncreaseInput struct {
	StoreID     string
	ProductID   string
	Quantity    int64
	UnitPrice   decimal.Decimal
	ArrivedAt   *time.Time
	Lots        []entity.LotRecord
	Kind        entity.SourceKind
	SourceID    string
	Description string
	StaffID     string
}

// IncreaseResult lotes vivos creados o incrementados y stock resultante.
type IncreaseResult struct {
	Product        *entity.Product
	Movement       *entity.StockMovement
	Lots           []entity.LotRecord
	ResultingStock int64
}

// DecreaseInput entrada de una disminución de stock.
type DecreaseInput struct {
	StoreID     string
	ProductID   string
	Quantity    int64
	Kind        entity.SourceKind
	SourceID    string
	Description string
	StaffID     string
}

// ComponentLots lotes de un componente liberados de un bundle.
type ComponentLots struct {
	ProductID string
	Lots      []entity.LotRecord
}

// DecreaseResult registros consumidos (en orden de consumo) y stock resultante.
type DecreaseResult struct {
	Product        *entity.Product
	Movement       *entity.StockMovement
	Consumed       []entity.LotRecord
	ResultingStock int64
	Components     []ComponentLots // solo bundle_release sobre un bundle
}

// Increase crea lotes vivos (o restaura lotes retenidos), suma stock y registra el movimiento.
func (l *StockLedger) Increase(ctx context.Context, repos Repositories, policy entity.LedgerPolicy, in IncreaseInput) (*IncreaseResult, error) {
	effect, err := kindEffect(in.Kind, in.SourceID)
	if err != nil {
		return nil, err
	}
	if effect.Increase == entity.IncreaseNotAllowed {
		return nil, fmt.Errorf("%w: %s no admite aumentos", domain.ErrInvalidInput, in.Kind)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: aumento de %d unidades", domain.ErrInvalidQuantity, in.Quantity)
	}
	if !policy.Valid() {
		return nil, fmt.Errorf("%w: política de libro inválida", domain.ErrInvalidInput)
	}

	product, err := l.lockProduct(ctx, repos, in.StoreID, in.ProductID)
	if err != nil {
		return nil, err
	}
	// El valor de un bundle sale de sus componentes retenidos: solo entra armándolo o restaurándolo.
	if product.Category == entity.CategoryBundle && in.Kind != entity.SourceBundle && effect.Increase != entity.IncreaseRestore {
		return nil, fmt.Errorf("%w: el bundle %s solo aumenta al armarse", domain.ErrInvalidInput, product.ID)
	}
	now := l.now()

	var records []entity.LotRecord
	if effect.Increase == entity.IncreaseRestore {
		if product.Tracked() {
			from := entity.ParkedScope(effect.Scope, in.SourceID)
			records, err = l.moveParked(ctx, repos, product.StoreID, product.ID, from, nil, in.Quantity, true)
			if err != nil {
				return nil, err
			}
		}
	} else {
		records, err = incomingRecords(in, now)
		if err != nil {
			return nil, err
		}
	}

	res := &IncreaseResult{Product: product}
	if product.Tracked() {
		placed, err := l.place(ctx, repos, policy, product, records, now)
		if err != nil {
			return nil, err
		}
		if effect.Increase == entity.IncreaseCreateAndPark {
			if err := l.park(ctx, repos, product, entity.ParkedScope(effect.Scope, in.SourceID), records, now); err != nil {
				return nil, err
			}
		}
		product.StockNumber += in.Quantity
		if err := repos.Products.UpdateStock(ctx, product.ID, product.StockNumber); err != nil {
			return nil, err
		}
		if product.Category == entity.CategoryBundle {
			if effect.Increase == entity.IncreaseRestore {
				if err := l.returnComponents(ctx, repos, product, entity.ParkedScope(effect.Scope, in.SourceID), in.Quantity); err != nil {
					return nil, err
				}
			}
			if placed, err = l.rebalanceBundle(ctx, repos, product, now); err != nil {
				return nil, err
			}
		}
		if err := l.refreshSummary(ctx, repos, product); err != nil {
			return nil, err
		}
		res.Lots = placed
	}

	mov, err := l.record(ctx, repos, product, in.Kind, in.SourceID, in.Quantity, records, in.Description, in.StaffID, now)
	if err != nil {
		return nil, err
	}
	res.Movement = mov
	res.ResultingStock = product.StockNumber
	return res, nil
}

// Decrease consume lotes según la política, resta stock y registra el movimiento.
// Devuelve los registros consumidos para que el llamador los traslade a otro producto.
func (l *StockLedger) Decrease(ctx context.Context, repos Repositories, policy entity.LedgerPolicy, in DecreaseInput) (*DecreaseResult, error) {
	effect, err := kindEffect(in.Kind, in.SourceID)
	if err != nil {
		return nil, err
	}
	if effect.Decrease == entity.DecreaseNotAllowed {
		return nil, fmt.Errorf("%w: %s no admite disminuciones", domain.ErrInvalidInput, in.Kind)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: disminución de %d unidades", domain.ErrInvalidQuantity, in.Quantity)
	}
	if !policy.Valid() {
		return nil, fmt.Errorf("%w: política de libro inválida", domain.ErrInvalidInput)
	}

	product, err := l.lockProduct(ctx, repos, in.StoreID, in.ProductID)
	if err != nil {
		return nil, err
	}
	now := l.now()
	res := &DecreaseResult{Product: product}

	// Stock ilimitado: no hay lotes, se devuelve un registro sintético.
	if !product.Tracked() {
		res.Consumed = []entity.LotRecord{{UnitPrice: infiniteStockUnitPrice, ArrivedAt: now, Quantity: in.Quantity}}
		mov, err := l.record(ctx, repos, product, in.Kind, in.SourceID, -in.Quantity, res.Consumed, in.Description, in.StaffID, now)
		if err != nil {
			return nil, err
		}
		res.Movement = mov
		res.ResultingStock = product.StockNumber
		return res, nil
	}

	if product.StockNumber < in.Quantity {
		return nil, fmt.Errorf("%w: producto %s tiene %d, se piden %d", domain.ErrInsufficientStock, product.ID, product.StockNumber, in.Quantity)
	}

	var consumed []entity.LotRecord
	if effect.Decrease == entity.DecreaseReverseParked {
		consumed, err = l.consumeAtParkedPrices(ctx, repos, policy, product, entity.ParkedScope(effect.Scope, in.SourceID), in.Quantity)
	} else {
		consumed, err = l.consumeLive(ctx, repos, policy, product, in.Quantity)
	}
	if err != nil {
		return nil, err
	}
	if effect.Decrease == entity.DecreaseConsumeAndPark {
		if err := l.park(ctx, repos, product, entity.ParkedScope(effect.Scope, in.SourceID), consumed, now); err != nil {
			return nil, err
		}
	}

	product.StockNumber -= in.Quantity
	if err := repos.Products.UpdateStock(ctx, product.ID, product.StockNumber); err != nil {
		return nil, err
	}

	if product.Category == entity.CategoryBundle {
		components, err := l.takeComponents(ctx, repos, product, in, effect)
		if err != nil {
			return nil, err
		}
		res.Components = components
		if _, err := l.rebalanceBundle(ctx, repos, product, now); err != nil {
			return nil, err
		}
	}

	if product.IsSpecialPriceProduct && product.StockNumber <= 0 && !product.Deleted {
		if err := repos.Products.SoftDelete(ctx, product.ID); err != nil {
			return nil, err
		}
		product.Deleted = true
	}
	if err := l.refreshSummary(ctx, repos, product); err != nil {
		return nil, err
	}

	mov, err := l.record(ctx, repos, product, in.Kind, in.SourceID, -in.Quantity, consumed, in.Description, in.StaffID, now)
	if err != nil {
		return nil, err
	}
	res.Movement = mov
	res.Consumed = consumed
	res.ResultingStock = product.StockNumber
	return res, nil
}

func kindEffect(kind entity.SourceKind, sourceID string) (entity.KindEffect, error) {
	effect, ok := kind.Effect()
	if !ok {
		return effect, fmt.Errorf("%w: source kind %s", domain.ErrInvalidInput, kind)
	}
	if effect.NeedsSourceID() && sourceID == "" {
		return effect, fmt.Errorf("%w: %s requiere source_id", domain.ErrInvalidInput, kind)
	}
	return effect, nil
}

func (l *StockLedger) lockProduct(ctx context.Context, repos Repositories, storeID, productID string) (*entity.Product, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: product_id requerido", domain.ErrInvalidInput)
	}
	product, err := repos.Products.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil || (storeID != "" && product.StoreID != storeID) {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	return product, nil
}

func incomingRecords(in IncreaseInput, now time.Time) ([]entity.LotRecord, error) {
	if len(in.Lots) == 0 {
		if !inventory.ValidUnitPrice(in.UnitPrice) {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidPrice, in.UnitPrice)
		}
		arrivedAt := now
		if in.ArrivedAt != nil {
			arrivedAt = *in.ArrivedAt
		}
		return []entity.LotRecord{{UnitPrice: in.UnitPrice, ArrivedAt: arrivedAt, Quantity: in.Quantity}}, nil
	}
	records := make([]entity.LotRecord, 0, len(in.Lots))
	for _, r := range in.Lots {
		if r.Quantity <= 0 {
			return nil, fmt.Errorf("%w: registro mayorista con %d unidades", domain.ErrInvalidQuantity, r.Quantity)
		}
		if !inventory.ValidUnitPrice(r.UnitPrice) {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidPrice, r.UnitPrice)
		}
		if r.ArrivedAt.IsZero() {
			r.ArrivedAt = now
		}
		records = append(records, r)
	}
	if total := entity.TotalQuantity(records); total != in.Quantity {
		return nil, fmt.Errorf("%w: los registros suman %d y el aumento es de %d", domain.ErrInvalidQuantity, total, in.Quantity)
	}
	return records, nil
}

// place crea los lotes vivos según la regla de conservación.
func (l *StockLedger) place(ctx context.Context, repos Repositories, policy entity.LedgerPolicy, product *entity.Product, records []entity.LotRecord, now time.Time) ([]entity.LotRecord, error) {
	live, err := repos.Lots.ListForUpdate(ctx, product.ID, entity.LiveScope)
	if err != nil {
		return nil, err
	}

	if policy.KeepRule == entity.KeepAverage {
		merged := append(inventory.LotsToRecords(live), records...)
		for _, lot := range live {
			if err := repos.Lots.UpdateRemaining(ctx, lot.ID, 0); err != nil {
				return nil, err
			}
		}
		return l.createLots(ctx, repos, product, entity.LiveScope, inventory.AverageRecords(merged, now), now)
	}

	placed := make([]entity.LotRecord, 0, len(records))
	for _, r := range records {
		var target *entity.CostLot
		for _, lot := range live {
			if lot.UnitPrice.Equal(r.UnitPrice) && lot.ArrivedAt.Equal(r.ArrivedAt) {
				target = lot
				break
			}
		}
		if target == nil {
			created, err := l.createLots(ctx, repos, product, entity.LiveScope, []entity.LotRecord{r}, now)
			if err != nil {
				return nil, err
			}
			placed = append(placed, created...)
			live = append(live, &entity.CostLot{ID: created[0].LotID, UnitPrice: r.UnitPrice, ArrivedAt: r.ArrivedAt, RemainingQuantity: r.Quantity})
			continue
		}
		target.RemainingQuantity += r.Quantity
		if err := repos.Lots.UpdateRemaining(ctx, target.ID, target.RemainingQuantity); err != nil {
			return nil, err
		}
		placed = append(placed, entity.LotRecord{LotID: target.ID, UnitPrice: r.UnitPrice, ArrivedAt: r.ArrivedAt, Quantity: r.Quantity})
	}
	return placed, nil
}

func (l *StockLedger) createLots(ctx context.Context, repos Repositories, product *entity.Product, scope entity.LotScope, records []entity.LotRecord, now time.Time) ([]entity.LotRecord, error) {
	created := make([]entity.LotRecord, 0, len(records))
	for _, r := range records {
		lot := &entity.CostLot{
			StoreID:           product.StoreID,
			ProductID:         product.ID,
			Scope:             scope,
			UnitPrice:         r.UnitPrice,
			ArrivedAt:         r.ArrivedAt,
			RemainingQuantity: r.Quantity,
			CreatedAt:         now,
		}
		if err := repos.Lots.Create(ctx, lot); err != nil {
			return nil, err
		}
		r.LotID = lot.ID
		created = append(created, r)
	}
	return created, nil
}

// park deja una copia de los registros retenida bajo la fuente.
func (l *StockLedger) park(ctx context.Context, repos Repositories, product *entity.Product, scope entity.LotScope, records []entity.LotRecord, now time.Time) error {
	_, err := l.createLots(ctx, repos, product, scope, records, now)
	return err
}

// consumeLive consume lotes vivos en el orden de la política, partiendo el último.
func (l *StockLedger) consumeLive(ctx context.Context, repos Repositories, policy entity.LedgerPolicy, product *entity.Product, quantity int64) ([]entity.LotRecord, error) {
	live, err := repos.Lots.ListForUpdate(ctx, product.ID, entity.LiveScope)
	if err != nil {
		return nil, err
	}
	takes, short := inventory.Plan(inventory.OrderLots(policy.Order, live), quantity)
	if short > 0 {
		return nil, fmt.Errorf("%w: producto %s con stock %d no tiene lotes para %d unidades", domain.ErrLedgerInconsistency, product.ID, product.StockNumber, short)
	}
	if err := applyTakes(ctx, repos, takes); err != nil {
		return nil, err
	}
	return inventory.Records(takes), nil
}

// consumeAtParkedPrices consume los lotes retenidos por la fuente y luego, por cada uno, lotes vivos
// de ese mismo precio, primero los de la misma llegada. Es la inversa de un aumento que dejó copia
// retenida. Con la regla average los vivos ya fueron re-promediados: se consume por cantidad.
func (l *StockLedger) consumeAtParkedPrices(ctx context.Context, repos Repositories, policy entity.LedgerPolicy, product *entity.Product, scope entity.LotScope, quantity int64) ([]entity.LotRecord, error) {
	parked, err := l.moveParked(ctx, repos, product.StoreID, product.ID, scope, nil, quantity, false)
	if err != nil {
		return nil, err
	}
	if policy.KeepRule == entity.KeepAverage {
		return l.consumeLive(ctx, repos, policy, product, entity.TotalQuantity(parked))
	}
	live, err := repos.Lots.ListForUpdate(ctx, product.ID, entity.LiveScope)
	if err != nil {
		return nil, err
	}
	ordered := inventory.OrderLots(policy.Order, live)
	var consumed []entity.LotRecord
	for _, p := range parked {
		candidates := inventory.PreferArrival(inventory.FilterPrice(ordered, p.UnitPrice), p.ArrivedAt)
		takes, short := inventory.Plan(candidates, p.Quantity)
		if short > 0 {
			return nil, fmt.Errorf("%w: producto %s sin %d unidades a precio %s", domain.ErrLotNotFound, product.ID, short, p.UnitPrice)
		}
		if err := applyTakes(ctx, repos, takes); err != nil {
			return nil, err
		}
		consumed = append(consumed, inventory.Records(takes)...)
	}
	return consumed, nil
}

// moveParked toma quantity unidades de los lotes del producto en from (en orden de creación o inverso)
// y, si to no es nil, los vuelve a retener allí con el mismo precio y llegada.
func (l *StockLedger) moveParked(ctx context.Context, repos Repositories, storeID, productID string, from entity.LotScope, to *entity.LotScope, quantity int64, reverse bool) ([]entity.LotRecord, error) {
	lots, err := repos.Lots.ListForUpdate(ctx, productID, from)
	if err != nil {
		return nil, err
	}
	takes, short := inventory.Plan(inventory.OrderByCreation(lots, reverse), quantity)
	if short > 0 {
		return nil, fmt.Errorf("%w: faltan %d unidades retenidas de %s en %s:%s", domain.ErrLotNotFound, short, productID, from.Kind, from.SourceID)
	}
	if err := applyTakes(ctx, repos, takes); err != nil {
		return nil, err
	}
	records := inventory.Records(takes)
	if to != nil {
		owner := &entity.Product{ID: productID, StoreID: storeID}
		if err := l.park(ctx, repos, owner, *to, records, l.now()); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func applyTakes(ctx context.Context, repos Repositories, takes []inventory.Take) error {
	for _, t := range takes {
		t.Lot.RemainingQuantity -= t.Quantity
		if err := repos.Lots.UpdateRemaining(ctx, t.Lot.ID, t.Lot.RemainingQuantity); err != nil {
			return err
		}
	}
	return nil
}

// takeComponents retira de la retención del bundle los componentes de las unidades que salen.
// En bundle_release se devuelven al llamador en orden inverso; en otros tipos viajan con la salida.
func (l *StockLedger) takeComponents(ctx context.Context, repos Repositories, bundle *entity.Product, in DecreaseInput, effect entity.KindEffect) ([]ComponentLots, error) {
	components, err := repos.Bundles.ListComponents(ctx, bundle.ID)
	if err != nil {
		return nil, err
	}
	from := entity.ParkedScope(entity.ScopeBundle, bundle.ID)
	release := in.Kind == entity.SourceBundleRelease
	var to *entity.LotScope
	if !release && effect.Decrease == entity.DecreaseConsumeAndPark {
		scope := entity.ParkedScope(effect.Scope, in.SourceID)
		to = &scope
	}
	var out []ComponentLots
	for _, c := range components {
		records, err := l.moveParked(ctx, repos, bundle.StoreID, c.ProductID, from, to, in.Quantity*c.Quantity, release)
		if err != nil {
			return nil, err
		}
		if release {
			out = append(out, ComponentLots{ProductID: c.ProductID, Lots: records})
		}
	}
	return out, nil
}

// returnComponents devuelve a la retención del bundle los componentes de unidades restauradas.
func (l *StockLedger) returnComponents(ctx context.Context, repos Repositories, bundle *entity.Product, from entity.LotScope, quantity int64) error {
	components, err := repos.Bundles.ListComponents(ctx, bundle.ID)
	if err != nil {
		return err
	}
	to := entity.ParkedScope(entity.ScopeBundle, bundle.ID)
	for _, c := range components {
		if _, err := l.moveParked(ctx, repos, bundle.StoreID, c.ProductID, from, &to, quantity*c.Quantity, true); err != nil {
			return err
		}
	}
	return nil
}

// rebalanceBundle rehace los lotes vivos del bundle con el valor retenido de sus componentes
// repartido sobre su stock.
func (l *StockLedger) rebalanceBundle(ctx context.Context, repos Repositories, bundle *entity.Product, now time.Time) ([]entity.LotRecord, error) {
	parked, err := repos.Lots.ListScopeForUpdate(ctx, bundle.StoreID, entity.ParkedScope(entity.ScopeBundle, bundle.ID))
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, lot := range parked {
		total = total.Add(lot.Value())
	}
	live, err := repos.Lots.ListForUpdate(ctx, bundle.ID, entity.LiveScope)
	if err != nil {
		return nil, err
	}
	for _, lot := range live {
		if err := repos.Lots.UpdateRemaining(ctx, lot.ID, 0); err != nil {
			return nil, err
		}
	}
	return l.createLots(ctx, repos, bundle, entity.LiveScope, inventory.SplitEvenly(total, bundle.StockNumber, now), now)
}

func (l *StockLedger) refreshSummary(ctx context.Context, repos Repositories, product *entity.Product) error {
	live, err := repos.Lots.ListByProduct(ctx, product.ID, false)
	if err != nil {
		return err
	}
	summary := inventory.Summarize(live)
	if err := repos.Products.UpdateWholesaleSummary(ctx, product.ID, summary); err != nil {
		return err
	}
	product.Wholesale = summary
	return nil
}

// record escribe la fila de historial. Solo se escriben tipos del conjunto cerrado.
func (l *StockLedger) record(ctx context.Context, repos Repositories, product *entity.Product, kind entity.SourceKind, sourceID string, delta int64, lots []entity.LotRecord, description, staffID string, now time.Time) (*entity.StockMovement, error) {
	mov := &entity.StockMovement{
		StoreID:        product.StoreID,
		ProductID:      product.ID,
		SourceKind:     kind,
		SourceID:       sourceID,
		ItemCount:      delta,
		ResultingStock: product.StockNumber,
		UnitPrice:      inventory.WeightedAverage(lots),
		Lots:           lots,
		Description:    description,
		StaffID:        staffID,
		CreatedAt:      now,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}
