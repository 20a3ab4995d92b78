package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/repository"
)

var (
	_ repository.ProductRepository       = (*ProductRepo)(nil)
	_ repository.CostLotRepository       = (*CostLotRepo)(nil)
	_ repository.StockMovementRepository = (*StockMovementRepo)(nil)
	_ repository.PackOpenRepository      = (*PackOpenRepo)(nil)
	_ repository.BundleRepository        = (*BundleRepo)(nil)
	_ repository.StoreSettingsRepository = (*StoreSettingsRepo)(nil)
)

// ProductRepo productos en memoria.
type ProductRepo struct {
	s    *Store
	inTx bool
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.s.write(r.inTx, func(t *tables) error {
		if product.ID == "" {
			product.ID = uuid.New().String()
		}
		if _, ok := t.products[product.ID]; ok {
			return domain.ErrDuplicate
		}
		t.products[product.ID] = *product
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	r.s.read(func(t *tables) {
		if p, ok := t.products[id]; ok {
			out = &p
		}
	})
	return out, nil
}

// GetForUpdate igual que GetByID: la transacción ya es exclusiva.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) ListByStore(_ context.Context, storeID string, limit, offset int) ([]*entity.Product, error) {
	var list []*entity.Product
	r.s.read(func(t *tables) {
		for _, p := range t.products {
			if p.StoreID == storeID && !p.Deleted {
				p := p
				list = append(list, &p)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return page(list, limit, offset), nil
}

func (r *ProductRepo) update(id string, fn func(p *entity.Product)) error {
	return r.s.write(r.inTx, func(t *tables) error {
		p, ok := t.products[id]
		if !ok {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
		fn(&p)
		p.UpdatedAt = time.Now()
		t.products[id] = p
		return nil
	})
}

func (r *ProductRepo) UpdateStock(_ context.Context, id string, stockNumber int64) error {
	return r.update(id, func(p *entity.Product) { p.StockNumber = stockNumber })
}

func (r *ProductRepo) UpdateWholesaleSummary(_ context.Context, id string, summary entity.WholesaleSummary) error {
	return r.update(id, func(p *entity.Product) { p.Wholesale = summary })
}

func (r *ProductRepo) SoftDelete(_ context.Context, id string) error {
	return r.update(id, func(p *entity.Product) { p.Deleted = true })
}

// CostLotRepo lotes en memoria, en orden de creación.
type CostLotRepo struct {
	s    *Store
	inTx bool
}

func (r *CostLotRepo) Create(_ context.Context, lot *entity.CostLot) error {
	return r.s.write(r.inTx, func(t *tables) error {
		if lot.ID == "" {
			lot.ID = uuid.New().String()
		}
		if _, ok := t.lots[lot.ID]; ok {
			return domain.ErrDuplicate
		}
		t.seq++
		if lot.Sequence == 0 {
			lot.Sequence = t.seq
		}
		t.lots[lot.ID] = *lot
		t.lotOrder = append(t.lotOrder, lot.ID)
		return nil
	})
}

func (r *CostLotRepo) filter(keep func(l *entity.CostLot) bool) []*entity.CostLot {
	var list []*entity.CostLot
	r.s.read(func(t *tables) {
		for _, id := range t.lotOrder {
			l := t.lots[id]
			if keep(&l) {
				list = append(list, &l)
			}
		}
	})
	return list
}

func (r *CostLotRepo) ListForUpdate(_ context.Context, productID string, scope entity.LotScope) ([]*entity.CostLot, error) {
	return r.filter(func(l *entity.CostLot) bool {
		return l.ProductID == productID && l.Scope == scope && l.RemainingQuantity > 0
	}), nil
}

func (r *CostLotRepo) ListScopeForUpdate(_ context.Context, storeID string, scope entity.LotScope) ([]*entity.CostLot, error) {
	return r.filter(func(l *entity.CostLot) bool {
		return l.StoreID == storeID && l.Scope == scope && l.RemainingQuantity > 0
	}), nil
}

func (r *CostLotRepo) ListByProduct(_ context.Context, productID string, includeEmpty bool) ([]*entity.CostLot, error) {
	return r.filter(func(l *entity.CostLot) bool {
		return l.ProductID == productID && l.Scope.IsLive() && (includeEmpty || l.RemainingQuantity > 0)
	}), nil
}

func (r *CostLotRepo) UpdateRemaining(_ context.Context, id string, remaining int64) error {
	if remaining < 0 {
		return fmt.Errorf("%w: remanente %d en lote %s", domain.ErrLedgerInconsistency, remaining, id)
	}
	return r.s.write(r.inTx, func(t *tables) error {
		l, ok := t.lots[id]
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrLotNotFound, id)
		}
		l.RemainingQuantity = remaining
		t.lots[id] = l
		return nil
	})
}

// StockMovementRepo historial en memoria (solo inserción).
type StockMovementRepo struct {
	s    *Store
	inTx bool
}

func (r *StockMovementRepo) Create(_ context.Context, movement *entity.StockMovement) error {
	return r.s.write(r.inTx, func(t *tables) error {
		if movement.ID == "" {
			movement.ID = uuid.New().String()
		}
		m := *movement
		m.Lots = append([]entity.LotRecord(nil), movement.Lots...)
		t.movements = append(t.movements, m)
		return nil
	})
}

// ListByProduct más reciente primero.
func (r *StockMovementRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	r.s.read(func(t *tables) {
		for i := len(t.movements) - 1; i >= 0; i-- {
			if m := t.movements[i]; m.ProductID == productID {
				list = append(list, &m)
			}
		}
	})
	return page(list, limit, offset), nil
}

// ListBySource en orden de inserción.
func (r *StockMovementRepo) ListBySource(_ context.Context, kind entity.SourceKind, sourceID string) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	r.s.read(func(t *tables) {
		for _, m := range t.movements {
			if m.SourceKind == kind && m.SourceID == sourceID {
				m := m
				list = append(list, &m)
			}
		}
	})
	return list, nil
}

// PackOpenRepo aperturas en memoria.
type PackOpenRepo struct {
	s    *Store
	inTx bool
}

func (r *PackOpenRepo) Create(_ context.Context, history *entity.PackOpenHistory) error {
	return r.s.write(r.inTx, func(t *tables) error {
		if history.ID == "" {
			history.ID = uuid.New().String()
		}
		if _, ok := t.packOpenings[history.ID]; ok {
			return domain.ErrDuplicate
		}
		h := *history
		h.Cards = append([]entity.PackOpenCard(nil), history.Cards...)
		t.packOpenings[h.ID] = h
		return nil
	})
}

func (r *PackOpenRepo) GetByID(_ context.Context, id string) (*entity.PackOpenHistory, error) {
	var out *entity.PackOpenHistory
	r.s.read(func(t *tables) {
		if h, ok := t.packOpenings[id]; ok {
			h.Cards = append([]entity.PackOpenCard(nil), h.Cards...)
			out = &h
		}
	})
	return out, nil
}

func (r *PackOpenRepo) GetForUpdate(ctx context.Context, id string) (*entity.PackOpenHistory, error) {
	return r.GetByID(ctx, id)
}

func (r *PackOpenRepo) MarkRolledBack(_ context.Context, id string, at time.Time, description string) error {
	return r.s.write(r.inTx, func(t *tables) error {
		h, ok := t.packOpenings[id]
		if !ok {
			return fmt.Errorf("%w: apertura %s", domain.ErrNotFound, id)
		}
		if h.Status != entity.PackOpenFinished {
			return fmt.Errorf("%w: apertura %s", domain.ErrAlreadyRolledBack, id)
		}
		h.Status = entity.PackOpenRollback
		h.RolledBackAt = &at
		h.RollbackDescription = description
		t.packOpenings[id] = h
		return nil
	})
}

// BundleRepo composición de bundles en memoria.
type BundleRepo struct {
	s    *Store
	inTx bool
}

func (r *BundleRepo) ListComponents(_ context.Context, bundleProductID string) ([]entity.BundleComponent, error) {
	var out []entity.BundleComponent
	r.s.read(func(t *tables) {
		out = append(out, t.bundles[bundleProductID]...)
	})
	return out, nil
}

func (r *BundleRepo) ReplaceComponents(_ context.Context, bundleProductID string, components []entity.BundleComponent) error {
	return r.s.write(r.inTx, func(t *tables) error {
		t.bundles[bundleProductID] = append([]entity.BundleComponent(nil), components...)
		return nil
	})
}

// StoreSettingsRepo configuración por tienda en memoria.
type StoreSettingsRepo struct {
	s *Store
}

func (r *StoreSettingsRepo) Get(_ context.Context, storeID string) (*entity.StoreSettings, error) {
	var out *entity.StoreSettings
	r.s.read(func(t *tables) {
		if st, ok := t.settings[storeID]; ok {
			out = &st
		}
	})
	return out, nil
}

func (r *StoreSettingsRepo) Upsert(_ context.Context, settings *entity.StoreSettings) error {
	return r.s.write(false, func(t *tables) error {
		t.settings[settings.StoreID] = *settings
		return nil
	})
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
