package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo historial de movimientos sobre PostgreSQL. Los registros mayoristas van en JSONB.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const stockMovementColumns = `id, store_id, product_id, source_kind, source_id, item_count, resulting_stock, unit_price, lots, description, staff_id, created_at`

// Create persiste un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	lots, err := json.Marshal(m.Lots)
	if err != nil {
		return fmt.Errorf("encode movement lots: %w", err)
	}
	staffID := (*string)(nil)
	if m.StaffID != "" {
		staffID = &m.StaffID
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO stock_movements (`+stockMovementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		m.ID, m.StoreID, m.ProductID, m.SourceKind.String(), m.SourceID, m.ItemCount, m.ResultingStock,
		m.UnitPrice, lots, m.Description, staffID, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

func (r *StockMovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var kind string
		var lots []byte
		var staffID *string
		if err := rows.Scan(&m.ID, &m.StoreID, &m.ProductID, &kind, &m.SourceID, &m.ItemCount, &m.ResultingStock,
			&m.UnitPrice, &lots, &m.Description, &staffID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		if m.SourceKind, err = entity.ParseSourceKind(kind); err != nil {
			return nil, fmt.Errorf("stock movement %s: %w", m.ID, err)
		}
		if err := json.Unmarshal(lots, &m.Lots); err != nil {
			return nil, fmt.Errorf("decode movement lots: %w", err)
		}
		if staffID != nil {
			m.StaffID = *staffID
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// ListByProduct más reciente primero.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list(ctx, `SELECT `+stockMovementColumns+` FROM stock_movements
		WHERE product_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`,
		productID, limit, offset)
}

func (r *StockMovementRepo) ListBySource(ctx context.Context, kind entity.SourceKind, sourceID string) ([]*entity.StockMovement, error) {
	return r.list(ctx, `SELECT `+stockMovementColumns+` FROM stock_movements
		WHERE source_kind = $1 AND source_id = $2 ORDER BY created_at, id`,
		kind.String(), sourceID)
}
