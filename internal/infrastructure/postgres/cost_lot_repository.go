package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/repository"
)

var _ repository.CostLotRepository = (*CostLotRepo)(nil)

// CostLotRepo lotes de costo sobre PostgreSQL (usable con pool o tx).
type CostLotRepo struct {
	q Querier
}

// NewCostLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCostLotRepository(q Querier) *CostLotRepo {
	return &CostLotRepo{q: q}
}

const costLotColumns = `id, sequence, store_id, product_id, scope_kind, scope_source_id, unit_price, arrived_at, remaining_quantity, created_at`

// Create persiste el lote; la secuencia la asigna la BD.
func (r *CostLotRepo) Create(ctx context.Context, lot *entity.CostLot) error {
	if lot.ID == "" {
		lot.ID = uuid.New().String()
	}
	query := `
		INSERT INTO cost_lots (id, store_id, product_id, scope_kind, scope_source_id, unit_price, arrived_at, remaining_quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING sequence`
	err := r.q.QueryRow(ctx, query,
		lot.ID, lot.StoreID, lot.ProductID, lot.Scope.Kind, lot.Scope.SourceID,
		lot.UnitPrice, lot.ArrivedAt, lot.RemainingQuantity, lot.CreatedAt,
	).Scan(&lot.Sequence)
	if err != nil {
		return fmt.Errorf("insert cost lot: %w", err)
	}
	return nil
}

func (r *CostLotRepo) list(ctx context.Context, query string, args ...any) ([]*entity.CostLot, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapLockErr("list cost lots", err)
	}
	defer rows.Close()
	var list []*entity.CostLot
	for rows.Next() {
		var l entity.CostLot
		if err := rows.Scan(&l.ID, &l.Sequence, &l.StoreID, &l.ProductID, &l.Scope.Kind, &l.Scope.SourceID,
			&l.UnitPrice, &l.ArrivedAt, &l.RemainingQuantity, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cost lot: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// ListForUpdate bloquea los lotes con remanente del producto en el ámbito.
func (r *CostLotRepo) ListForUpdate(ctx context.Context, productID string, scope entity.LotScope) ([]*entity.CostLot, error) {
	return r.list(ctx, `SELECT `+costLotColumns+` FROM cost_lots
		WHERE product_id = $1 AND scope_kind = $2 AND scope_source_id = $3 AND remaining_quantity > 0
		ORDER BY sequence FOR UPDATE`,
		productID, scope.Kind, scope.SourceID)
}

func (r *CostLotRepo) ListScopeForUpdate(ctx context.Context, storeID string, scope entity.LotScope) ([]*entity.CostLot, error) {
	return r.list(ctx, `SELECT `+costLotColumns+` FROM cost_lots
		WHERE store_id = $1 AND scope_kind = $2 AND scope_source_id = $3 AND remaining_quantity > 0
		ORDER BY sequence FOR UPDATE`,
		storeID, scope.Kind, scope.SourceID)
}

func (r *CostLotRepo) ListByProduct(ctx context.Context, productID string, includeEmpty bool) ([]*entity.CostLot, error) {
	return r.list(ctx, `SELECT `+costLotColumns+` FROM cost_lots
		WHERE product_id = $1 AND scope_kind = $2 AND ($3 OR remaining_quantity > 0)
		ORDER BY sequence`,
		productID, entity.ScopeProduct, includeEmpty)
}

func (r *CostLotRepo) UpdateRemaining(ctx context.Context, id string, remaining int64) error {
	cmd, err := r.q.Exec(ctx, `UPDATE cost_lots SET remaining_quantity = $2 WHERE id = $1`, id, remaining)
	if err != nil {
		return fmt.Errorf("update cost lot: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update cost lot %s: %w", id, pgx.ErrNoRows)
	}
	return nil
}
