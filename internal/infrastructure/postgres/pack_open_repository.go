package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/repository"
)

var _ repository.PackOpenRepository = (*PackOpenRepo)(nil)

// PackOpenRepo registros de apertura sobre PostgreSQL. Las cartas van en JSONB.
type PackOpenRepo struct {
	q Querier
}

// NewPackOpenRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPackOpenRepository(q Querier) *PackOpenRepo {
	return &PackOpenRepo{q: q}
}

const packOpenColumns = `id, store_id, box_product_id, box_category, pack_count, cards_per_pack, cards,
	unregistered_product_id, unregistered_quantity, unregistered_unit_price, consumed_cost, loss_cost,
	unallocated_cost, status, description, staff_id, created_at, rolled_back_at, rollback_description`

func (r *PackOpenRepo) Create(ctx context.Context, h *entity.PackOpenHistory) error {
	cards, err := json.Marshal(h.Cards)
	if err != nil {
		return fmt.Errorf("encode pack cards: %w", err)
	}
	staffID := (*string)(nil)
	if h.StaffID != "" {
		staffID = &h.StaffID
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO pack_open_histories (`+packOpenColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		h.ID, h.StoreID, h.BoxProductID, h.BoxCategory, h.PackCount, h.CardsPerPack, cards,
		h.UnregisteredProductID, h.UnregisteredQuantity, h.UnregisteredUnitPrice, h.ConsumedCost, h.LossCost,
		h.UnallocatedCost, h.Status, h.Description, staffID, h.CreatedAt, h.RolledBackAt, h.RollbackDescription,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create pack opening: %w", err)
	}
	return nil
}

func (r *PackOpenRepo) get(ctx context.Context, query, id string) (*entity.PackOpenHistory, error) {
	var h entity.PackOpenHistory
	var cards []byte
	var staffID *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&h.ID, &h.StoreID, &h.BoxProductID, &h.BoxCategory, &h.PackCount, &h.CardsPerPack, &cards,
		&h.UnregisteredProductID, &h.UnregisteredQuantity, &h.UnregisteredUnitPrice, &h.ConsumedCost, &h.LossCost,
		&h.UnallocatedCost, &h.Status, &h.Description, &staffID, &h.CreatedAt, &h.RolledBackAt, &h.RollbackDescription,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapLockErr("get pack opening", err)
	}
	if err := json.Unmarshal(cards, &h.Cards); err != nil {
		return nil, fmt.Errorf("decode pack cards: %w", err)
	}
	if staffID != nil {
		h.StaffID = *staffID
	}
	return &h, nil
}

func (r *PackOpenRepo) GetByID(ctx context.Context, id string) (*entity.PackOpenHistory, error) {
	return r.get(ctx, `SELECT `+packOpenColumns+` FROM pack_open_histories WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila: dos reversiones concurrentes se serializan aquí.
func (r *PackOpenRepo) GetForUpdate(ctx context.Context, id string) (*entity.PackOpenHistory, error) {
	return r.get(ctx, `SELECT `+packOpenColumns+` FROM pack_open_histories WHERE id = $1 FOR UPDATE`, id)
}

// MarkRolledBack solo pasa de FINISHED a ROLLBACK.
func (r *PackOpenRepo) MarkRolledBack(ctx context.Context, id string, at time.Time, description string) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE pack_open_histories SET status = $2, rolled_back_at = $3, rollback_description = $4
		WHERE id = $1 AND status = $5`,
		id, entity.PackOpenRollback, at, description, entity.PackOpenFinished,
	)
	if err != nil {
		return fmt.Errorf("mark pack opening rolled back: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: apertura %s", domain.ErrAlreadyRolledBack, id)
	}
	return nil
}
