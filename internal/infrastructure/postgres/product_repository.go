package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, store_id, display_name, category, stock_number, infinite_stock, is_special_price_product, deleted,
	average_wholesale_price, minimum_wholesale_price, maximum_wholesale_price, total_wholesale_price, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.StoreID, &p.DisplayName, &p.Category, &p.StockNumber, &p.InfiniteStock,
		&p.IsSpecialPriceProduct, &p.Deleted, &p.Wholesale.Average, &p.Wholesale.Minimum,
		&p.Wholesale.Maximum, &p.Wholesale.Total, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto. El resumen mayorista inicia en 0.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.StoreID, product.DisplayName, product.Category, product.StockNumber,
		product.InfiniteStock, product.IsSpecialPriceProduct, product.Deleted,
		product.Wholesale.Average, product.Wholesale.Minimum, product.Wholesale.Maximum, product.Wholesale.Total,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapLockErr("get product for update", err)
	}
	return p, nil
}

// ListByStore lista productos activos de una tienda con paginación.
func (r *ProductRepo) ListByStore(ctx context.Context, storeID string, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE store_id = $1 AND NOT deleted ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, storeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// UpdateStock fija el stock (lo calcula el libro dentro de la transacción).
func (r *ProductRepo) UpdateStock(ctx context.Context, id string, stockNumber int64) error {
	_, err := r.q.Exec(ctx, `UPDATE products SET stock_number = $2, updated_at = now() WHERE id = $1`, id, stockNumber)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	return nil
}

func (r *ProductRepo) UpdateWholesaleSummary(ctx context.Context, id string, s entity.WholesaleSummary) error {
	_, err := r.q.Exec(ctx, `
		UPDATE products SET average_wholesale_price = $2, minimum_wholesale_price = $3,
			maximum_wholesale_price = $4, total_wholesale_price = $5, updated_at = now()
		WHERE id = $1`,
		id, s.Average, s.Minimum, s.Maximum, s.Total,
	)
	if err != nil {
		return fmt.Errorf("update wholesale summary: %w", err)
	}
	return nil
}

func (r *ProductRepo) SoftDelete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `UPDATE products SET deleted = TRUE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("soft delete product: %w", err)
	}
	return nil
}
