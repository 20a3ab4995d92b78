package postgres

import (
	"context"
	"fmt"

	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/repository"
)

var _ repository.BundleRepository = (*BundleRepo)(nil)

// BundleRepo composición de bundles sobre PostgreSQL.
type BundleRepo struct {
	q Querier
}

// NewBundleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBundleRepository(q Querier) *BundleRepo {
	return &BundleRepo{q: q}
}

func (r *BundleRepo) ListComponents(ctx context.Context, bundleProductID string) ([]entity.BundleComponent, error) {
	rows, err := r.q.Query(ctx, `
		SELECT bundle_product_id, product_id, quantity FROM bundle_components
		WHERE bundle_product_id = $1 ORDER BY product_id`, bundleProductID)
	if err != nil {
		return nil, fmt.Errorf("list bundle components: %w", err)
	}
	defer rows.Close()
	var list []entity.BundleComponent
	for rows.Next() {
		var c entity.BundleComponent
		if err := rows.Scan(&c.BundleProductID, &c.ProductID, &c.Quantity); err != nil {
			return nil, fmt.Errorf("scan bundle component: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// ReplaceComponents reemplaza la composición completa; llamar dentro de una tx.
func (r *BundleRepo) ReplaceComponents(ctx context.Context, bundleProductID string, components []entity.BundleComponent) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM bundle_components WHERE bundle_product_id = $1`, bundleProductID); err != nil {
		return fmt.Errorf("delete bundle components: %w", err)
	}
	for _, c := range components {
		_, err := r.q.Exec(ctx, `
			INSERT INTO bundle_components (bundle_product_id, product_id, quantity) VALUES ($1, $2, $3)`,
			bundleProductID, c.ProductID, c.Quantity)
		if err != nil {
			return fmt.Errorf("insert bundle component: %w", err)
		}
	}
	return nil
}
