package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/waterfire-source/Mycalinks-sub015/internal/application/inventory"
)

// Ensure TxRunner implements inventory.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func repositoriesFor(tx pgx.Tx) inventory.Repositories {
	return inventory.Repositories{
		Products:     NewProductRepository(tx),
		Lots:         NewCostLotRepository(tx),
		Movements:    NewStockMovementRepository(tx),
		PackOpenings: NewPackOpenRepository(tx),
		Bundles:      NewBundleRepository(tx),
	}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.Repositories) error) error {
	return r.run(ctx, fn, false)
}

// DryRun ejecuta fn dentro de una transacción que siempre termina en Rollback.
func (r *TxRunner) DryRun(ctx context.Context, fn func(repos inventory.Repositories) error) error {
	return r.run(ctx, fn, true)
}

func (r *TxRunner) run(ctx context.Context, fn func(repos inventory.Repositories) error, dryRun bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(repositoriesFor(tx)); err != nil {
		return err
	}
	if dryRun {
		return nil // el Rollback diferido descarta todo
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
