package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/waterfire-source/Mycalinks-sub015/internal/domain"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
)

// Outcome resultado de una reversión.
type Outcome string

const (
	OutcomeApplied         Outcome = "applied"
	OutcomeDryRunValidated Outcome = "dry_run_validated"
	OutcomeFailed          Outcome = "failed"
)

// RollbackInput reversión de una apertura. DryRun valida sin confirmar nada.
type RollbackInput struct {
	StoreID     string
	PackOpenID  string
	Description string
	DryRun      bool
	StaffID     string
}

// RollbackResult Reason solo se informa con OutcomeFailed. En un dry run History y Movements
// describen lo que se habría confirmado.
type RollbackResult struct {
	Outcome   Outcome
	Reason    error
	History   *entity.PackOpenHistory
	Movements []*entity.StockMovement
}

// RollbackCoordinator revierte aperturas de caja aplicando las operaciones inversas del libro.
type RollbackCoordinator struct {
	txRunner TxRunner
	ledger   *StockLedger
	now      func() time.Time
}

// NewRollbackCoordinator construye el coordinador.
func NewRollbackCoordinator(txRunner TxRunner, ledger *StockLedger, now func() time.Time) *RollbackCoordinator {
	if now == nil {
		now = time.Now
	}
	return &RollbackCoordinator{txRunner: txRunner, ledger: ledger, now: now}
}

// RollbackPackOpening revierte la apertura en una transacción; con DryRun la transacción nunca se confirma.
// Los fallos esperados (estado, categoría, stock, lotes) vuelven como OutcomeFailed; los errores de
// infraestructura y las inconsistencias del libro se devuelven como error.
func (c *RollbackCoordinator) RollbackPackOpening(ctx context.Context, policy entity.LedgerPolicy, in RollbackInput) (*RollbackResult, error) {
	res := &RollbackResult{}
	fn := func(repos Repositories) error {
		history, movements, err := c.RollbackPackOpeningInTx(ctx, repos, policy, in)
		res.History = history
		res.Movements = movements
		return err
	}

	run := c.txRunner.Run
	if in.DryRun {
		run = c.txRunner.DryRun
	}
	err := run(ctx, fn)
	switch {
	case err == nil && in.DryRun:
		res.Outcome = OutcomeDryRunValidated
	case err == nil:
		res.Outcome = OutcomeApplied
	case domain.IsClientError(err):
		return &RollbackResult{Outcome: OutcomeFailed, Reason: err, History: res.History}, nil
	default:
		return nil, err
	}
	return res, nil
}

// RollbackPackOpeningInTx aplica la reversión en la transacción del llamador.
func (c *RollbackCoordinator) RollbackPackOpeningInTx(ctx context.Context, repos Repositories, policy entity.LedgerPolicy, in RollbackInput) (*entity.PackOpenHistory, []*entity.StockMovement, error) {
	history, err := repos.PackOpenings.GetForUpdate(ctx, in.PackOpenID)
	if err != nil {
		return nil, nil, err
	}
	if history == nil || (in.StoreID != "" && history.StoreID != in.StoreID) {
		return nil, nil, fmt.Errorf("%w: apertura %s", domain.ErrNotFound, in.PackOpenID)
	}
	switch {
	case history.Status == entity.PackOpenRollback:
		return history, nil, fmt.Errorf("%w: apertura %s", domain.ErrAlreadyRolledBack, history.ID)
	case history.Status != entity.PackOpenFinished:
		return history, nil, fmt.Errorf("%w: apertura %s en estado %s", domain.ErrDisallowedRollback, history.ID, history.Status)
	case !history.BoxCategory.AllowsPackRollback():
		return history, nil, fmt.Errorf("%w: categoría %s", domain.ErrDisallowedRollback, history.BoxCategory)
	}

	var movements []*entity.StockMovement
	for _, card := range history.Cards {
		dec, err := c.ledger.Decrease(ctx, repos, policy, DecreaseInput{
			StoreID:     history.StoreID,
			ProductID:   card.ProductID,
			Quantity:    card.Quantity,
			Kind:        entity.SourcePackOpeningRollback,
			SourceID:    history.ID,
			Description: in.Description,
			StaffID:     in.StaffID,
		})
		if err != nil {
			return history, nil, err
		}
		movements = append(movements, dec.Movement)
	}

	// Las cartas registradas como pérdida no se restauran.
	if !history.UnregisteredIsLoss() && history.UnregisteredQuantity > 0 {
		dec, err := c.ledger.Decrease(ctx, repos, policy, DecreaseInput{
			StoreID:     history.StoreID,
			ProductID:   history.UnregisteredProductID,
			Quantity:    history.UnregisteredQuantity,
			Kind:        entity.SourcePackOpeningUnregisterRollback,
			SourceID:    history.ID,
			Description: in.Description,
			StaffID:     in.StaffID,
		})
		if err != nil {
			return history, nil, err
		}
		movements = append(movements, dec.Movement)
	}

	inc, err := c.ledger.Increase(ctx, repos, policy, IncreaseInput{
		StoreID:     history.StoreID,
		ProductID:   history.BoxProductID,
		Quantity:    history.PackCount,
		Kind:        entity.SourcePackOpeningRollback,
		SourceID:    history.ID,
		Description: in.Description,
		StaffID:     in.StaffID,
	})
	if err != nil {
		return history, nil, err
	}
	movements = append(movements, inc.Movement)

	now := c.now()
	if err := repos.PackOpenings.MarkRolledBack(ctx, history.ID, now, in.Description); err != nil {
		return history, nil, err
	}
	rolled := *history
	rolled.Status = entity.PackOpenRollback
	rolled.RolledBackAt = &now
	rolled.RollbackDescription = in.Description
	return &rolled, movements, nil
}
