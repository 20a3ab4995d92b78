package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/repository"
	"github.com/waterfire-source/Mycalinks-sub015/pkg/logger"
)

// Deps dependencias del caso de uso del libro.
type Deps struct {
	TxRunner     TxRunner
	Policies     PolicySource
	Locker       Locker // opcional
	Tax          TaxCalculator
	Products     repository.ProductRepository
	Lots         repository.CostLotRepository
	Movements    repository.StockMovementRepository
	PackOpenings repository.PackOpenRepository
	Logger       *logger.Logger
	Locale       string
	TxTimeout    time.Duration
	LockTTL      time.Duration
	Now          func() time.Time
}

// LedgerUseCase punto de entrada de la capa HTTP: resuelve la política de la tienda, limita la
// duración de cada transacción y registra el resultado.
type LedgerUseCase struct {
	deps       Deps
	ledger     *StockLedger
	transform  *TransformCoordinator
	rollback   *RollbackCoordinator
	summarizer *Summarizer
	log        *logger.Logger
}

// NewLedgerUseCase construye el caso de uso con sus coordinadores.
func NewLedgerUseCase(deps Deps) *LedgerUseCase {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.LockTTL <= 0 {
		deps.LockTTL = 30 * time.Second
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	ledger := NewStockLedger(deps.Now)
	return &LedgerUseCase{
		deps:       deps,
		ledger:     ledger,
		transform:  NewTransformCoordinator(deps.TxRunner, ledger, deps.Now),
		rollback:   NewRollbackCoordinator(deps.TxRunner, ledger, deps.Now),
		summarizer: NewSummarizer(deps.Locale, deps.Tax),
		log:        deps.Logger,
	}
}

// Summarizer expone el generador de resúmenes para la capa HTTP.
func (uc *LedgerUseCase) Summarizer() *Summarizer { return uc.summarizer }

func (uc *LedgerUseCase) begin(ctx context.Context, storeID string) (context.Context, context.CancelFunc, entity.LedgerPolicy, error) {
	policy, err := uc.deps.Policies.Policy(ctx, storeID)
	if err != nil {
		return nil, nil, policy, fmt.Errorf("ledger policy: %w", err)
	}
	if uc.deps.TxTimeout > 0 {
		ctx, cancel := context.WithTimeout(ctx, uc.deps.TxTimeout)
		return ctx, cancel, policy, nil
	}
	ctx, cancel := context.WithCancel(ctx)
	return ctx, cancel, policy, nil
}

// lock toma la clave si hay Locker. Otro proceso con la clave = ErrConflict; un fallo del
// backend solo se registra y la operación sigue con el bloqueo de filas de la BD.
func (uc *LedgerUseCase) lock(ctx context.Context, key string) (func(), error) {
	if uc.deps.Locker == nil {
		return func() {}, nil
	}
	release, err := uc.deps.Locker.Obtain(ctx, key, uc.deps.LockTTL)
	if errors.Is(err, ErrLockNotObtained) {
		return nil, fmt.Errorf("%w: %s en curso", domain.ErrConflict, key)
	}
	if err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("bloqueo no disponible, se continúa sin él")
		return func() {}, nil
	}
	return release, nil
}

// done registra el resultado. kv son pares clave/valor adicionales (product_id, source_id...).
func (uc *LedgerUseCase) done(op, storeID string, quantity int64, err error, kv ...string) {
	var e *zerolog.Event
	switch {
	case err == nil:
		e = uc.log.Info()
	case domain.IsFatal(err):
		e = uc.log.Error().Err(err)
	default:
		e = uc.log.Debug().Err(err)
	}
	e = e.Str("op", op).Str("store_id", storeID).Int64("quantity", quantity)
	for i := 0; i+1 < len(kv); i += 2 {
		e = e.Str(kv[i], kv[i+1])
	}
	switch {
	case err == nil:
		e.Msg("operación de stock aplicada")
	case domain.IsFatal(err):
		e.Msg("operación de stock fallida")
	default:
		e.Msg("operación de stock rechazada")
	}
}

// Increase aumento independiente en su propia transacción.
func (uc *LedgerUseCase) Increase(ctx context.Context, in IncreaseInput) (res *IncreaseResult, err error) {
	defer func() { uc.done("increase", in.StoreID, in.Quantity, err, "product_id", in.ProductID, "source_kind", in.Kind.String(), "source_id", in.SourceID) }()
	ctx, cancel, policy, err := uc.begin(ctx, in.StoreID)
	if err != nil {
		return nil, err
	}
	defer cancel()
	err = uc.deps.TxRunner.Run(ctx, func(repos Repositories) error {
		var err error
		res, err = uc.ledger.Increase(ctx, repos, policy, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Decrease disminución independiente en su propia transacción.
func (uc *LedgerUseCase) Decrease(ctx context.Context, in DecreaseInput) (res *DecreaseResult, err error) {
	defer func() { uc.done("decrease", in.StoreID, in.Quantity, err, "product_id", in.ProductID, "source_kind", in.Kind.String(), "source_id", in.SourceID) }()
	ctx, cancel, policy, err := uc.begin(ctx, in.StoreID)
	if err != nil {
		return nil, err
	}
	defer cancel()
	err = uc.deps.TxRunner.Run(ctx, func(repos Repositories) error {
		var err error
		res, err = uc.ledger.Decrease(ctx, repos, policy, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (uc *LedgerUseCase) Transfer(ctx context.Context, in TransferInput) (res *TransferResult, err error) {
	defer func() { uc.done("transfer", in.StoreID, in.Quantity, err, "product_id", in.FromProductID, "to_product_id", in.ToProductID) }()
	ctx, cancel, policy, err := uc.begin(ctx, in.StoreID)
	if err != nil {
		return nil, err
	}
	defer cancel()
	return uc.transform.Transfer(ctx, policy, in)
}

func (uc *LedgerUseCase) OpenPack(ctx context.Context, in OpenPackInput) (res *OpenPackResult, err error) {
	defer func() { uc.done("open_pack", in.StoreID, in.PackCount, err, "product_id", in.BoxProductID) }()
	ctx, cancel, policy, err := uc.begin(ctx, in.StoreID)
	if err != nil {
		return nil, err
	}
	defer cancel()
	return uc.transform.OpenPack(ctx, policy, in)
}

// RollbackPackOpening revierte una apertura; dos reversiones concurrentes de la misma apertura
// se excluyen con el Locker además del bloqueo de fila.
func (uc *LedgerUseCase) RollbackPackOpening(ctx context.Context, in RollbackInput) (res *RollbackResult, err error) {
	defer func() {
		if err == nil && res.Outcome == OutcomeFailed {
			uc.log.Info().Str("pack_open_id", in.PackOpenID).Err(res.Reason).Msg("reversión rechazada")
			return
		}
		uc.done("pack_open_rollback", in.StoreID, 0, err, "pack_open_id", in.PackOpenID)
	}()
	ctx, cancel, policy, err := uc.begin(ctx, in.StoreID)
	if err != nil {
		return nil, err
	}
	defer cancel()
	release, err := uc.lock(ctx, "pack-open-rollback:"+in.PackOpenID)
	if err != nil {
		return nil, err
	}
	defer release()
	return uc.rollback.RollbackPackOpening(ctx, policy, in)
}

func (uc *LedgerUseCase) AssembleBundle(ctx context.Context, in BundleInput) (res *BundleResult, err error) {
	defer func() { uc.done("bundle_assemble", in.StoreID, in.Quantity, err, "product_id", in.BundleProductID) }()
	ctx, cancel, policy, err := uc.begin(ctx, in.StoreID)
	if err != nil {
		return nil, err
	}
	defer cancel()
	release, err := uc.lock(ctx, "bundle:"+in.BundleProductID)
	if err != nil {
		return nil, err
	}
	defer release()
	return uc.transform.AssembleBundle(ctx, policy, in)
}

func (uc *LedgerUseCase) ReleaseBundle(ctx context.Context, in BundleInput) (res *BundleResult, err error) {
	defer func() { uc.done("bundle_release", in.StoreID, in.Quantity, err, "product_id", in.BundleProductID) }()
	ctx, cancel, policy, err := uc.begin(ctx, in.StoreID)
	if err != nil {
		return nil, err
	}
	defer cancel()
	release, err := uc.lock(ctx, "bundle:"+in.BundleProductID)
	if err != nil {
		return nil, err
	}
	defer release()
	return uc.transform.ReleaseBundle(ctx, policy, in)
}

// GetPackOpening devuelve la apertura si pertenece a la tienda.
func (uc *LedgerUseCase) GetPackOpening(ctx context.Context, storeID, id string) (*entity.PackOpenHistory, error) {
	h, err := uc.deps.PackOpenings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if h == nil || h.StoreID != storeID {
		return nil, fmt.Errorf("%w: apertura %s", domain.ErrNotFound, id)
	}
	return h, nil
}

func (uc *LedgerUseCase) product(ctx context.Context, storeID, productID string) (*entity.Product, error) {
	p, err := uc.deps.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.StoreID != storeID {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	return p, nil
}

// ListLots lotes de un producto; includeEmpty incluye lotes agotados y retenidos vacíos.
func (uc *LedgerUseCase) ListLots(ctx context.Context, storeID, productID string, includeEmpty bool) ([]*entity.CostLot, error) {
	if _, err := uc.product(ctx, storeID, productID); err != nil {
		return nil, err
	}
	return uc.deps.Lots.ListByProduct(ctx, productID, includeEmpty)
}

// ListMovements historial de un producto, más reciente primero.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, storeID, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	if _, err := uc.product(ctx, storeID, productID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return uc.deps.Movements.ListByProduct(ctx, productID, limit, offset)
}
