package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/repository"
)

// Repositories repositorios atados a una misma transacción.
type Repositories struct {
	Products     repository.ProductRepository
	Lots         repository.CostLotRepository
	Movements    repository.StockMovementRepository
	PackOpenings repository.PackOpenRepository
	Bundles      repository.BundleRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el libro de stock.
type TxRunner interface {
	// Run hace Commit si fn no devuelve error y Rollback en caso contrario.
	Run(ctx context.Context, fn func(repos Repositories) error) error
	// DryRun ejecuta fn y siempre hace Rollback; devuelve el error de fn tal cual.
	DryRun(ctx context.Context, fn func(repos Repositories) error) error
}

// PolicySource resuelve la configuración del libro de una tienda.
type PolicySource interface {
	Policy(ctx context.Context, storeID string) (entity.LedgerPolicy, error)
}

// ErrLockNotObtained la clave ya está tomada por otra operación.
var ErrLockNotObtained = errors.New("no se pudo obtener el bloqueo")

// Locker bloqueo distribuido de mejor esfuerzo. Obtain devuelve ErrLockNotObtained si otro
// proceso tiene la clave.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

// TaxCalculator calcula importes con impuesto para los resúmenes (caja negra de redondeo).
type TaxCalculator interface {
	WithTax(ctx context.Context, storeID string, amount decimal.Decimal) (decimal.Decimal, error)
}
