package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/waterfire-source/Mycalinks-sub015/internal/application/inventory"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
	"github.com/waterfire-source/Mycalinks-sub015/internal/infrastructure/memory"
)

const storeID = "store-1"

var (
	day1 = time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	day2 = day1.AddDate(0, 0, 1)
	now  = day1.AddDate(0, 0, 10)
)

type staticPolicy struct{ p entity.LedgerPolicy }

func (s staticPolicy) Policy(context.Context, string) (entity.LedgerPolicy, error) { return s.p, nil }

type fixture struct {
	t     *testing.T
	ctx   context.Context
	store *memory.Store
	uc    *inventory.LedgerUseCase
}

func newFixture(t *testing.T, policy entity.LedgerPolicy) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	uc := inventory.NewLedgerUseCase(inventory.Deps{
		TxRunner:     store,
		Policies:     staticPolicy{p: policy},
		Locker:       memory.NewLocker(),
		Products:     repos.Products,
		Lots:         repos.Lots,
		Movements:    repos.Movements,
		PackOpenings: repos.PackOpenings,
		Locale:       "ja",
		TxTimeout:    time.Minute,
		Now:          func() time.Time { return now },
	})
	return &fixture{t: t, ctx: context.Background(), store: store, uc: uc}
}

func (f *fixture) product(id string, mutate ...func(p *entity.Product)) {
	f.t.Helper()
	p := &entity.Product{ID: id, StoreID: storeID, DisplayName: id, Category: entity.CategoryNormal, CreatedAt: now}
	for _, m := range mutate {
		m(p)
	}
	require.NoError(f.t, f.store.Repositories().Products.Create(f.ctx, p))
}

// buy entrada simple al stock vivo a un precio y fecha de llegada.
func (f *fixture) buy(productID string, qty, unitPrice int64, arrivedAt time.Time) *inventory.IncreaseResult {
	f.t.Helper()
	res, err := f.uc.Increase(f.ctx, inventory.IncreaseInput{
		StoreID:   storeID,
		ProductID: productID,
		Quantity:  qty,
		UnitPrice: decimal.NewFromInt(unitPrice),
		ArrivedAt: &arrivedAt,
		Kind:      entity.SourceTransactionBuy,
	})
	require.NoError(f.t, err)
	return res
}

func (f *fixture) get(productID string) *entity.Product {
	f.t.Helper()
	p, err := f.store.Repositories().Products.GetByID(f.ctx, productID)
	require.NoError(f.t, err)
	require.NotNil(f.t, p)
	return p
}

func (f *fixture) liveLots(productID string) []*entity.CostLot {
	f.t.Helper()
	lots, err := f.store.Repositories().Lots.ListByProduct(f.ctx, productID, false)
	require.NoError(f.t, err)
	return lots
}

// liveValue suma del costo remanente de los lotes vivos.
func (f *fixture) liveValue(productID string) decimal.Decimal {
	f.t.Helper()
	total := decimal.Zero
	for _, l := range f.liveLots(productID) {
		total = total.Add(l.Value())
	}
	return total
}

// assertConsistent stock == suma de remanentes vivos.
func (f *fixture) assertConsistent(productID string) {
	f.t.Helper()
	var sum int64
	for _, l := range f.liveLots(productID) {
		sum += l.RemainingQuantity
	}
	require.Equal(f.t, f.get(productID).StockNumber, sum, "stock de %s", productID)
}

func (f *fixture) movements(productID string) []*entity.StockMovement {
	f.t.Helper()
	list, err := f.store.Repositories().Movements.ListByProduct(f.ctx, productID, 0, 0)
	require.NoError(f.t, err)
	return list
}

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func decPtr(n int64) *decimal.Decimal {
	d := decimal.NewFromInt(n)
	return &d
}
