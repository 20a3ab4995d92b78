package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waterfire-source/Mycalinks-sub015/internal/application/inventory"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
	"github.com/waterfire-source/Mycalinks-sub015/internal/infrastructure/memory"
)

func TestRollback_InvertsPackOpening(t *testing.T) {
	f := newFixture(t, entity.DefaultLedgerPolicy())
	open := f.packScenario("unreg")

	res, err := f.uc.RollbackPackOpening(f.ctx, inventory.RollbackInput{
		StoreID: storeID, PackOpenID: open.History.ID, Description: "error de carga",
	})
	require.NoError(t, err)
	require.Equal(t, inventory.OutcomeApplied, res.Outcome, "%v", res.Reason)
	assert.Len(t, res.Movements, 4)

	assert.Equal(t, int64(2), f.get("box").StockNumber)
	assert.True(t, f.liveValue("box").Equal(dec(2000)))
	for _, id := range []string{"c1", "c2", "unreg"} {
		assert.Equal(t, int64(0), f.get(id).StockNumber, id)
		f.assertConsistent(id)
	}
	f.assertConsistent("box")

	stored, err := f.uc.GetPackOpening(f.ctx, storeID, open.History.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PackOpenRollback, stored.Status)
	assert.Equal(t, "error de carga", stored.RollbackDescription)
	require.NotNil(t, stored.RolledBackAt)
	assert.True(t, stored.RolledBackAt.Equal(now))

	assert.Equal(t, entity.SourcePackOpeningUnregisterRollback, f.movements("unreg")[0].SourceKind)
}

func TestRollback_LossIsNotRestored(t *testing.T) {
	f := newFixture(t, entity.DefaultLedgerPolicy())
	open := f.packScenario("")

	res, err := f.uc.RollbackPackOpening(f.ctx, inventory.RollbackInput{StoreID: storeID, PackOpenID: open.History.ID})
	require.NoError(t, err)
	require.Equal(t, inventory.OutcomeApplied, res.Outcome, "%v", res.Reason)
	assert.Len(t, res.Movements, 3)
	assert.Empty(t, f.movements("unreg"))
	assert.Equal(t, int64(2), f.get("box").StockNumber)
}

func TestRollback_DryRunHasNoSideEffects(t *testing.T) {
	f := newFixture(t, entity.DefaultLedgerPolicy())
	open := f.packScenario("unreg")
	before := len(f.movements("box"))

	res, err := f.uc.RollbackPackOpening(f.ctx, inventory.RollbackInput{
		StoreID: storeID, PackOpenID: open.History.ID, DryRun: true,
	})
	require.NoError(t, err)
	assert.Equal(t, inventory.OutcomeDryRunValidated, res.Outcome)
	assert.Len(t, res.Movements, 4)

	assert.Equal(t, int64(1), f.get("box").StockNumber)
	assert.Equal(t, int64(2), f.get("c1").StockNumber)
	assert.Len(t, f.movements("box"), before)
	stored, err := f.uc.GetPackOpening(f.ctx, storeID, open.History.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PackOpenFinished, stored.Status)

	// el dry run no impide la reversión real
	res, err = f.uc.RollbackPackOpening(f.ctx, inventory.RollbackInput{StoreID: storeID, PackOpenID: open.History.ID})
	require.NoError(t, err)
	assert.Equal(t, inventory.OutcomeApplied, res.Outcome)
}

func TestRollback_Twice(t *testing.T) {
	f := newFixture(t, entity.DefaultLedgerPolicy())
	open := f.packScenario("unreg")
	in := inventory.RollbackInput{StoreID: storeID, PackOpenID: open.History.ID}

	_, err := f.uc.RollbackPackOpening(f.ctx, in)
	require.NoError(t, err)

	res, err := f.uc.RollbackPackOpening(f.ctx, in)
	require.NoError(t, err)
	assert.Equal(t, inventory.OutcomeFailed, res.Outcome)
	assert.ErrorIs(t, res.Reason, domain.ErrAlreadyRolledBack)
	assert.Equal(t, int64(2), f.get("box").StockNumber)
}

func TestRollback_CardsAlreadySold(t *testing.T) {
	f := newFixture(t, entity.DefaultLedgerPolicy())
	open := f.packScenario("unreg")
	_, err := f.uc.Decrease(f.ctx, inventory.DecreaseInput{
		StoreID: storeID, ProductID: "c1", Quantity: 1, Kind: entity.SourceTransactionSell, SourceID: "tx-1",
	})
	require.NoError(t, err)

	res, err := f.uc.RollbackPackOpening(f.ctx, inventory.RollbackInput{StoreID: storeID, PackOpenID: open.History.ID})
	require.NoError(t, err)
	assert.Equal(t, inventory.OutcomeFailed, res.Outcome)
	assert.ErrorIs(t, res.Reason, domain.ErrInsufficientStock)

	// nada cambió
	assert.Equal(t, int64(1), f.get("box").StockNumber)
	assert.Equal(t, int64(1), f.get("c1").StockNumber)
	assert.Equal(t, int64(2), f.get("c2").StockNumber)
}

func TestRollback_DisallowedCategory(t *testing.T) {
	f := newFixture(t, entity.DefaultLedgerPolicy())
	f.product("deck", func(p *entity.Product) { p.Category = entity.CategoryDeck })
	f.product("c1")
	f.buy("deck", 1, 500, day1)
	open, err := f.uc.OpenPack(f.ctx, inventory.OpenPackInput{
		StoreID: storeID, BoxProductID: "deck", PackCount: 1,
		Cards: []inventory.CardOutput{{ProductID: "c1", Quantity: 40}},
	})
	require.NoError(t, err)

	res, err := f.uc.RollbackPackOpening(f.ctx, inventory.RollbackInput{StoreID: storeID, PackOpenID: open.History.ID})
	require.NoError(t, err)
	assert.Equal(t, inventory.OutcomeFailed, res.Outcome)
	assert.ErrorIs(t, res.Reason, domain.ErrDisallowedRollback)
}

func TestRollback_UnknownOpening(t *testing.T) {
	f := newFixture(t, entity.DefaultLedgerPolicy())

	res, err := f.uc.RollbackPackOpening(f.ctx, inventory.RollbackInput{StoreID: storeID, PackOpenID: "nope"})
	require.NoError(t, err)
	assert.Equal(t, inventory.OutcomeFailed, res.Outcome)
	assert.ErrorIs(t, res.Reason, domain.ErrNotFound)
}

func TestRollback_ConcurrentLockIsConflict(t *testing.T) {
	store := memory.NewStore()
	repos := store.Repositories()
	locker := memory.NewLocker()
	uc := inventory.NewLedgerUseCase(inventory.Deps{
		TxRunner:     store,
		Policies:     staticPolicy{p: entity.DefaultLedgerPolicy()},
		Locker:       locker,
		Products:     repos.Products,
		Lots:         repos.Lots,
		Movements:    repos.Movements,
		PackOpenings: repos.PackOpenings,
	})

	release, err := locker.Obtain(context.Background(), "pack-open-rollback:po-1", time.Minute)
	require.NoError(t, err)
	defer release()

	_, err = uc.RollbackPackOpening(context.Background(), inventory.RollbackInput{StoreID: storeID, PackOpenID: "po-1"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// openBoxInto abre una caja de 1000 en cx×3 sin precios explícitos (334 + 333 + 333).
func (f *fixture) openBoxInto(cardID string) *inventory.OpenPackResult {
	f.t.Helper()
	res, err := f.uc.OpenPack(f.ctx, inventory.OpenPackInput{
		StoreID:      storeID,
		BoxProductID: "box",
		PackCount:    1,
		Cards:        []inventory.CardOutput{{ProductID: cardID, Quantity: 3}},
	})
	require.NoError(f.t, err)
	return res
}

func TestRollback_AverageKeepRuleWithPriorStock(t *testing.T) {
	f := newFixture(t, entity.LedgerPolicy{KeepRule: entity.KeepAverage, Order: entity.OrderOldestArrivalFirst})
	f.product("box", func(p *entity.Product) { p.Category = entity.CategoryBox })
	f.product("cx")
	f.buy("box", 1, 1000, day1)
	f.buy("cx", 1, 7, day1)
	open := f.openBoxInto("cx")
	require.Equal(t, int64(4), f.get("cx").StockNumber)

	res, err := f.uc.RollbackPackOpening(f.ctx, inventory.RollbackInput{StoreID: storeID, PackOpenID: open.History.ID})
	require.NoError(t, err)
	require.Equal(t, inventory.OutcomeApplied, res.Outcome, "%v", res.Reason)

	assert.Equal(t, int64(1), f.get("cx").StockNumber)
	assert.Equal(t, int64(1), f.get("box").StockNumber)
	assert.True(t, f.liveValue("box").Equal(dec(1000)), f.liveValue("box").String())
	f.assertConsistent("cx")
	f.assertConsistent("box")
}

func TestRollback_TakesLotsCreatedByTheOpening(t *testing.T) {
	f := newFixture(t, entity.DefaultLedgerPolicy())
	f.product("box", func(p *entity.Product) { p.Category = entity.CategoryBox })
	f.product("cx")
	f.buy("box", 1, 1000, day1)
	// lote previo más antiguo con el mismo precio que recibirá la primera carta
	f.buy("cx", 1, 334, day1)
	open := f.openBoxInto("cx")

	res, err := f.uc.RollbackPackOpening(f.ctx, inventory.RollbackInput{StoreID: storeID, PackOpenID: open.History.ID})
	require.NoError(t, err)
	require.Equal(t, inventory.OutcomeApplied, res.Outcome, "%v", res.Reason)

	lots := f.liveLots("cx")
	require.Len(t, lots, 1)
	assert.Equal(t, int64(1), lots[0].RemainingQuantity)
	assert.True(t, lots[0].ArrivedAt.Equal(day1))
	assert.True(t, lots[0].UnitPrice.Equal(dec(334)))
}
