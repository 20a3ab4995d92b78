package inventory_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waterfire-source/Mycalinks-sub015/internal/application/inventory"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
)

func TestDecrease_OldestArrivalFirst(t *testing.T) {
	f := newFixture(t, entity.DefaultLedgerPolicy())
	f.product("p1")
	f.buy("p1", 3, 100, day1)
	f.buy("p1", 5, 120, day2)

	res, err := f.uc.Decrease(f.ctx, inventory.DecreaseInput{
		StoreID: storeID, ProductID: "p1", Quantity: 4, Kind: entity.SourceTransactionBuyReturn,
	})
	require.NoError(t, err)

	require.Len(t, res.Consumed, 2)
	assert.Equal(t, int64(3), res.Consumed[0].Quantity)
	assert.True(t, res.Consumed[0].UnitPrice.Equal(dec(100)))
	assert.Equal(t, int64(1), res.Consumed[1].Quantity)
	assert.True(t, res.Consumed[1].UnitPrice.Equal(dec(120)))
	assert.Equal(t, int64(4), res.ResultingStock)

	assert.Equal(t, int64(-4), res.Movement.ItemCount)
	assert.True(t, res.Movement.UnitPrice.Equal(dec(105)))
	assert.True(t, res.Movement.TotalCost().Equal(dec(420)))

	lots := f.liveLots("p1")
	require.Len(t, lots, 1)
	assert.Equal(t, int64(4), lots[0].RemainingQuantity)
	assert.True(t, f.get("p1").Wholesale.Average.Equal(dec(120)))
	f.assertConsistent("p1")
}

func TestDecrease_HighestCostFirst(t *testing.T) {
	f := newFixture(t, entity.LedgerPolicy{KeepRule: entity.KeepIndividual, Order: entity.OrderHighestCostFirst})
	f.product("p1")
	f.buy("p1", 3, 100, day1)
	f.buy("p1", 5, 120, day2)

	res, err := f.uc.Decrease(f.ctx, inventory.DecreaseInput{
		StoreID: storeID, ProductID: "p1", Quantity: 6, Kind: entity.SourceTransactionBuyReturn,
	})
	require.NoError(t, err)
	assert.True(t, res.Movement.TotalCost().Equal(dec(5*120+100)))
	f.assertConsistent("p1")
}

func TestDecrease_InsufficientStockLeavesNoTrace(t *testing.T) {
	f := newFixture(t, entity.DefaultLedgerPolicy())
	f.product("p1")
	f.buy("p1", 3, 100, day1)

	_, err := f.uc.Decrease(f.ctx, inventory.DecreaseInput{
		StoreID: storeID, ProductID: "p1", Quantity: 4, Kind: entity.SourceTransactionBuyReturn,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(3), f.get("p1").StockNumber)
	assert.Len(t, f.movements("p1"), 1)
	f.assertConsistent("p1")
}

func TestIncrease_Validation(t *testing.T) {
	f := newFixture(t, entity.DefaultLedgerPolicy())
	f.product("p1")

	_, err := f.uc.Increase(f.ctx, inventory.IncreaseInput{
		StoreID: storeID, ProductID: "p1", Quantity: 0, Kind: entity.SourceTransactionBuy,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = f.uc.Increase(f.ctx, inventory.IncreaseInput{
		StoreID: storeID, ProductID: "p1", Quantity: 1, UnitPrice: dec(-5), Kind: entity.SourceTransactionBuy,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	// una venta no aumenta stock
	_, err = f.uc.Increase(f.ctx, inventory.IncreaseInput{
		StoreID: storeID, ProductID: "p1", Quantity: 1, Kind: entity.SourceTransactionSell, SourceID: "tx-1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// tipo con retención sin source_id
	_, err = f.uc.Increase(f.ctx, inventory.IncreaseInput{
		StoreID: storeID, ProductID: "p1", Quantity: 1, Kind: entity.SourceStocking,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// producto de otra tienda
	_, err = f.uc.Increase(f.ctx, inventory.IncreaseInput{
		StoreID: "other", ProductID: "p1", Quantity: 1, Kind: entity.SourceTransactionBuy,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIncrease_LotsMustMatchQuantity(t *testing.T) {
	f := newFixture(t, entity.DefaultLedgerPolicy())
	f.product("p1")

	_, err := f.uc.Increase(f.ctx, inventory.IncreaseInput{
		StoreID: storeID, ProductID: "p1", Quantity: 3, Kind: entity.SourceTransactionBuy,
		Lots: []entity.LotRecord{{UnitPrice: dec(10), ArrivedAt: day1, Quantity: 2}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestIncrease_IndividualMergesSamePriceAndArrival(t *testing.T) {
	f := newFixture(t, entity.DefaultLedgerPolicy())
	f.product("p1")
	f.buy("p1", 2, 100, day1)
	f.buy("p1", 1, 100, day1)
	f.buy("p1", 1, 100, day2)

	lots := f.liveLots("p1")
	require.Len(t, lots, 2)
	assert.Equal(t, int64(3), lots[0].RemainingQuantity)
	assert.Equal(t, int64(1), lots[1].RemainingQuantity)
	f.assertConsistent("p1")
}

func TestIncrease_AverageRuleFoldsLots(t *testing.T) {
	f := newFixture(t, entity.LedgerPolicy{KeepRule: entity.KeepAverage, Order: entity.OrderOldestArrivalFirst})
	f.product("p1")
	f.buy("p1", 3, 100, day1)
	f.buy("p1", 5, 120, day2)

	lots := f.liveLots("p1")
	require.Len(t, lots, 2)
	assert.True(t, lots[0].UnitPrice.Equal(dec(113)))
	assert.True(t, lots[1].UnitPrice.Equal(dec(112)))
	assert.True(t, f.liveValue("p1").Equal(dec(900)))
	f.assertConsistent("p1")
}

func TestSellAndReturn_RestoresParkedLots(t *testing.T) {
	f := newFixture(t, entity.DefaultLedgerPolicy())
	f.product("p1")
	f.buy("p1", 3, 100, day1)
	f.buy("p1", 5, 120, day2)

	_, err := f.uc.Decrease(f.ctx, inventory.DecreaseInput{
		StoreID: storeID, ProductID: "p1", Quantity: 4, Kind: entity.SourceTransactionSell, SourceID: "tx-1",
	})
	require.NoError(t, err)

	// devolución parcial: se restaura primero lo último retenido
	res, err := f.uc.Increase(f.ctx, inventory.IncreaseInput{
		StoreID: storeID, ProductID: "p1", Quantity: 2, Kind: entity.SourceTransactionSellReturn, SourceID: "tx-1",
	})
	require.NoError(t, err)
	assert.True(t, res.Movement.TotalCost().Equal(dec(220)))
	assert.Equal(t, int64(6), res.ResultingStock)
	assert.True(t, f.liveValue("p1").Equal(dec(4*120+120+100)))

	// no se puede devolver más de lo retenido
	_, err = f.uc.Increase(f.ctx, inventory.IncreaseInput{
		StoreID: storeID, ProductID: "p1", Quantity: 3, Kind: entity.SourceTransactionSellReturn, SourceID: "tx-1",
	})
	assert.ErrorIs(t, err, domain.ErrLotNotFound)
	f.assertConsistent("p1")
}

func TestInfiniteStock_SyntheticRecord(t *testing.T) {
	f := newFixture(t, entity.DefaultLedgerPolicy())
	f.product("inf", func(p *entity.Product) { p.InfiniteStock = true })

	res, err := f.uc.Decrease(f.ctx, inventory.DecreaseInput{
		StoreID: storeID, ProductID: "inf", Quantity: 5, Kind: entity.SourceTransactionBuyReturn,
	})
	require.NoError(t, err)
	require.Len(t, res.Consumed, 1)
	assert.True(t, res.Consumed[0].UnitPrice.Equal(dec(1)))
	assert.Equal(t, int64(5), res.Consumed[0].Quantity)
	assert.Equal(t, int64(0), res.ResultingStock)

	assert.Empty(t, f.liveLots("inf"))
	assert.Len(t, f.movements("inf"), 1)
}

func TestSpecialPriceProduct_SoftDeletedWhenEmpty(t *testing.T) {
	f := newFixture(t, entity.DefaultLedgerPolicy())
	f.product("sp", func(p *entity.Product) { p.IsSpecialPriceProduct = true })
	f.buy("sp", 2, 50, day1)

	_, err := f.uc.Decrease(f.ctx, inventory.DecreaseInput{
		StoreID: storeID, ProductID: "sp", Quantity: 1, Kind: entity.SourceTransactionBuyReturn,
	})
	require.NoError(t, err)
	assert.False(t, f.get("sp").Deleted)

	_, err = f.uc.Decrease(f.ctx, inventory.DecreaseInput{
		StoreID: storeID, ProductID: "sp", Quantity: 1, Kind: entity.SourceTransactionBuyReturn,
	})
	require.NoError(t, err)
	assert.True(t, f.get("sp").Deleted)
}

func TestListMovements_NewestFirst(t *testing.T) {
	f := newFixture(t, entity.DefaultLedgerPolicy())
	f.product("p1")
	f.buy("p1", 1, 10, day1)
	f.buy("p1", 2, 20, day2)

	list, err := f.uc.ListMovements(f.ctx, storeID, "p1", 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].ItemCount)
	assert.Equal(t, int64(3), list[0].ResultingStock)

	_, err = f.uc.ListMovements(f.ctx, "other", "p1", 10, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDecrease_StockWithoutLotsIsLedgerInconsistency(t *testing.T) {
	var buf bytes.Buffer
	uc, store := newLoggedUseCase(t, &buf, staticPolicy{p: entity.DefaultLedgerPolicy()})
	ctx := context.Background()
	repos := store.Repositories()
	require.NoError(t, repos.Products.UpdateStock(ctx, "p1", 5))

	_, err := uc.Decrease(ctx, inventory.DecreaseInput{
		StoreID: storeID, ProductID: "p1", Quantity: 2, Kind: entity.SourceTransactionBuyReturn,
	})
	require.ErrorIs(t, err, domain.ErrLedgerInconsistency)
	assert.True(t, domain.IsFatal(err))

	movements, err := repos.Movements.ListByProduct(ctx, "p1", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, movements)
	p, err := repos.Products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.StockNumber)

	lines := logLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "error", lines[0]["level"])
	assert.Equal(t, "decrease", lines[0]["op"])
	assert.Equal(t, "p1", lines[0]["product_id"])
	assert.Contains(t, lines[0]["error"], "inconsistencia")
}
