package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/inventory"
)

func price(n int64) *decimal.Decimal {
	d := decimal.NewFromInt(n)
	return &d
}

func TestDistributePackCost_ExplicitAndMargin(t *testing.T) {
	// caja de 1000: 2 cartas a 300 explícitas, 3 automáticas y 1 no registrada automática
	plan := inventory.DistributePackCost(decimal.NewFromInt(1000), []inventory.PackOutput{
		{Quantity: 2, UnitPrice: price(300)},
		{Quantity: 3},
		{Quantity: 1},
	}, day)

	require.Len(t, plan.Records, 3)
	assert.True(t, entity.TotalCost(plan.Records[0]).Equal(decimal.NewFromInt(600)))

	// margen 400 sobre 4 unidades = 100 cada una
	assert.Equal(t, int64(3), entity.TotalQuantity(plan.Records[1]))
	assert.True(t, entity.TotalCost(plan.Records[1]).Equal(decimal.NewFromInt(300)))
	assert.True(t, entity.TotalCost(plan.Records[2]).Equal(decimal.NewFromInt(100)))
	assert.True(t, plan.Unallocated.IsZero())
}

func TestDistributePackCost_UnevenMarginIsConserved(t *testing.T) {
	plan := inventory.DistributePackCost(decimal.NewFromInt(1001), []inventory.PackOutput{
		{Quantity: 3},
		{Quantity: 1},
	}, day)

	total := entity.TotalCost(plan.Records[0]).Add(entity.TotalCost(plan.Records[1]))
	assert.True(t, total.Equal(decimal.NewFromInt(1001)), total.String())
	assert.Equal(t, int64(3), entity.TotalQuantity(plan.Records[0]))
	assert.Equal(t, int64(1), entity.TotalQuantity(plan.Records[1]))
}

func TestDistributePackCost_NegativeMarginFloorsAtZero(t *testing.T) {
	plan := inventory.DistributePackCost(decimal.NewFromInt(100), []inventory.PackOutput{
		{Quantity: 1, UnitPrice: price(500)},
		{Quantity: 2},
	}, day)

	assert.True(t, entity.TotalCost(plan.Records[0]).Equal(decimal.NewFromInt(500)))
	assert.Equal(t, int64(2), entity.TotalQuantity(plan.Records[1]))
	assert.True(t, entity.TotalCost(plan.Records[1]).IsZero())
	assert.True(t, plan.Unallocated.IsZero())
}

func TestDistributePackCost_NoAutoUnitsLeavesUnallocated(t *testing.T) {
	plan := inventory.DistributePackCost(decimal.NewFromInt(1000), []inventory.PackOutput{
		{Quantity: 2, UnitPrice: price(100)},
		{Quantity: 0},
	}, day)

	assert.True(t, plan.Unallocated.Equal(decimal.NewFromInt(800)))
	assert.Empty(t, plan.Records[1])
}
