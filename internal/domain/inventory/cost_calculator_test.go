package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/inventory"
)

func rec(price, qty int64) entity.LotRecord {
	return entity.LotRecord{UnitPrice: decimal.NewFromInt(price), ArrivedAt: day, Quantity: qty}
}

func TestValidUnitPrice(t *testing.T) {
	assert.True(t, inventory.ValidUnitPrice(decimal.Zero))
	assert.True(t, inventory.ValidUnitPrice(decimal.NewFromInt(150)))
	assert.False(t, inventory.ValidUnitPrice(decimal.NewFromInt(-1)))
	assert.False(t, inventory.ValidUnitPrice(decimal.RequireFromString("10.5")))
}

func TestWeightedAverage(t *testing.T) {
	// (3×100 + 1×120) / 4 = 105
	avg := inventory.WeightedAverage([]entity.LotRecord{rec(100, 3), rec(120, 1)})
	assert.True(t, avg.Equal(decimal.NewFromInt(105)), avg.String())

	// (1×100 + 2×101) / 3 = 100.67 → 101
	avg = inventory.WeightedAverage([]entity.LotRecord{rec(100, 1), rec(101, 2)})
	assert.True(t, avg.Equal(decimal.NewFromInt(101)), avg.String())

	assert.True(t, inventory.WeightedAverage(nil).IsZero())
}

func TestSplitEvenly_ConservesTotal(t *testing.T) {
	cases := []struct {
		total int64
		count int64
		want  []entity.LotRecord
	}{
		{total: 1000, count: 4, want: []entity.LotRecord{rec(250, 4)}},
		{total: 1001, count: 4, want: []entity.LotRecord{rec(251, 1), rec(250, 3)}},
		{total: 2, count: 3, want: []entity.LotRecord{rec(1, 2), rec(0, 1)}},
		{total: 0, count: 2, want: []entity.LotRecord{rec(0, 2)}},
	}
	for _, tc := range cases {
		got := inventory.SplitEvenly(decimal.NewFromInt(tc.total), tc.count, day)
		require.Len(t, got, len(tc.want))
		for i := range got {
			assert.True(t, got[i].UnitPrice.Equal(tc.want[i].UnitPrice), "%d/%d: %s", tc.total, tc.count, got[i].UnitPrice)
			assert.Equal(t, tc.want[i].Quantity, got[i].Quantity)
		}
		assert.True(t, entity.TotalCost(got).Equal(decimal.NewFromInt(tc.total)))
		assert.Equal(t, tc.count, entity.TotalQuantity(got))
	}
	assert.Nil(t, inventory.SplitEvenly(decimal.NewFromInt(10), 0, day))
}

func TestAverageRecords(t *testing.T) {
	got := inventory.AverageRecords([]entity.LotRecord{rec(100, 3), rec(120, 5)}, day)
	// 900 / 8 = 112.5 → 4 a 113 y 4 a 112
	require.Len(t, got, 2)
	assert.True(t, got[0].UnitPrice.Equal(decimal.NewFromInt(113)))
	assert.Equal(t, int64(4), got[0].Quantity)
	assert.True(t, got[1].UnitPrice.Equal(decimal.NewFromInt(112)))
	assert.Equal(t, int64(4), got[1].Quantity)
}

func TestSummarize(t *testing.T) {
	s := inventory.Summarize([]*entity.CostLot{
		lot("a", 1, 100, 0, 3),
		lot("b", 2, 120, 0, 1),
		lot("gone", 3, 5, 0, 0),
	})
	assert.True(t, s.Minimum.Equal(decimal.NewFromInt(100)))
	assert.True(t, s.Maximum.Equal(decimal.NewFromInt(120)))
	assert.True(t, s.Total.Equal(decimal.NewFromInt(420)))
	assert.True(t, s.Average.Equal(decimal.NewFromInt(105)))

	empty := inventory.Summarize(nil)
	assert.True(t, empty.Total.IsZero())
}

func TestLotsToRecords_SkipsEmpty(t *testing.T) {
	got := inventory.LotsToRecords([]*entity.CostLot{lot("a", 1, 100, 0, 2), lot("b", 2, 90, 0, 0)})
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].LotID)
	assert.Equal(t, int64(2), got[0].Quantity)
}
