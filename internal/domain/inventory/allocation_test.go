package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/inventory"
)

var day = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

func lot(id string, seq int64, price int64, arrivedDaysAgo int, remaining int64) *entity.CostLot {
	return &entity.CostLot{
		ID:                id,
		Sequence:          seq,
		UnitPrice:         decimal.NewFromInt(price),
		ArrivedAt:         day.AddDate(0, 0, -arrivedDaysAgo),
		RemainingQuantity: remaining,
	}
}

func ids(lots []*entity.CostLot) []string {
	out := make([]string, 0, len(lots))
	for _, l := range lots {
		out = append(out, l.ID)
	}
	return out
}

func TestOrderLots_Presets(t *testing.T) {
	lots := []*entity.CostLot{
		lot("b", 2, 120, 1, 5),
		lot("a", 1, 100, 3, 3),
		lot("c", 3, 80, 2, 1),
	}

	assert.Equal(t, []string{"a", "c", "b"}, ids(inventory.OrderLots(entity.OrderOldestArrivalFirst, lots)))
	assert.Equal(t, []string{"b", "c", "a"}, ids(inventory.OrderLots(entity.OrderNewestArrivalFirst, lots)))
	assert.Equal(t, []string{"b", "a", "c"}, ids(inventory.OrderLots(entity.OrderHighestCostFirst, lots)))
	assert.Equal(t, []string{"c", "a", "b"}, ids(inventory.OrderLots(entity.OrderLowestCostFirst, lots)))

	// el slice original no se reordena
	assert.Equal(t, []string{"b", "a", "c"}, ids(lots))
}

func TestOrderLots_TiesBySequence(t *testing.T) {
	lots := []*entity.CostLot{
		lot("late", 9, 100, 0, 1),
		lot("early", 4, 100, 0, 1),
	}
	for _, order := range []entity.AllocationOrder{
		entity.OrderOldestArrivalFirst, entity.OrderNewestArrivalFirst,
		entity.OrderHighestCostFirst, entity.OrderLowestCostFirst,
	} {
		assert.Equal(t, []string{"early", "late"}, ids(inventory.OrderLots(order, lots)), order)
	}
}

func TestOrderByCreation(t *testing.T) {
	lots := []*entity.CostLot{lot("2", 2, 1, 0, 1), lot("1", 1, 1, 0, 1), lot("3", 3, 1, 0, 1)}
	assert.Equal(t, []string{"1", "2", "3"}, ids(inventory.OrderByCreation(lots, false)))
	assert.Equal(t, []string{"3", "2", "1"}, ids(inventory.OrderByCreation(lots, true)))
}

func TestPlan_SplitsLastLot(t *testing.T) {
	lots := []*entity.CostLot{lot("a", 1, 100, 2, 3), lot("b", 2, 120, 1, 5)}

	takes, short := inventory.Plan(lots, 4)
	require.Zero(t, short)
	require.Len(t, takes, 2)
	assert.Equal(t, int64(3), takes[0].Quantity)
	assert.Equal(t, int64(1), takes[1].Quantity)

	records := inventory.Records(takes)
	assert.Equal(t, "a", records[0].LotID)
	assert.True(t, records[1].UnitPrice.Equal(decimal.NewFromInt(120)))
	assert.True(t, entity.TotalCost(records).Equal(decimal.NewFromInt(420)))
}

func TestPlan_ReportsShortfallAndSkipsEmpty(t *testing.T) {
	lots := []*entity.CostLot{lot("empty", 1, 100, 2, 0), lot("b", 2, 120, 1, 2)}

	takes, short := inventory.Plan(lots, 5)
	assert.Equal(t, int64(3), short)
	require.Len(t, takes, 1)
	assert.Equal(t, "b", takes[0].Lot.ID)
}

func TestFilterPrice(t *testing.T) {
	lots := []*entity.CostLot{lot("a", 1, 100, 0, 1), lot("b", 2, 120, 0, 1), lot("c", 3, 100, 0, 1)}
	assert.Equal(t, []string{"a", "c"}, ids(inventory.FilterPrice(lots, decimal.NewFromInt(100))))
	assert.Empty(t, inventory.FilterPrice(lots, decimal.NewFromInt(7)))
}

func TestPreferArrival(t *testing.T) {
	lots := []*entity.CostLot{lot("a", 1, 100, 3, 1), lot("b", 2, 100, 0, 1), lot("c", 3, 100, 5, 1), lot("d", 4, 100, 0, 1)}
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids(inventory.PreferArrival(lots, day)))
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(inventory.PreferArrival(lots, day.AddDate(1, 0, 0))))
}
