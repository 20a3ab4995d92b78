package inventory_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waterfire-source/Mycalinks-sub015/internal/application/inventory"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
	"github.com/waterfire-source/Mycalinks-sub015/internal/infrastructure/memory"
	"github.com/waterfire-source/Mycalinks-sub015/pkg/logger"
)

type failingPolicy struct{}

func (failingPolicy) Policy(context.Context, string) (entity.LedgerPolicy, error) {
	return entity.LedgerPolicy{}, errors.New("settings unavailable")
}

func newLoggedUseCase(t *testing.T, buf *bytes.Buffer, policies inventory.PolicySource) (*inventory.LedgerUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	require.NoError(t, repos.Products.Create(context.Background(), &entity.Product{
		ID: "p1", StoreID: storeID, DisplayName: "p1", Category: entity.CategoryNormal, CreatedAt: now,
	}))
	uc := inventory.NewLedgerUseCase(inventory.Deps{
		TxRunner:     store,
		Policies:     policies,
		Products:     repos.Products,
		Lots:         repos.Lots,
		Movements:    repos.Movements,
		PackOpenings: repos.PackOpenings,
		Logger:       logger.WithWriter(buf, "debug"),
		TxTimeout:    time.Minute,
		Now:          func() time.Time { return now },
	})
	return uc, store
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestLedgerUseCase_LogsOutcome(t *testing.T) {
	var buf bytes.Buffer
	uc, _ := newLoggedUseCase(t, &buf, staticPolicy{p: entity.DefaultLedgerPolicy()})
	ctx := context.Background()

	_, err := uc.Increase(ctx, inventory.IncreaseInput{
		StoreID: storeID, ProductID: "p1", Quantity: 2, UnitPrice: decimal.NewFromInt(100), Kind: entity.SourceTransactionBuy,
	})
	require.NoError(t, err)
	_, err = uc.Decrease(ctx, inventory.DecreaseInput{StoreID: storeID, ProductID: "p1", Quantity: 5, Kind: entity.SourceLoss, SourceID: "l1"})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	lines := logLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "increase", lines[0]["op"])
	assert.Equal(t, "p1", lines[0]["product_id"])
	assert.Equal(t, "transaction_buy", lines[0]["source_kind"])
	assert.EqualValues(t, 2, lines[0]["quantity"])

	assert.Equal(t, "debug", lines[1]["level"])
	assert.Equal(t, "decrease", lines[1]["op"])
	assert.Contains(t, lines[1]["error"], "stock insuficiente")
}

func TestLedgerUseCase_PolicyFailureAborts(t *testing.T) {
	var buf bytes.Buffer
	uc, store := newLoggedUseCase(t, &buf, failingPolicy{})

	_, err := uc.Increase(context.Background(), inventory.IncreaseInput{
		StoreID: storeID, ProductID: "p1", Quantity: 1, UnitPrice: decimal.NewFromInt(100), Kind: entity.SourceTransactionBuy,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ledger policy")

	p, err := store.Repositories().Products.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.StockNumber)
}

func TestLedgerUseCase_ListMovementsUnknownProduct(t *testing.T) {
	var buf bytes.Buffer
	uc, _ := newLoggedUseCase(t, &buf, staticPolicy{p: entity.DefaultLedgerPolicy()})
	_, err := uc.ListMovements(context.Background(), "other-store", "p1", 10, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
