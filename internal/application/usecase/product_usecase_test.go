package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waterfire-source/Mycalinks-sub015/internal/application/dto"
	"github.com/waterfire-source/Mycalinks-sub015/internal/application/usecase"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain"
	"github.com/waterfire-source/Mycalinks-sub015/internal/infrastructure/memory"
)

func newProductUseCase() (*usecase.ProductUseCase, *memory.Store) {
	store := memory.NewStore()
	return usecase.NewProductUseCase(store.Repositories().Products, store), store
}

func TestProductUseCase_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	uc, _ := newProductUseCase()

	created, err := uc.Create(ctx, "store-1", dto.CreateProductRequest{DisplayName: "Booster Box", Category: "box"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, int64(0), created.StockNumber)
	assert.True(t, created.TotalWholesalePrice.IsZero())

	got, err := uc.GetByID(ctx, "store-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Booster Box", got.DisplayName)

	_, err = uc.GetByID(ctx, "store-2", created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.List(ctx, "store-1", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 50, list.Page.Limit)
}

func TestProductUseCase_CreateRejectsUnknownCategory(t *testing.T) {
	uc, _ := newProductUseCase()
	_, err := uc.Create(context.Background(), "store-1", dto.CreateProductRequest{DisplayName: "x", Category: "figure"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductUseCase_SetBundleComponents(t *testing.T) {
	ctx := context.Background()
	uc, _ := newProductUseCase()

	bundle, err := uc.Create(ctx, "store-1", dto.CreateProductRequest{DisplayName: "Set", Category: "bundle"})
	require.NoError(t, err)
	card, err := uc.Create(ctx, "store-1", dto.CreateProductRequest{DisplayName: "Card", Category: "normal"})
	require.NoError(t, err)
	other, err := uc.Create(ctx, "store-1", dto.CreateProductRequest{DisplayName: "Set 2", Category: "bundle"})
	require.NoError(t, err)

	res, err := uc.SetBundleComponents(ctx, "store-1", bundle.ID, dto.SetBundleComponentsRequest{
		Components: []dto.BundleComponentRequest{{ProductID: card.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	require.Len(t, res.Components, 1)

	got, err := uc.GetBundleComponents(ctx, "store-1", bundle.ID)
	require.NoError(t, err)
	assert.Equal(t, res, got)

	t.Run("nested bundle", func(t *testing.T) {
		_, err := uc.SetBundleComponents(ctx, "store-1", bundle.ID, dto.SetBundleComponentsRequest{
			Components: []dto.BundleComponentRequest{{ProductID: other.ID, Quantity: 1}},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
	t.Run("not a bundle", func(t *testing.T) {
		_, err := uc.SetBundleComponents(ctx, "store-1", card.ID, dto.SetBundleComponentsRequest{
			Components: []dto.BundleComponentRequest{{ProductID: other.ID, Quantity: 1}},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
	t.Run("duplicate component", func(t *testing.T) {
		_, err := uc.SetBundleComponents(ctx, "store-1", bundle.ID, dto.SetBundleComponentsRequest{
			Components: []dto.BundleComponentRequest{{ProductID: card.ID, Quantity: 1}, {ProductID: card.ID, Quantity: 2}},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
	t.Run("unknown component", func(t *testing.T) {
		_, err := uc.SetBundleComponents(ctx, "store-1", bundle.ID, dto.SetBundleComponentsRequest{
			Components: []dto.BundleComponentRequest{{ProductID: "missing", Quantity: 1}},
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
