package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waterfire-source/Mycalinks-sub015/internal/application/dto"
	"github.com/waterfire-source/Mycalinks-sub015/internal/application/usecase"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
	"github.com/waterfire-source/Mycalinks-sub015/internal/infrastructure/memory"
)

type recordingInvalidator struct {
	stores []string
	err    error
}

func (r *recordingInvalidator) Invalidate(_ context.Context, storeID string) error {
	r.stores = append(r.stores, storeID)
	return r.err
}

func TestSettingsUseCase_DefaultThenUpdate(t *testing.T) {
	ctx := context.Background()
	inv := &recordingInvalidator{}
	uc := usecase.NewSettingsUseCase(memory.NewStore().Settings(), entity.DefaultLedgerPolicy(), inv)

	got, err := uc.Get(ctx, "store-1")
	require.NoError(t, err)
	assert.True(t, got.Default)
	assert.Equal(t, "individual", got.KeepRule)
	assert.Equal(t, "oldest_arrival_first", got.AllocationOrder)

	updated, err := uc.Update(ctx, "store-1", dto.UpdateSettingsRequest{KeepRule: "average", AllocationOrder: "highest_cost_first"})
	require.NoError(t, err)
	assert.False(t, updated.Default)
	assert.Equal(t, []string{"store-1"}, inv.stores)

	got, err = uc.Get(ctx, "store-1")
	require.NoError(t, err)
	assert.False(t, got.Default)
	assert.Equal(t, "average", got.KeepRule)
	assert.Equal(t, "highest_cost_first", got.AllocationOrder)
}

func TestSettingsUseCase_UpdateRejectsUnknownPolicy(t *testing.T) {
	uc := usecase.NewSettingsUseCase(memory.NewStore().Settings(), entity.DefaultLedgerPolicy(), nil)
	_, err := uc.Update(context.Background(), "store-1", dto.UpdateSettingsRequest{KeepRule: "average", AllocationOrder: "random"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsUseCase_InvalidateFailureSurfaces(t *testing.T) {
	inv := &recordingInvalidator{err: errors.New("redis down")}
	uc := usecase.NewSettingsUseCase(memory.NewStore().Settings(), entity.DefaultLedgerPolicy(), inv)
	_, err := uc.Update(context.Background(), "store-1", dto.UpdateSettingsRequest{KeepRule: "individual", AllocationOrder: "lowest_cost_first"})
	assert.Error(t, err)
}
