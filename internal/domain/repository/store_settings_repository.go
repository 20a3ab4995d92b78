package repository

import (
	"context"

	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
)

// StoreSettingsRepository define el puerto para la configuración del libro por tienda.
// Get devuelve (nil, nil) si la tienda no tiene configuración propia.
type StoreSettingsRepository interface {
	Get(ctx context.Context, storeID string) (*entity.StoreSettings, error)
	Upsert(ctx context.Context, settings *entity.StoreSettings) error
}
