package repository

import (
	"context"

	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
)

// BundleRepository define el puerto para la composición de bundles.
type BundleRepository interface {
	ListComponents(ctx context.Context, bundleProductID string) ([]entity.BundleComponent, error)
	ReplaceComponents(ctx context.Context, bundleProductID string, components []entity.BundleComponent) error
}
