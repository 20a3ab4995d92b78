package repository

import (
	"context"
	"time"

	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
)

// PackOpenRepository define el puerto para los registros de apertura de cajas.
type PackOpenRepository interface {
	Create(ctx context.Context, history *entity.PackOpenHistory) error
	GetByID(ctx context.Context, id string) (*entity.PackOpenHistory, error)
	GetForUpdate(ctx context.Context, id string) (*entity.PackOpenHistory, error)
	MarkRolledBack(ctx context.Context, id string, at time.Time, description string) error
}
