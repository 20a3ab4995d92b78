package redis

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/waterfire-source/Mycalinks-sub015/internal/application/inventory"
	"github.com/waterfire-source/Mycalinks-sub015/pkg/logger"
)

var _ inventory.Locker = (*Locker)(nil)

// Locker bloqueo distribuido entre réplicas del servicio.
type Locker struct {
	client *redislock.Client
	log    *logger.Logger
}

// NewLocker construye el bloqueo sobre un cliente de redislock.
func NewLocker(client redislock.RedisClient, log *logger.Logger) *Locker {
	if log == nil {
		log = logger.Nop()
	}
	return &Locker{client: redislock.New(client), log: log}
}

// Obtain intenta tomar la clave una sola vez; si está tomada devuelve inventory.ErrLockNotObtained.
func (l *Locker) Obtain(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	lock, err := l.client.Obtain(ctx, key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, inventory.ErrLockNotObtained
	}
	if err != nil {
		return nil, err
	}
	return func() {
		// Release usa un contexto propio: el de la petición puede estar cancelado.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := lock.Release(ctx); err != nil {
			// La clave expira sola al vencer el TTL.
			l.log.Warn().Err(err).Str("key", key).Msg("no se pudo liberar el bloqueo")
		}
	}, nil
}
