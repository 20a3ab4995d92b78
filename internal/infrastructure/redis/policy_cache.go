package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/waterfire-source/Mycalinks-sub015/internal/application/inventory"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
	"github.com/waterfire-source/Mycalinks-sub015/pkg/logger"
)

var _ inventory.PolicySource = (*PolicyCache)(nil)

// PolicyCache decora una PolicySource guardando la política de cada tienda en Redis con TTL.
// Si Redis falla se consulta la fuente directamente.
type PolicyCache struct {
	client goredis.Cmdable
	next   inventory.PolicySource
	ttl    time.Duration
	log    *logger.Logger
}

// NewPolicyCache construye la caché.
func NewPolicyCache(client goredis.Cmdable, next inventory.PolicySource, ttl time.Duration, log *logger.Logger) *PolicyCache {
	if log == nil {
		log = logger.Nop()
	}
	return &PolicyCache{client: client, next: next, ttl: ttl, log: log}
}

func policyKey(storeID string) string {
	return "ledger-policy:" + storeID
}

// Policy devuelve la política cacheada o la lee de la fuente y la guarda.
func (c *PolicyCache) Policy(ctx context.Context, storeID string) (entity.LedgerPolicy, error) {
	val, err := c.client.Get(ctx, policyKey(storeID)).Result()
	switch {
	case err == nil:
		var p entity.LedgerPolicy
		if jsonErr := json.Unmarshal([]byte(val), &p); jsonErr == nil && p.Valid() {
			return p, nil
		}
	case !errors.Is(err, goredis.Nil):
		c.log.Warn().Err(err).Str("store_id", storeID).Msg("caché de política no disponible")
	}

	p, err := c.next.Policy(ctx, storeID)
	if err != nil {
		return p, err
	}
	payload, err := json.Marshal(p)
	if err == nil {
		err = c.client.Set(ctx, policyKey(storeID), payload, c.ttl).Err()
	}
	if err != nil {
		c.log.Warn().Err(err).Str("store_id", storeID).Msg("no se pudo cachear la política")
	}
	return p, nil
}

// Invalidate borra la política cacheada de la tienda (tras actualizar store_settings).
func (c *PolicyCache) Invalidate(ctx context.Context, storeID string) error {
	return c.client.Del(ctx, policyKey(storeID)).Err()
}
