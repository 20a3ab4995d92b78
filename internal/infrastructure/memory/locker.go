package memory

import (
	"context"
	"sync"
	"time"

	"github.com/waterfire-source/Mycalinks-sub015/internal/application/inventory"
)

var _ inventory.Locker = (*Locker)(nil)

// Locker bloqueo por clave dentro de un solo proceso, con expiración.
type Locker struct {
	mu   sync.Mutex
	held map[string]time.Time
	now  func() time.Time
}

// NewLocker crea el bloqueo en memoria.
func NewLocker() *Locker {
	return &Locker{held: make(map[string]time.Time), now: time.Now}
}

// Obtain no espera: si la clave está tomada y vigente devuelve inventory.ErrLockNotObtained.
func (l *Locker) Obtain(_ context.Context, key string, ttl time.Duration) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if exp, ok := l.held[key]; ok && now.Before(exp) {
		return nil, inventory.ErrLockNotObtained
	}
	exp := now.Add(ttl)
	l.held[key] = exp
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.held[key].Equal(exp) {
			delete(l.held, key)
		}
	}, nil
}
