// Package memory implementa los puertos de persistencia en memoria. Las transacciones se simulan
// con snapshot y restore; se usa en tests y en modo sin base de datos.
package memory

import (
	"context"
	"sync"

	"github.com/waterfire-source/Mycalinks-sub015/internal/application/inventory"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

// Store guarda todas las tablas como valores; las lecturas devuelven copias.
type Store struct {
	txMu sync.Mutex // serializa transacciones y escrituras fuera de ellas
	mu   sync.RWMutex
	data tables
}

type tables struct {
	products     map[string]entity.Product
	lots         map[string]entity.CostLot
	lotOrder     []string
	seq          int64
	movements    []entity.StockMovement
	packOpenings map[string]entity.PackOpenHistory
	bundles      map[string][]entity.BundleComponent
	settings     map[string]entity.StoreSettings
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{data: tables{
		products:     make(map[string]entity.Product),
		lots:         make(map[string]entity.CostLot),
		packOpenings: make(map[string]entity.PackOpenHistory),
		bundles:      make(map[string][]entity.BundleComponent),
		settings:     make(map[string]entity.StoreSettings),
	}}
}

// Run ejecuta fn con repos de transacción; si fn falla se restaura el snapshot.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.Repositories) error) error {
	return s.run(ctx, fn, false)
}

// DryRun ejecuta fn y siempre restaura el snapshot.
func (s *Store) DryRun(ctx context.Context, fn func(repos inventory.Repositories) error) error {
	return s.run(ctx, fn, true)
}

func (s *Store) run(ctx context.Context, fn func(repos inventory.Repositories) error, dryRun bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	err := fn(s.repositories(true))
	if err == nil {
		err = ctx.Err()
	}
	if err != nil || dryRun {
		s.restore(snap)
	}
	return err
}

// Repositories repos fuera de transacción (cada escritura es atómica por sí sola).
func (s *Store) Repositories() inventory.Repositories {
	return s.repositories(false)
}

func (s *Store) repositories(inTx bool) inventory.Repositories {
	return inventory.Repositories{
		Products:     &ProductRepo{s: s, inTx: inTx},
		Lots:         &CostLotRepo{s: s, inTx: inTx},
		Movements:    &StockMovementRepo{s: s, inTx: inTx},
		PackOpenings: &PackOpenRepo{s: s, inTx: inTx},
		Bundles:      &BundleRepo{s: s, inTx: inTx},
	}
}

// Settings repositorio de configuración por tienda.
func (s *Store) Settings() *StoreSettingsRepo {
	return &StoreSettingsRepo{s: s}
}

func (s *Store) read(fn func(t *tables)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.data)
}

func (s *Store) write(inTx bool, fn func(t *tables) error) error {
	if !inTx {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.data)
}

func (s *Store) snapshot() tables {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t := s.data
	snap := tables{
		products:     make(map[string]entity.Product, len(t.products)),
		lots:         make(map[string]entity.CostLot, len(t.lots)),
		lotOrder:     append([]string(nil), t.lotOrder...),
		seq:          t.seq,
		movements:    append([]entity.StockMovement(nil), t.movements...),
		packOpenings: make(map[string]entity.PackOpenHistory, len(t.packOpenings)),
		bundles:      make(map[string][]entity.BundleComponent, len(t.bundles)),
		settings:     make(map[string]entity.StoreSettings, len(t.settings)),
	}
	for k, v := range t.products {
		snap.products[k] = v
	}
	for k, v := range t.lots {
		snap.lots[k] = v
	}
	for k, v := range t.packOpenings {
		snap.packOpenings[k] = v
	}
	for k, v := range t.bundles {
		snap.bundles[k] = v
	}
	for k, v := range t.settings {
		snap.settings[k] = v
	}
	return snap
}

func (s *Store) restore(snap tables) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = snap
}
