// Package memory implementa los repositorios en memoria (STORAGE_DRIVER=memory y pruebas).
// Las transacciones se serializan con un mutex y trabajan sobre una copia del estado que se
// publica solo si fn no devuelve error.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/manufactura-api/internal/domain/entity"
	"github.com/jhoicas/manufactura-api/internal/domain/repository"
)

type companyKey struct {
	companyID string
	code      string
}

type binKey struct {
	companyID string
	itemCode  string
	warehouse string
}

// state datos de la tienda. Los valores guardados nunca se modifican en sitio:
// los repositorios guardan y devuelven copias.
type state struct {
	items      map[companyKey]entity.Item
	warehouses map[companyKey]entity.Warehouse
	entries    map[string]*entity.StockEntry
	recos      map[string]*entity.StockReconciliation
	bins       map[binKey]entity.Bin
	ledger     []entity.StockLedgerEntry
	series     map[string]int64
	users      map[string]entity.User
}

func newState() *state {
	return &state{
		items:      make(map[companyKey]entity.Item),
		warehouses: make(map[companyKey]entity.Warehouse),
		entries:    make(map[string]*entity.StockEntry),
		recos:      make(map[string]*entity.StockReconciliation),
		bins:       make(map[binKey]entity.Bin),
		series:     make(map[string]int64),
		users:      make(map[string]entity.User),
	}
}

func (s *state) clone() *state {
	c := &state{
		items:      make(map[companyKey]entity.Item, len(s.items)),
		warehouses: make(map[companyKey]entity.Warehouse, len(s.warehouses)),
		entries:    make(map[string]*entity.StockEntry, len(s.entries)),
		recos:      make(map[string]*entity.StockReconciliation, len(s.recos)),
		bins:       make(map[binKey]entity.Bin, len(s.bins)),
		ledger:     append([]entity.StockLedgerEntry(nil), s.ledger...),
		series:     make(map[string]int64, len(s.series)),
		users:      make(map[string]entity.User, len(s.users)),
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.warehouses {
		c.warehouses[k] = v
	}
	for k, v := range s.entries {
		c.entries[k] = v
	}
	for k, v := range s.recos {
		c.recos[k] = v
	}
	for k, v := range s.bins {
		c.bins[k] = v
	}
	for k, v := range s.series {
		c.series[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	return c
}

// Store almacenamiento en memoria con semántica transaccional.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea una tienda vacía.
func NewStore() *Store {
	return &Store{st: newState()}
}

// view ejecuta operaciones sobre el estado de una tx abierta o, sin tx, sobre el estado
// publicado tomando el lock (autocommit).
type view struct {
	store *Store
	tx    *state
}

func (v view) do(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.st)
}

// Run implementa stock.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(reposFor(view{store: s, tx: work})); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Repos repositorios en modo autocommit, para lecturas y datos maestros.
func (s *Store) Repos() repository.TxRepos {
	return reposFor(view{store: s})
}

// Users repositorio de usuarios.
func (s *Store) Users() repository.UserRepository {
	return &userRepo{view{store: s}}
}

func reposFor(v view) repository.TxRepos {
	return repository.TxRepos{
		Items:           &itemRepo{v},
		Warehouses:      &warehouseRepo{v},
		StockEntries:    &stockEntryRepo{v},
		Reconciliations: &reconciliationRepo{v},
		Ledger:          &ledgerRepo{v},
		Naming:          &namingRepo{v},
	}
}
