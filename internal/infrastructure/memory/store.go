// Package memory implementa los puertos de persistencia en proceso. Cada transacción trabaja
// sobre una copia del estado y la confirma reemplazándolo completo, así que un error a mitad
// de camino no deja rastro.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/tienda-core/internal/application/ports"
	"github.com/jhoicas/tienda-core/internal/domain"
	"github.com/jhoicas/tienda-core/internal/domain/entity"
)

type state struct {
	items     map[string]*entity.InventoryItem
	itemIndex map[string]string // producto|ubicación -> item id
	products  map[string]*entity.Product
	movements []*entity.StockMovement
	sales     map[string]*entity.Sale
	lines     map[string]*entity.OrderLine
	lineIDs   []string
	returns   map[string]*entity.Return
	returnIDs []string
	incomes   []*entity.Income
	documents map[string]*entity.SettlementDocument
	docBySale map[string]string
	locations map[string]*entity.Location
	customers map[string]*entity.Customer
	codes     map[string]*entity.AccountCode
}

func newState() *state {
	return &state{
		items:     map[string]*entity.InventoryItem{},
		itemIndex: map[string]string{},
		products:  map[string]*entity.Product{},
		sales:     map[string]*entity.Sale{},
		lines:     map[string]*entity.OrderLine{},
		returns:   map[string]*entity.Return{},
		documents: map[string]*entity.SettlementDocument{},
		docBySale: map[string]string{},
		locations: map[string]*entity.Location{},
		customers: map[string]*entity.Customer{},
		codes:     map[string]*entity.AccountCode{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.items {
		cp := *v
		c.items[k] = &cp
	}
	for k, v := range s.itemIndex {
		c.itemIndex[k] = v
	}
	for k, v := range s.products {
		cp := *v
		c.products[k] = &cp
	}
	c.movements = append(c.movements, s.movements...)
	for k, v := range s.sales {
		cp := *v
		c.sales[k] = &cp
	}
	for k, v := range s.lines {
		cp := *v
		c.lines[k] = &cp
	}
	c.lineIDs = append(c.lineIDs, s.lineIDs...)
	for k, v := range s.returns {
		cp := *v
		c.returns[k] = &cp
	}
	c.returnIDs = append(c.returnIDs, s.returnIDs...)
	c.incomes = append(c.incomes, s.incomes...)
	for k, v := range s.documents {
		cp := *v
		c.documents[k] = &cp
	}
	for k, v := range s.docBySale {
		c.docBySale[k] = v
	}
	// Registro externo: solo lectura, se comparte.
	c.locations = s.locations
	c.customers = s.customers
	c.codes = s.codes
	return c
}

func itemKey(productID, locationID string) string {
	return productID + "|" + locationID
}

// Store base de datos en memoria. Las transacciones se serializan; las lecturas fuera de
// transacción ven el último estado confirmado.
type Store struct {
	sem     chan struct{} // un escritor a la vez
	mu      sync.RWMutex
	current *state
	timeout time.Duration

	commitHook func() error
}

// Option configura el Store.
type Option func(*Store)

// WithTxTimeout acota la duración de cada transacción.
func WithTxTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

// NewStore crea un Store vacío.
func NewStore(opts ...Option) *Store {
	s := &Store{
		sem:     make(chan struct{}, 1),
		current: newState(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetCommitHook instala una función que se evalúa antes de cada commit; si devuelve error
// la transacción se descarta como fallo de persistencia. nil la desinstala.
func (s *Store) SetCommitHook(fn func() error) {
	s.sem <- struct{}{}
	s.commitHook = fn
	<-s.sem
}

// snapshot estado confirmado; nunca se modifica, las transacciones trabajan sobre copias.
func (s *Store) snapshot() *state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// apply ejecuta fn sobre una copia del estado y la confirma si no hubo error.
func (s *Store) apply(ctx context.Context, fn func(st *state) error) error {
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return domain.PersistenceFailure(ctx.Err())
	}
	defer func() { <-s.sem }()

	work := s.snapshot().clone()
	if err := fn(work); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return domain.PersistenceFailure(err)
	}
	if s.commitHook != nil {
		if err := s.commitHook(); err != nil {
			return domain.PersistenceFailure(err)
		}
	}
	s.mu.Lock()
	s.current = work
	s.mu.Unlock()
	return nil
}

// Run implementa ports.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos ports.Repositories) error) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.apply(ctx, func(st *state) error {
		return fn(ctx, bundle(&binding{store: s, tx: st}))
	})
}

// Repositories devuelve repositorios fuera de transacción: leen el último estado confirmado
// y cada escritura es su propia transacción.
func (s *Store) Repositories() ports.Repositories {
	return bundle(&binding{store: s})
}

// Registry devuelve los colaboradores externos (ubicaciones, clientes, códigos contables).
func (s *Store) Registry() ports.Registry {
	b := &binding{store: s}
	return ports.Registry{
		Locations:    &locationRepo{b},
		Customers:    &customerRepo{b},
		AccountCodes: &accountCodeRepo{b},
	}
}

func bundle(b *binding) ports.Repositories {
	return ports.Repositories{
		Items:     &itemRepo{b},
		Products:  &productRepo{b},
		Movements: &movementRepo{b},
		Sales:     &saleRepo{b},
		Lines:     &lineRepo{b},
		Returns:   &returnRepo{b},
		Incomes:   &incomeRepo{b},
		Documents: &documentRepo{b},
	}
}

// binding ata un repositorio a una transacción (tx != nil) o al estado confirmado.
type binding struct {
	store *Store
	tx    *state
}

func (b *binding) read(fn func(st *state)) {
	if b.tx != nil {
		fn(b.tx)
		return
	}
	fn(b.store.snapshot())
}

func (b *binding) write(ctx context.Context, fn func(st *state) error) error {
	if b.tx != nil {
		return fn(b.tx)
	}
	return b.store.apply(ctx, fn)
}

// Counts totales por tabla (inspección en tests y seed).
type Counts struct {
	Sales     int
	Lines     int
	Movements int
	Incomes   int
	Documents int
	Returns   int
}

// Counts devuelve los totales del último estado confirmado.
func (s *Store) Counts() Counts {
	st := s.snapshot()
	return Counts{
		Sales:     len(st.sales),
		Lines:     len(st.lines),
		Movements: len(st.movements),
		Incomes:   len(st.incomes),
		Documents: len(st.documents),
		Returns:   len(st.returns),
	}
}
