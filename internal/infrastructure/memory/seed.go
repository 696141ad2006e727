package memory

import (
	"github.com/jhoicas/tienda-core/internal/domain/entity"
	"github.com/jhoicas/tienda-core/internal/domain/stock"
)

// Seed carga datos iniciales sin pasar por el ledger. Product.Quantity y los estados se
// recalculan a partir de los ítems para que el agregado arranque consistente.
type Seed struct {
	Locations    []*entity.Location
	Customers    []*entity.Customer
	AccountCodes []*entity.AccountCode
	Products     []*entity.Product
	Items        []*entity.InventoryItem
}

// Load aplica la semilla sobre el estado actual.
func (s *Store) Load(seed Seed) {
	s.sem <- struct{}{}
	defer func() { <-s.sem }()

	st := s.snapshot().clone()
	// el registro externo se comparte entre copias; se reemplaza completo
	locations := make(map[string]*entity.Location, len(st.locations)+len(seed.Locations))
	for k, v := range st.locations {
		locations[k] = v
	}
	for _, l := range seed.Locations {
		cp := *l
		locations[l.ID] = &cp
	}
	customers := make(map[string]*entity.Customer, len(st.customers)+len(seed.Customers))
	for k, v := range st.customers {
		customers[k] = v
	}
	for _, c := range seed.Customers {
		cp := *c
		customers[c.ID] = &cp
	}
	codes := make(map[string]*entity.AccountCode, len(st.codes)+len(seed.AccountCodes))
	for k, v := range st.codes {
		codes[k] = v
	}
	for _, c := range seed.AccountCodes {
		cp := *c
		codes[c.Category] = &cp
	}
	st.locations, st.customers, st.codes = locations, customers, codes

	for _, p := range seed.Products {
		cp := *p
		st.products[p.ID] = &cp
	}
	for _, it := range seed.Items {
		cp := *it
		cp.Status = stock.ItemStatus(cp.QuantityLeft, cp.ReorderPoint)
		st.items[it.ID] = &cp
		st.itemIndex[itemKey(it.ProductID, it.LocationID)] = it.ID
	}
	for _, p := range st.products {
		var sum int64
		for _, it := range st.items {
			if it.ProductID == p.ID {
				sum += it.QuantityLeft
			}
		}
		p.Quantity = sum
		p.Status = stock.ProductStatus(sum, p.ReorderPoint)
	}

	s.mu.Lock()
	s.current = st
	s.mu.Unlock()
}
