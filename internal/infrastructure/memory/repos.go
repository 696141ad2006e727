package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-core/internal/domain"
	"github.com/jhoicas/tienda-core/internal/domain/entity"
	"github.com/jhoicas/tienda-core/internal/domain/repository"
)

var (
	_ repository.InventoryItemRepository = (*itemRepo)(nil)
	_ repository.ProductRepository       = (*productRepo)(nil)
	_ repository.StockMovementRepository = (*movementRepo)(nil)
	_ repository.SaleRepository          = (*saleRepo)(nil)
	_ repository.OrderLineRepository     = (*lineRepo)(nil)
	_ repository.ReturnRepository        = (*returnRepo)(nil)
	_ repository.IncomeRepository        = (*incomeRepo)(nil)
	_ repository.DocumentRepository      = (*documentRepo)(nil)
	_ repository.LocationRepository      = (*locationRepo)(nil)
	_ repository.CustomerRepository      = (*customerRepo)(nil)
	_ repository.AccountCodeRepository   = (*accountCodeRepo)(nil)
)

type itemRepo struct{ b *binding }

func (r *itemRepo) GetByID(_ context.Context, id string) (*entity.InventoryItem, error) {
	var out *entity.InventoryItem
	r.b.read(func(st *state) {
		if it, ok := st.items[id]; ok {
			cp := *it
			out = &cp
		}
	})
	return out, nil
}

func (r *itemRepo) GetByProductAndLocation(_ context.Context, productID, locationID string) (*entity.InventoryItem, error) {
	var out *entity.InventoryItem
	r.b.read(func(st *state) {
		if id, ok := st.itemIndex[itemKey(productID, locationID)]; ok {
			cp := *st.items[id]
			out = &cp
		}
	})
	return out, nil
}

func (r *itemRepo) ListByProduct(_ context.Context, productID string) ([]*entity.InventoryItem, error) {
	var out []*entity.InventoryItem
	r.b.read(func(st *state) {
		for _, it := range st.items {
			if it.ProductID == productID {
				cp := *it
				out = append(out, &cp)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].LocationID < out[j].LocationID })
	return out, nil
}

func (r *itemRepo) Create(ctx context.Context, item *entity.InventoryItem) error {
	return r.b.write(ctx, func(st *state) error {
		key := itemKey(item.ProductID, item.LocationID)
		if _, ok := st.itemIndex[key]; ok {
			return domain.ErrDuplicate
		}
		cp := *item
		st.items[item.ID] = &cp
		st.itemIndex[key] = item.ID
		return nil
	})
}

func (r *itemRepo) Decrement(ctx context.Context, productID, locationID string, qty int64) (*entity.InventoryItem, error) {
	var out *entity.InventoryItem
	err := r.b.write(ctx, func(st *state) error {
		id, ok := st.itemIndex[itemKey(productID, locationID)]
		if !ok {
			return nil
		}
		it := st.items[id]
		if it.QuantityLeft < qty {
			return nil
		}
		it.QuantityLeft -= qty
		cp := *it
		out = &cp
		return nil
	})
	return out, err
}

func (r *itemRepo) Increment(ctx context.Context, productID, locationID string, qty int64) (*entity.InventoryItem, error) {
	var out *entity.InventoryItem
	err := r.b.write(ctx, func(st *state) error {
		id, ok := st.itemIndex[itemKey(productID, locationID)]
		if !ok {
			return nil
		}
		it := st.items[id]
		it.QuantityLeft += qty
		cp := *it
		out = &cp
		return nil
	})
	return out, err
}

func (r *itemRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return r.b.write(ctx, func(st *state) error {
		it, ok := st.items[id]
		if !ok {
			return domain.ErrNotFound
		}
		it.Status = status
		return nil
	})
}

func (r *itemRepo) UpdateCost(ctx context.Context, id string, unitCost decimal.Decimal) error {
	return r.b.write(ctx, func(st *state) error {
		it, ok := st.items[id]
		if !ok {
			return domain.ErrNotFound
		}
		it.UnitCost = unitCost
		return nil
	})
}

func (r *itemRepo) SumByProduct(_ context.Context, productID string) (int64, error) {
	var sum int64
	r.b.read(func(st *state) {
		for _, it := range st.items {
			if it.ProductID == productID {
				sum += it.QuantityLeft
			}
		}
	})
	return sum, nil
}

type productRepo struct{ b *binding }

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	r.b.read(func(st *state) {
		if p, ok := st.products[id]; ok {
			cp := *p
			out = &cp
		}
	})
	return out, nil
}

// GetForUpdate las transacciones ya están serializadas; equivale a GetByID.
func (r *productRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *productRepo) UpdateStock(ctx context.Context, id string, quantity int64, status string) error {
	return r.b.write(ctx, func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		p.Quantity = quantity
		p.Status = status
		return nil
	})
}

func (r *productRepo) UpdateCost(ctx context.Context, id string, purchasePrice decimal.Decimal) error {
	return r.b.write(ctx, func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		p.PurchasePrice = purchasePrice
		return nil
	})
}

type movementRepo struct{ b *binding }

func (r *movementRepo) Append(ctx context.Context, m *entity.StockMovement) error {
	return r.b.write(ctx, func(st *state) error {
		cp := *m
		st.movements = append(st.movements, &cp)
		return nil
	})
}

func (r *movementRepo) ListByItem(_ context.Context, itemID string, limit, offset int) ([]*entity.StockMovement, error) {
	var all []*entity.StockMovement
	r.b.read(func(st *state) {
		// más recientes primero
		for i := len(st.movements) - 1; i >= 0; i-- {
			if st.movements[i].InventoryItemID == itemID {
				cp := *st.movements[i]
				all = append(all, &cp)
			}
		}
	})
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

type saleRepo struct{ b *binding }

func (r *saleRepo) Create(ctx context.Context, s *entity.Sale) error {
	return r.b.write(ctx, func(st *state) error {
		if _, ok := st.sales[s.ID]; ok {
			return domain.ErrDuplicate
		}
		cp := *s
		st.sales[s.ID] = &cp
		return nil
	})
}

func (r *saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	r.b.read(func(st *state) {
		if s, ok := st.sales[id]; ok {
			cp := *s
			out = &cp
		}
	})
	return out, nil
}

func (r *saleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *saleRepo) Update(ctx context.Context, s *entity.Sale) error {
	return r.b.write(ctx, func(st *state) error {
		if _, ok := st.sales[s.ID]; !ok {
			return domain.ErrNotFound
		}
		cp := *s
		st.sales[s.ID] = &cp
		return nil
	})
}

type lineRepo struct{ b *binding }

func (r *lineRepo) Create(ctx context.Context, l *entity.OrderLine) error {
	return r.b.write(ctx, func(st *state) error {
		cp := *l
		st.lines[l.ID] = &cp
		st.lineIDs = append(st.lineIDs, l.ID)
		return nil
	})
}

func (r *lineRepo) GetByID(_ context.Context, id string) (*entity.OrderLine, error) {
	var out *entity.OrderLine
	r.b.read(func(st *state) {
		if l, ok := st.lines[id]; ok {
			cp := *l
			out = &cp
		}
	})
	return out, nil
}

func (r *lineRepo) GetForUpdate(ctx context.Context, id string) (*entity.OrderLine, error) {
	return r.GetByID(ctx, id)
}

func (r *lineRepo) ListBySale(_ context.Context, saleID string) ([]*entity.OrderLine, error) {
	var out []*entity.OrderLine
	r.b.read(func(st *state) {
		for _, id := range st.lineIDs {
			if l := st.lines[id]; l.SaleID == saleID {
				cp := *l
				out = append(out, &cp)
			}
		}
	})
	return out, nil
}

func (r *lineRepo) Update(ctx context.Context, l *entity.OrderLine) error {
	return r.b.write(ctx, func(st *state) error {
		cur, ok := st.lines[l.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Quantity = l.Quantity
		cur.PaymentStatus = l.PaymentStatus
		return nil
	})
}

type returnRepo struct{ b *binding }

func (r *returnRepo) Create(ctx context.Context, ret *entity.Return) error {
	return r.b.write(ctx, func(st *state) error {
		cp := *ret
		st.returns[ret.ID] = &cp
		st.returnIDs = append(st.returnIDs, ret.ID)
		return nil
	})
}

func (r *returnRepo) GetByID(_ context.Context, id string) (*entity.Return, error) {
	var out *entity.Return
	r.b.read(func(st *state) {
		if ret, ok := st.returns[id]; ok {
			cp := *ret
			out = &cp
		}
	})
	return out, nil
}

func (r *returnRepo) GetForUpdate(ctx context.Context, id string) (*entity.Return, error) {
	return r.GetByID(ctx, id)
}

func (r *returnRepo) ListBySale(_ context.Context, saleID string) ([]*entity.Return, error) {
	var out []*entity.Return
	r.b.read(func(st *state) {
		for _, id := range st.returnIDs {
			if ret := st.returns[id]; ret.SaleID == saleID {
				cp := *ret
				out = append(out, &cp)
			}
		}
	})
	return out, nil
}

func (r *returnRepo) Delete(ctx context.Context, id string) error {
	return r.b.write(ctx, func(st *state) error {
		if _, ok := st.returns[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.returns, id)
		ids := st.returnIDs[:0:0]
		for _, rid := range st.returnIDs {
			if rid != id {
				ids = append(ids, rid)
			}
		}
		st.returnIDs = ids
		return nil
	})
}

type incomeRepo struct{ b *binding }

func (r *incomeRepo) Create(ctx context.Context, in *entity.Income) error {
	return r.b.write(ctx, func(st *state) error {
		cp := *in
		st.incomes = append(st.incomes, &cp)
		return nil
	})
}

func (r *incomeRepo) ListBySale(_ context.Context, saleID string) ([]*entity.Income, error) {
	var out []*entity.Income
	r.b.read(func(st *state) {
		for _, in := range st.incomes {
			if in.SaleID == saleID {
				cp := *in
				out = append(out, &cp)
			}
		}
	})
	return out, nil
}

type documentRepo struct{ b *binding }

func (r *documentRepo) Create(ctx context.Context, doc *entity.SettlementDocument) error {
	return r.b.write(ctx, func(st *state) error {
		if _, ok := st.docBySale[doc.SaleID]; ok {
			return domain.DocumentConflict(doc.SaleID)
		}
		cp := *doc
		st.documents[doc.ID] = &cp
		st.docBySale[doc.SaleID] = doc.ID
		return nil
	})
}

func (r *documentRepo) GetBySale(_ context.Context, saleID string) (*entity.SettlementDocument, error) {
	var out *entity.SettlementDocument
	r.b.read(func(st *state) {
		if id, ok := st.docBySale[saleID]; ok {
			cp := *st.documents[id]
			out = &cp
		}
	})
	return out, nil
}

func (r *documentRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return r.b.write(ctx, func(st *state) error {
		doc, ok := st.documents[id]
		if !ok {
			return domain.ErrNotFound
		}
		doc.Status = status
		return nil
	})
}

type locationRepo struct{ b *binding }

func (r *locationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	var out *entity.Location
	r.b.read(func(st *state) {
		if l, ok := st.locations[id]; ok {
			cp := *l
			out = &cp
		}
	})
	return out, nil
}

func (r *locationRepo) GetDefault(_ context.Context, shopID string) (*entity.Location, error) {
	var out *entity.Location
	r.b.read(func(st *state) {
		for _, l := range st.locations {
			if l.ShopID == shopID && l.IsDefault {
				cp := *l
				out = &cp
				return
			}
		}
	})
	return out, nil
}

type customerRepo struct{ b *binding }

func (r *customerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	r.b.read(func(st *state) {
		if c, ok := st.customers[id]; ok {
			cp := *c
			out = &cp
		}
	})
	return out, nil
}

type accountCodeRepo struct{ b *binding }

func (r *accountCodeRepo) GetByCategory(_ context.Context, category string) (*entity.AccountCode, error) {
	var out *entity.AccountCode
	r.b.read(func(st *state) {
		if c, ok := st.codes[category]; ok {
			cp := *c
			out = &cp
		}
	})
	return out, nil
}
