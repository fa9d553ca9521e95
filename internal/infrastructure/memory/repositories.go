package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/manufactura-api/internal/domain"
	"github.com/jhoicas/manufactura-api/internal/domain/entity"
	"github.com/jhoicas/manufactura-api/internal/domain/repository"
)

var (
	_ repository.ItemRepository                = (*itemRepo)(nil)
	_ repository.WarehouseRepository           = (*warehouseRepo)(nil)
	_ repository.StockEntryRepository          = (*stockEntryRepo)(nil)
	_ repository.StockReconciliationRepository = (*reconciliationRepo)(nil)
	_ repository.StockLedgerRepository         = (*ledgerRepo)(nil)
	_ repository.NamingSeriesRepository        = (*namingRepo)(nil)
	_ repository.UserRepository                = (*userRepo)(nil)
)

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

type itemRepo struct{ v view }

func (r *itemRepo) Create(_ context.Context, item *entity.Item) error {
	return r.v.do(func(st *state) error {
		k := companyKey{item.CompanyID, item.ItemCode}
		if _, ok := st.items[k]; ok {
			return domain.ErrDuplicate
		}
		st.items[k] = *item
		return nil
	})
}

func (r *itemRepo) Get(_ context.Context, companyID, itemCode string) (*entity.Item, error) {
	var out *entity.Item
	err := r.v.do(func(st *state) error {
		if it, ok := st.items[companyKey{companyID, itemCode}]; ok {
			out = &it
		}
		return nil
	})
	return out, err
}

func (r *itemRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Item, error) {
	var out []*entity.Item
	err := r.v.do(func(st *state) error {
		for k, it := range st.items {
			if k.companyID == companyID {
				it := it
				out = append(out, &it)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ItemCode < out[j].ItemCode })
	return page(out, limit, offset), err
}

type warehouseRepo struct{ v view }

func (r *warehouseRepo) Create(_ context.Context, wh *entity.Warehouse) error {
	return r.v.do(func(st *state) error {
		k := companyKey{wh.CompanyID, wh.ID}
		if _, ok := st.warehouses[k]; ok {
			return domain.ErrDuplicate
		}
		st.warehouses[k] = *wh
		return nil
	})
}

func (r *warehouseRepo) Get(_ context.Context, companyID, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.v.do(func(st *state) error {
		if wh, ok := st.warehouses[companyKey{companyID, id}]; ok {
			out = &wh
		}
		return nil
	})
	return out, err
}

func (r *warehouseRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	err := r.v.do(func(st *state) error {
		for k, wh := range st.warehouses {
			if k.companyID == companyID {
				wh := wh
				out = append(out, &wh)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), err
}

type stockEntryRepo struct{ v view }

func (r *stockEntryRepo) Create(_ context.Context, e *entity.StockEntry) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.entries[e.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, other := range st.entries {
			if other.Name == e.Name {
				return domain.ErrDuplicate
			}
		}
		st.entries[e.ID] = cloneStockEntry(e)
		return nil
	})
}

func (r *stockEntryRepo) Update(_ context.Context, e *entity.StockEntry) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.entries[e.ID]; !ok {
			return domain.ErrNotFound
		}
		st.entries[e.ID] = cloneStockEntry(e)
		return nil
	})
}

func (r *stockEntryRepo) GetByID(_ context.Context, id string) (*entity.StockEntry, error) {
	var out *entity.StockEntry
	err := r.v.do(func(st *state) error {
		if e, ok := st.entries[id]; ok {
			out = cloneStockEntry(e)
		}
		return nil
	})
	return out, err
}

func (r *stockEntryRepo) List(_ context.Context, f repository.StockEntryFilter) ([]*entity.StockEntry, error) {
	var out []*entity.StockEntry
	err := r.v.do(func(st *state) error {
		for _, e := range st.entries {
			if e.CompanyID != f.CompanyID {
				continue
			}
			if f.StockEntryType != "" && e.StockEntryType != f.StockEntryType {
				continue
			}
			if f.DocStatus != nil && e.DocStatus != *f.DocStatus {
				continue
			}
			out = append(out, cloneStockEntry(e))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	return page(out, f.Limit, f.Offset), err
}

func (r *stockEntryRepo) ListLinked(_ context.Context, companyID, productionEntryName string) ([]*entity.StockEntry, error) {
	var out []*entity.StockEntry
	err := r.v.do(func(st *state) error {
		for _, e := range st.entries {
			if e.CompanyID == companyID && e.LinkedProductionEntry == productionEntryName {
				out = append(out, cloneStockEntry(e))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

type reconciliationRepo struct{ v view }

func (r *reconciliationRepo) Create(_ context.Context, reco *entity.StockReconciliation) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.recos[reco.ID]; ok {
			return domain.ErrDuplicate
		}
		st.recos[reco.ID] = cloneReconciliation(reco)
		return nil
	})
}

func (r *reconciliationRepo) Update(_ context.Context, reco *entity.StockReconciliation) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.recos[reco.ID]; !ok {
			return domain.ErrNotFound
		}
		st.recos[reco.ID] = cloneReconciliation(reco)
		return nil
	})
}

func (r *reconciliationRepo) GetByID(_ context.Context, id string) (*entity.StockReconciliation, error) {
	var out *entity.StockReconciliation
	err := r.v.do(func(st *state) error {
		if reco, ok := st.recos[id]; ok {
			out = cloneReconciliation(reco)
		}
		return nil
	})
	return out, err
}

type ledgerRepo struct{ v view }

func (r *ledgerRepo) GetBinForUpdate(_ context.Context, companyID, itemCode, warehouse string) (*entity.Bin, error) {
	var out entity.Bin
	err := r.v.do(func(st *state) error {
		b, ok := st.bins[binKey{companyID, itemCode, warehouse}]
		if !ok {
			b = entity.Bin{CompanyID: companyID, ItemCode: itemCode, Warehouse: warehouse}
		}
		out = b
		return nil
	})
	return &out, err
}

func (r *ledgerRepo) UpsertBin(_ context.Context, bin *entity.Bin) error {
	return r.v.do(func(st *state) error {
		st.bins[binKey{bin.CompanyID, bin.ItemCode, bin.Warehouse}] = *bin
		return nil
	})
}

func (r *ledgerRepo) CreateEntry(_ context.Context, sle *entity.StockLedgerEntry) error {
	return r.v.do(func(st *state) error {
		st.ledger = append(st.ledger, *sle)
		return nil
	})
}

func (r *ledgerRepo) GetItemwiseBatch(_ context.Context, companyID, warehouse string, postingDate time.Time) (map[entity.ItemWarehouse][]entity.BatchQty, error) {
	y, m, d := postingDate.Date()
	until := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)

	sums := make(map[entity.ItemWarehouse]map[string]decimal.Decimal)
	err := r.v.do(func(st *state) error {
		for _, sle := range st.ledger {
			if sle.CompanyID != companyID || sle.Warehouse != warehouse || sle.BatchNo == "" {
				continue
			}
			if !sle.PostingDateTime.Before(until) {
				continue
			}
			k := entity.ItemWarehouse{ItemCode: sle.ItemCode, Warehouse: sle.Warehouse}
			if sums[k] == nil {
				sums[k] = make(map[string]decimal.Decimal)
			}
			sums[k][sle.BatchNo] = sums[k][sle.BatchNo].Add(sle.ActualQty)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make(map[entity.ItemWarehouse][]entity.BatchQty, len(sums))
	for k, batches := range sums {
		list := make([]entity.BatchQty, 0, len(batches))
		for b, q := range batches {
			list = append(list, entity.BatchQty{BatchNo: b, Qty: q})
		}
		sort.Slice(list, func(i, j int) bool { return list[i].BatchNo < list[j].BatchNo })
		out[k] = list
	}
	return out, nil
}

func (r *ledgerRepo) GetStockBalance(_ context.Context, companyID, itemCode, warehouse string, at time.Time) (decimal.Decimal, decimal.Decimal, error) {
	qty, rate := decimal.Zero, decimal.Zero
	err := r.v.do(func(st *state) error {
		var last *entity.StockLedgerEntry
		for i := range st.ledger {
			sle := &st.ledger[i]
			if sle.CompanyID != companyID || sle.ItemCode != itemCode || sle.Warehouse != warehouse {
				continue
			}
			if sle.PostingDateTime.After(at) {
				continue
			}
			qty = qty.Add(sle.ActualQty)
			if last == nil || !sle.PostingDateTime.Before(last.PostingDateTime) {
				last = sle
			}
		}
		if last != nil {
			rate = last.ValuationRate
		}
		return nil
	})
	return qty, rate, err
}

func (r *ledgerRepo) GetBatchBalance(_ context.Context, companyID, itemCode, warehouse, batchNo string, at time.Time) (decimal.Decimal, error) {
	qty := decimal.Zero
	err := r.v.do(func(st *state) error {
		for _, sle := range st.ledger {
			if sle.CompanyID != companyID || sle.ItemCode != itemCode || sle.Warehouse != warehouse || sle.BatchNo != batchNo {
				continue
			}
			if sle.PostingDateTime.After(at) {
				continue
			}
			qty = qty.Add(sle.ActualQty)
		}
		return nil
	})
	return qty, err
}

type namingRepo struct{ v view }

func (r *namingRepo) Next(_ context.Context, prefix string) (int64, error) {
	var n int64
	err := r.v.do(func(st *state) error {
		st.series[prefix]++
		n = st.series[prefix]
		return nil
	})
	return n, err
}

type userRepo struct{ v view }

func (r *userRepo) Create(_ context.Context, user *entity.User) error {
	return r.v.do(func(st *state) error {
		for _, u := range st.users {
			if u.Email == user.Email {
				return domain.ErrEmailAlreadyExists
			}
		}
		st.users[user.ID] = *user
		return nil
	})
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.v.do(func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.v.do(func(st *state) error {
		for _, u := range st.users {
			if u.Email == email {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}
