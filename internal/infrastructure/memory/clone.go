package memory

import "github.com/jhoicas/manufactura-api/internal/domain/entity"

func cloneStockEntry(e *entity.StockEntry) *entity.StockEntry {
	c := *e
	c.Items = make([]*entity.StockEntryDetail, len(e.Items))
	for i, d := range e.Items {
		cp := *d
		c.Items[i] = &cp
	}
	c.TintingItems = make([]*entity.TintingItem, len(e.TintingItems))
	for i, t := range e.TintingItems {
		cp := *t
		c.TintingItems[i] = &cp
	}
	c.FillingDetails = make([]*entity.FillingDetail, len(e.FillingDetails))
	for i, f := range e.FillingDetails {
		cp := *f
		c.FillingDetails[i] = &cp
	}
	return &c
}

func cloneReconciliation(r *entity.StockReconciliation) *entity.StockReconciliation {
	c := *r
	c.Items = make([]*entity.StockReconciliationItem, len(r.Items))
	for i, it := range r.Items {
		cp := *it
		c.Items[i] = &cp
	}
	return &c
}
