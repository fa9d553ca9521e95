package stock

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/manufactura-api/internal/domain"
	"github.com/jhoicas/manufactura-api/internal/domain/entity"
	"github.com/jhoicas/manufactura-api/internal/domain/repository"
)

// masterCache evita consultar varias veces el mismo artículo o bodega durante una validación.
type masterCache struct {
	repos      repository.TxRepos
	companyID  string
	items      map[string]*entity.Item
	warehouses map[string]bool
}

func newMasterCache(repos repository.TxRepos, companyID string) *masterCache {
	return &masterCache{
		repos:      repos,
		companyID:  companyID,
		items:      make(map[string]*entity.Item),
		warehouses: make(map[string]bool),
	}
}

func (c *masterCache) item(ctx context.Context, code string) (*entity.Item, error) {
	if it, ok := c.items[code]; ok {
		if it == nil {
			return nil, domain.Throw("Item %s not found", code)
		}
		return it, nil
	}
	it, err := c.repos.Items.Get(ctx, c.companyID, code)
	if err != nil {
		return nil, err
	}
	c.items[code] = it
	if it == nil {
		return nil, domain.Throw("Item %s not found", code)
	}
	return it, nil
}

func (c *masterCache) warehouse(ctx context.Context, id string) error {
	if ok, seen := c.warehouses[id]; seen {
		if !ok {
			return domain.Throw("Warehouse %s not found", id)
		}
		return nil
	}
	wh, err := c.repos.Warehouses.Get(ctx, c.companyID, id)
	if err != nil {
		return err
	}
	ok := wh != nil
	c.warehouses[id] = ok
	if !ok {
		return domain.Throw("Warehouse %s not found", id)
	}
	return nil
}

func (c *masterCache) optionalWarehouse(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return c.warehouse(ctx, id)
}

// normalizeStockEntry limpia espacios de códigos y completa valores por defecto.
func normalizeStockEntry(e *entity.StockEntry, now time.Time) {
	e.StockEntryType = strings.TrimSpace(e.StockEntryType)
	if e.PostingDate.IsZero() {
		e.PostingDate = now
	}
	y, m, d := e.PostingDate.Date()
	e.PostingDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if strings.TrimSpace(e.PostingTime) == "" {
		e.PostingTime = now.Format("15:04:05")
	}
	for i, it := range e.Items {
		it.Idx = i + 1
		it.ItemCode = strings.TrimSpace(it.ItemCode)
		it.SWarehouse = strings.TrimSpace(it.SWarehouse)
		it.TWarehouse = strings.TrimSpace(it.TWarehouse)
		it.BatchNo = strings.TrimSpace(it.BatchNo)
		if it.ConversionFactor.IsZero() {
			it.ConversionFactor = decimal.NewFromInt(1)
		}
	}
	for i, t := range e.TintingItems {
		t.Idx = i + 1
		t.TintItem = strings.TrimSpace(t.TintItem)
		t.FinalProduct = strings.TrimSpace(t.FinalProduct)
		t.SourceWarehouse = strings.TrimSpace(t.SourceWarehouse)
		t.TargetWarehouse = strings.TrimSpace(t.TargetWarehouse)
	}
	for i, f := range e.FillingDetails {
		f.Idx = i + 1
		f.BulkItem = strings.TrimSpace(f.BulkItem)
		f.FilledItem = strings.TrimSpace(f.FilledItem)
		f.TargetWarehouse = strings.TrimSpace(f.TargetWarehouse)
	}
}

// validateStockEntry reglas propias del documento, previas a los hooks.
func validateStockEntry(ctx context.Context, repos repository.TxRepos, e *entity.StockEntry) error {
	switch e.StockEntryType {
	case entity.StockEntryTypeManufacture, entity.StockEntryTypeMaterialIssue, entity.StockEntryTypeMaterialReceipt:
	default:
		return domain.Throw("Invalid Stock Entry Type %q", e.StockEntryType)
	}
	if _, ok := entity.ParsePostingTime(e.PostingTime); !ok {
		return domain.Throw("Invalid Posting Time %q, expected HH:MM:SS", e.PostingTime)
	}
	if len(e.Items) == 0 {
		return domain.Throw("Items are required")
	}

	cache := newMasterCache(repos, e.CompanyID)
	finished := 0
	for _, d := range e.Items {
		if d.ItemCode == "" {
			return domain.Throw("Row #%d: Item Code is required", d.Idx)
		}
		if !d.Qty.IsPositive() {
			return domain.Throw("Row #%d: Quantity for item %s must be greater than zero", d.Idx, d.ItemCode)
		}
		if d.ConversionFactor.IsNegative() {
			return domain.Throw("Row #%d: Conversion Factor cannot be negative", d.Idx)
		}
		item, err := cache.item(ctx, d.ItemCode)
		if err != nil {
			return err
		}
		if d.UOM == "" {
			d.UOM = item.StockUOM
		}
		if item.HasBatchNo && d.BatchNo == "" {
			return domain.Throw("Row #%d: Batch No is required for item %s", d.Idx, d.ItemCode)
		}

		switch e.StockEntryType {
		case entity.StockEntryTypeMaterialIssue:
			if d.SWarehouse == "" {
				return domain.Throw("Row #%d: Source Warehouse is required for Material Issue", d.Idx)
			}
		case entity.StockEntryTypeMaterialReceipt:
			if d.TWarehouse == "" {
				return domain.Throw("Row #%d: Target Warehouse is required for Material Receipt", d.Idx)
			}
		case entity.StockEntryTypeManufacture:
			if d.SWarehouse == "" && d.TWarehouse == "" {
				return domain.Throw("Row #%d: Source or Target Warehouse is required", d.Idx)
			}
			if d.IsFinishedItem {
				finished++
				if d.TWarehouse == "" {
					return domain.Throw("Row #%d: Target Warehouse is required for the finished item %s", d.Idx, d.ItemCode)
				}
			}
		}
		if err := cache.optionalWarehouse(ctx, d.SWarehouse); err != nil {
			return err
		}
		if err := cache.optionalWarehouse(ctx, d.TWarehouse); err != nil {
			return err
		}
	}
	if finished > 1 {
		return domain.Throw("Only one finished item is allowed in a Manufacture entry")
	}
	if e.StockEntryType != entity.StockEntryTypeManufacture && (e.IsTinted || len(e.TintingItems) > 0) {
		return domain.Throw("Tinting details are only allowed in Manufacture entries")
	}

	for _, t := range e.TintingItems {
		for _, code := range []string{t.TintItem, t.FinalProduct} {
			if code == "" {
				continue
			}
			if _, err := cache.item(ctx, code); err != nil {
				return err
			}
		}
		if err := cache.optionalWarehouse(ctx, t.SourceWarehouse); err != nil {
			return err
		}
		if err := cache.optionalWarehouse(ctx, t.TargetWarehouse); err != nil {
			return err
		}
	}
	for _, f := range e.FillingDetails {
		for _, code := range []string{f.BulkItem, f.FilledItem} {
			if code == "" {
				continue
			}
			if _, err := cache.item(ctx, code); err != nil {
				return err
			}
		}
		if err := cache.optionalWarehouse(ctx, f.TargetWarehouse); err != nil {
			return err
		}
	}
	return nil
}

type batchKey struct{ item, warehouse, batch string }

// normalizeReconciliation limpia códigos y completa fecha/hora.
func normalizeReconciliation(r *entity.StockReconciliation, now time.Time) {
	if r.PostingDate.IsZero() {
		r.PostingDate = now
	}
	y, m, d := r.PostingDate.Date()
	r.PostingDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if strings.TrimSpace(r.PostingTime) == "" {
		r.PostingTime = now.Format("15:04:05")
	}
	for i, it := range r.Items {
		it.Idx = i + 1
		it.ItemCode = strings.TrimSpace(it.ItemCode)
		it.Warehouse = strings.TrimSpace(it.Warehouse)
		it.BatchNo = strings.TrimSpace(it.BatchNo)
	}
}

// validateReconciliation reglas propias del documento, previas a los hooks.
func validateReconciliation(ctx context.Context, repos repository.TxRepos, r *entity.StockReconciliation) error {
	if _, ok := entity.ParsePostingTime(r.PostingTime); !ok {
		return domain.Throw("Invalid Posting Time %q, expected HH:MM:SS", r.PostingTime)
	}
	if len(r.Items) == 0 {
		return domain.Throw("Items are required")
	}
	cache := newMasterCache(repos, r.CompanyID)
	seen := make(map[batchKey]int, len(r.Items))
	for _, it := range r.Items {
		if it.ItemCode == "" || it.Warehouse == "" {
			return domain.Throw("Row #%d: Item Code and Warehouse are required", it.Idx)
		}
		if it.Qty.IsNegative() {
			return domain.Throw("Row #%d: Quantity cannot be negative", it.Idx)
		}
		if it.ValuationRate.IsNegative() {
			return domain.Throw("Row #%d: Valuation Rate cannot be negative", it.Idx)
		}
		item, err := cache.item(ctx, it.ItemCode)
		if err != nil {
			return err
		}
		if item.HasBatchNo && it.BatchNo == "" {
			return domain.Throw("Row #%d: Batch No is required for item %s", it.Idx, it.ItemCode)
		}
		if err := cache.warehouse(ctx, it.Warehouse); err != nil {
			return err
		}
		k := batchKey{it.ItemCode, it.Warehouse, it.BatchNo}
		if prev, dup := seen[k]; dup {
			return domain.Throw("Row #%d: Same item, warehouse and batch already entered in row #%d", it.Idx, prev)
		}
		seen[k] = it.Idx
	}
	return nil
}
