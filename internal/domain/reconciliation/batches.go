// Package reconciliation completa los conteos de Stock Reconciliation con los lotes
// que tienen saldo en el sistema pero no fueron contados.
package reconciliation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/manufactura-api/internal/domain/entity"
)

// FilledMessage mensaje que se devuelve al usuario tras completar los lotes.
const FilledMessage = "Auto-fetched and nullified missing non-empty batches (optimized, valuation preserved)."

// BatchLookup devuelve los saldos por lote de todos los artículos de una bodega.
type BatchLookup func(warehouse string) (map[entity.ItemWarehouse][]entity.BatchQty, error)

// RateLookup devuelve la tasa de valoración vigente de un artículo en una bodega.
type RateLookup func(itemCode, warehouse string) (decimal.Decimal, error)

type batchKey struct {
	itemCode  string
	warehouse string
	batchNo   string
}

// FillMissingBatches agrega, por cada lote con saldo distinto de cero que no esté en el
// documento, una fila con qty 0 (lote anulado) y la tasa de valoración actual.
// Solo considera pares artículo+bodega presentes en el documento. Los saldos se consultan
// una vez por bodega. Devuelve las filas agregadas.
func FillMissingBatches(doc *entity.StockReconciliation, batches BatchLookup, rate RateLookup) ([]*entity.StockReconciliationItem, error) {
	existing := make(map[batchKey]struct{})
	pairs := make(map[entity.ItemWarehouse]struct{})
	var warehouses []string
	seenWh := make(map[string]struct{})

	for _, it := range doc.Items {
		if it.BatchNo != "" {
			existing[batchKey{it.ItemCode, it.Warehouse, it.BatchNo}] = struct{}{}
		}
		if it.ItemCode == "" || it.Warehouse == "" {
			continue
		}
		pairs[entity.ItemWarehouse{ItemCode: it.ItemCode, Warehouse: it.Warehouse}] = struct{}{}
		if _, ok := seenWh[it.Warehouse]; !ok {
			seenWh[it.Warehouse] = struct{}{}
			warehouses = append(warehouses, it.Warehouse)
		}
	}

	var added []*entity.StockReconciliationItem
	for _, wh := range warehouses {
		data, err := batches(wh)
		if err != nil {
			return added, err
		}

		keys := make([]entity.ItemWarehouse, 0, len(data))
		for k := range data {
			if k.Warehouse != wh {
				continue
			}
			if _, ok := pairs[k]; !ok {
				continue
			}
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i].ItemCode < keys[j].ItemCode })

		for _, k := range keys {
			valuation, err := rate(k.ItemCode, k.Warehouse)
			if err != nil {
				return added, err
			}
			for _, b := range data[k] {
				if b.Qty.IsZero() {
					continue
				}
				key := batchKey{k.ItemCode, k.Warehouse, b.BatchNo}
				if _, ok := existing[key]; ok {
					continue
				}
				row := doc.AppendItem(&entity.StockReconciliationItem{
					ItemCode:      k.ItemCode,
					Warehouse:     k.Warehouse,
					BatchNo:       b.BatchNo,
					Qty:           decimal.Zero,
					ValuationRate: valuation,
					Amount:        decimal.Zero,
				})
				existing[key] = struct{}{}
				added = append(added, row)
			}
		}
	}
	return added, nil
}
