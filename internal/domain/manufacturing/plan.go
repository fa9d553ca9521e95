package manufacturing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/manufactura-api/internal/domain/entity"
)

// Propósito de cada documento generado al confirmar un Manufacture tinturado.
const (
	PurposeConsumption    = "consumption"     // ingredientes + bulk base
	PurposeBulkReceipt    = "bulk_receipt"    // bulk tinturado
	PurposeFillingIssue   = "filling_issue"   // salida del bulk a llenar
	PurposeFillingReceipt = "filling_receipt" // SKUs llenos
)

// PlannedRow línea de un documento planeado.
type PlannedRow struct {
	ItemCode   string
	Qty        decimal.Decimal
	SWarehouse string
	TWarehouse string
}

// PlannedEntry documento Material Issue/Receipt a crear, ligado al Manufacture.
type PlannedEntry struct {
	Purpose        string
	StockEntryType string
	FinalProduct   string
	Rows           []PlannedRow
}

// Plan resultado de recorrer las filas de tinturado.
type Plan struct {
	Entries []PlannedEntry
	// Orphans ingredientes posteriores al último producto final; no se consumen.
	Orphans []*entity.TintingItem
}

// PlanEntries recorre las filas de tinturado en orden. Las filas sin producto final se
// acumulan como ingredientes; cada fila con producto final cierra el grupo y produce:
// consumo (ingredientes + bulk base proporcional a produced_qty), recepción del bulk
// tinturado y, por cada fila de llenado del bulk, una salida del bulk y una entrada de SKUs.
func PlanEntries(e *entity.StockEntry) Plan {
	var plan Plan
	finished := e.FinishedItem()
	var group []*entity.TintingItem

	for _, row := range e.TintingItems {
		if !row.IsFinalProduct() {
			group = append(group, row)
			continue
		}

		if len(group) > 0 || finished != nil {
			consumption := PlannedEntry{
				Purpose:        PurposeConsumption,
				StockEntryType: entity.StockEntryTypeMaterialIssue,
				FinalProduct:   row.FinalProduct,
			}
			for _, t := range group {
				consumption.Rows = append(consumption.Rows, PlannedRow{
					ItemCode:   t.TintItem,
					Qty:        t.TintQty,
					SWarehouse: t.SourceWarehouse,
				})
			}
			if finished != nil && !row.ProducedQty.IsZero() {
				consumption.Rows = append(consumption.Rows, PlannedRow{
					ItemCode:   finished.ItemCode,
					Qty:        row.ProducedQty,
					SWarehouse: firstNonEmpty(row.SourceWarehouse, finished.SWarehouse, finished.TWarehouse),
				})
			}
			if len(consumption.Rows) > 0 {
				plan.Entries = append(plan.Entries, consumption)
			}
		}

		if !row.FinalQty.IsZero() {
			plan.Entries = append(plan.Entries, PlannedEntry{
				Purpose:        PurposeBulkReceipt,
				StockEntryType: entity.StockEntryTypeMaterialReceipt,
				FinalProduct:   row.FinalProduct,
				Rows: []PlannedRow{{
					ItemCode:   row.FinalProduct,
					Qty:        row.FinalQty,
					TWarehouse: row.TargetWarehouse,
				}},
			})
		}

		for _, f := range e.FillingDetails {
			if f.BulkItem != row.FinalProduct || f.IsBlank() {
				continue
			}
			plan.Entries = append(plan.Entries,
				PlannedEntry{
					Purpose:        PurposeFillingIssue,
					StockEntryType: entity.StockEntryTypeMaterialIssue,
					FinalProduct:   row.FinalProduct,
					Rows: []PlannedRow{{
						ItemCode:   f.BulkItem,
						Qty:        f.TotalQty,
						SWarehouse: f.TargetWarehouse,
					}},
				},
				PlannedEntry{
					Purpose:        PurposeFillingReceipt,
					StockEntryType: entity.StockEntryTypeMaterialReceipt,
					FinalProduct:   row.FinalProduct,
					Rows: []PlannedRow{{
						ItemCode:   f.FilledItem,
						Qty:        f.Filled,
						TWarehouse: f.TargetWarehouse,
					}},
				},
			)
		}

		group = nil
	}

	plan.Orphans = group
	return plan
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
