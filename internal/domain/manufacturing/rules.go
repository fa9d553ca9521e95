// Package manufacturing contiene las reglas puras del flujo tinturado → bulk → llenado
// de un Stock Entry tipo Manufacture. No accede a persistencia: recibe el documento en
// memoria y devuelve errores de validación o el plan de documentos a generar.
package manufacturing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/manufactura-api/internal/domain"
	"github.com/jhoicas/manufactura-api/internal/domain/entity"
)

// qtyPrecision decimales al comparar cantidades de tinturado y llenado.
const qtyPrecision = 3

// ValidateTintingRows revisa la forma de las filas de tinturado y llenado de un Manufacture tinturado.
func ValidateTintingRows(e *entity.StockEntry) error {
	for _, t := range e.TintingItems {
		for _, q := range []decimal.Decimal{t.TintQty, t.FinalQty, t.ProducedQty} {
			if q.IsNegative() {
				return domain.Throw("Tinting row #%d: quantities cannot be negative", t.Idx)
			}
		}
		if t.IsFinalProduct() {
			continue
		}
		if t.TintItem == "" {
			return domain.Throw("Tinting row #%d: Tint Item is required when no Final Product is set", t.Idx)
		}
		if !t.TintQty.IsPositive() {
			return domain.Throw("Tinting row #%d: Tint Qty must be greater than zero", t.Idx)
		}
		if t.SourceWarehouse == "" {
			return domain.Throw("Tinting row #%d: Source Warehouse is required for tint item %s", t.Idx, t.TintItem)
		}
	}
	for _, f := range e.FillingDetails {
		if f.Filled.IsNegative() || f.TotalQty.IsNegative() {
			return domain.Throw("Filling row #%d: quantities cannot be negative", f.Idx)
		}
	}
	return nil
}

// ValidateProducedQty exige que la suma de produced_qty de las filas con producto final
// no supere la cantidad del producto terminado de la tabla principal.
func ValidateProducedQty(e *entity.StockEntry) error {
	finishedQty := decimal.Zero
	if fi := e.FinishedItem(); fi != nil {
		finishedQty = fi.Qty
	}
	total := decimal.Zero
	for _, t := range e.TintingItems {
		if t.IsFinalProduct() {
			total = total.Add(t.ProducedQty)
		}
	}
	if total.GreaterThan(finishedQty) {
		return domain.Throw("Total Produced Qty (%s) cannot exceed the Finished Item Qty (%s) in the main Stock Entry Items.",
			total.String(), finishedQty.String())
	}
	return nil
}

// SyncTintingToFilling agrega una fila de llenado por cada producto final que aún no
// figure como bulk_item. Devuelve cuántas filas agregó. Un producto final repetido en
// varias filas de tinturado genera una sola fila de llenado.
func SyncTintingToFilling(e *entity.StockEntry) int {
	existing := make(map[string]struct{}, len(e.FillingDetails))
	for _, f := range e.FillingDetails {
		existing[f.BulkItem] = struct{}{}
	}
	added := 0
	for _, t := range e.TintingItems {
		if !t.IsFinalProduct() {
			continue
		}
		if _, ok := existing[t.FinalProduct]; ok {
			continue
		}
		e.AppendFilling(&entity.FillingDetail{
			BulkItem:        t.FinalProduct,
			TargetWarehouse: t.TargetWarehouse,
		})
		existing[t.FinalProduct] = struct{}{}
		added++
	}
	return added
}

// ValidateFillingVsTinting exige que lo llenado de cada bulk coincida con el final_qty tinturado.
func ValidateFillingVsTinting(e *entity.StockEntry) error {
	tinted := make(map[string]decimal.Decimal)
	var order []string
	for _, t := range e.TintingItems {
		if !t.IsFinalProduct() || t.FinalQty.IsZero() {
			continue
		}
		if _, seen := tinted[t.FinalProduct]; !seen {
			order = append(order, t.FinalProduct)
		}
		tinted[t.FinalProduct] = t.FinalQty
	}

	filled := make(map[string]decimal.Decimal)
	for _, f := range e.FillingDetails {
		if f.BulkItem == "" || f.TotalQty.IsZero() {
			continue
		}
		filled[f.BulkItem] = filled[f.BulkItem].Add(f.TotalQty)
	}

	for _, bulk := range order {
		finalQty := tinted[bulk]
		filledQty := filled[bulk]
		if !filledQty.Round(qtyPrecision).Equal(finalQty.Round(qtyPrecision)) {
			return domain.Throw("Filling for %s does not match Tinting Final Qty. Tinted: %s, Filled: %s",
				bulk, finalQty.String(), filledQty.String())
		}
	}
	return nil
}

// ValidateFillingRows exige que las filas de llenado de un bulk tinturado estén completas antes de confirmar.
// Las filas en blanco (agregadas por SyncTintingToFilling y nunca diligenciadas) se ignoran.
func ValidateFillingRows(e *entity.StockEntry) error {
	finals := make(map[string]struct{})
	for _, t := range e.TintingItems {
		if t.IsFinalProduct() {
			finals[t.FinalProduct] = struct{}{}
		}
	}
	for _, f := range e.FillingDetails {
		if _, ok := finals[f.BulkItem]; !ok || f.IsBlank() {
			continue
		}
		switch {
		case f.FilledItem == "":
			return domain.Throw("Filling row #%d: Filled Item is required for bulk %s", f.Idx, f.BulkItem)
		case !f.Filled.IsPositive():
			return domain.Throw("Filling row #%d: Filled qty must be greater than zero for %s", f.Idx, f.FilledItem)
		case !f.TotalQty.IsPositive():
			return domain.Throw("Filling row #%d: Total Qty must be greater than zero for bulk %s", f.Idx, f.BulkItem)
		case f.TargetWarehouse == "":
			return domain.Throw("Filling row #%d: Target Warehouse is required for bulk %s", f.Idx, f.BulkItem)
		}
	}
	return nil
}
