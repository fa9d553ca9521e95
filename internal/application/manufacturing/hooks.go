// Package manufacturing registra los hooks de Stock Entry para el flujo de tinturado y llenado.
package manufacturing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/manufactura-api/internal/application/hooks"
	"github.com/jhoicas/manufactura-api/internal/domain"
	"github.com/jhoicas/manufactura-api/internal/domain/entity"
	rules "github.com/jhoicas/manufactura-api/internal/domain/manufacturing"
)

// Recorder métrica de documentos generados por propósito.
type Recorder interface {
	EntryGenerated(purpose string)
}

// Register agrega los hooks de tinturado/llenado al registro de Stock Entry. rec puede ser nil.
func Register(reg *hooks.Registry[*entity.StockEntry], rec Recorder) {
	g := &generator{rec: rec}
	reg.
		On(hooks.Validate, "validate_tinting_rows", onlyTinted(validateTintingRows)).
		On(hooks.Validate, "validate_produced_qty", onlyTinted(validateProducedQty)).
		On(hooks.BeforeSave, "sync_tinting_to_filling", syncTintingToFilling).
		On(hooks.BeforeSubmit, "validate_filling_vs_tinting", onlyTinted(validateFillingVsTinting)).
		On(hooks.OnSubmit, "generate_tinting_entries", onlyTinted(g.generate))
}

func onlyTinted(fn hooks.Func[*entity.StockEntry]) hooks.Func[*entity.StockEntry] {
	return func(ctx context.Context, scope *hooks.Scope, e *entity.StockEntry) error {
		if !e.IsTintedManufacture() {
			return nil
		}
		return fn(ctx, scope, e)
	}
}

func validateTintingRows(_ context.Context, _ *hooks.Scope, e *entity.StockEntry) error {
	return rules.ValidateTintingRows(e)
}

func validateProducedQty(_ context.Context, _ *hooks.Scope, e *entity.StockEntry) error {
	return rules.ValidateProducedQty(e)
}

// syncTintingToFilling deja una sola fila de llenado por bulk aunque el producto final se repita.
func syncTintingToFilling(_ context.Context, scope *hooks.Scope, e *entity.StockEntry) error {
	if n := rules.SyncTintingToFilling(e); n > 0 {
		scope.Log.Debug().Str("stock_entry", e.Name).Int("rows", n).Msg("filas de llenado agregadas")
	}
	return nil
}

func validateFillingVsTinting(_ context.Context, _ *hooks.Scope, e *entity.StockEntry) error {
	if err := rules.ValidateFillingVsTinting(e); err != nil {
		return err
	}
	return rules.ValidateFillingRows(e)
}

type generator struct {
	rec Recorder
}

// generate crea y confirma los Material Issue/Receipt planeados, ligados al Manufacture.
func (g *generator) generate(ctx context.Context, scope *hooks.Scope, e *entity.StockEntry) error {
	plan := rules.PlanEntries(e)
	for _, o := range plan.Orphans {
		scope.Log.Warn().
			Str("stock_entry", e.Name).
			Int("row", o.Idx).
			Str("tint_item", o.TintItem).
			Msg("ingrediente sin producto final posterior; no se consume")
	}

	items := make(map[string]*entity.Item)
	for _, pe := range plan.Entries {
		child := &entity.StockEntry{
			CompanyID:             e.CompanyID,
			StockEntryType:        pe.StockEntryType,
			PostingDate:           e.PostingDate,
			PostingTime:           e.PostingTime,
			SetPostingTime:        true,
			FromBOM:               false,
			LinkedProductionEntry: e.Name,
		}
		for _, r := range pe.Rows {
			item, err := lookupItem(ctx, scope, items, r.ItemCode)
			if err != nil {
				return err
			}
			rows, err := batchRows(ctx, scope, e, item, r)
			if err != nil {
				return err
			}
			for _, d := range rows {
				d.UOM = item.StockUOM
				d.ConversionFactor = decimal.NewFromInt(1)
				child.AppendItem(d)
			}
		}
		if err := scope.Entries.InsertAndSubmit(ctx, scope, child); err != nil {
			return err
		}
		if g.rec != nil {
			purpose := pe.Purpose
			scope.AfterCommit(func() { g.rec.EntryGenerated(purpose) })
		}
		scope.Log.Info().
			Str("stock_entry", child.Name).
			Str("type", child.StockEntryType).
			Str("purpose", pe.Purpose).
			Str("final_product", pe.FinalProduct).
			Str("linked_production_entry", e.Name).
			Msg("entrada generada")
	}
	return nil
}

func lookupItem(ctx context.Context, scope *hooks.Scope, cache map[string]*entity.Item, itemCode string) (*entity.Item, error) {
	if item, ok := cache[itemCode]; ok {
		return item, nil
	}
	item, err := scope.Repos.Items.Get(ctx, scope.CompanyID, itemCode)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.Throw("Item %s not found", itemCode)
	}
	cache[itemCode] = item
	return item, nil
}

// batchRows arma las líneas de una fila planeada. Para artículos con lote, las entradas
// quedan en el lote del Manufacture y las salidas se reparten entre los lotes con saldo
// de la bodega, en orden de lote.
func batchRows(ctx context.Context, scope *hooks.Scope, e *entity.StockEntry, item *entity.Item, r rules.PlannedRow) ([]*entity.StockEntryDetail, error) {
	row := &entity.StockEntryDetail{
		ItemCode:   r.ItemCode,
		Qty:        r.Qty,
		SWarehouse: r.SWarehouse,
		TWarehouse: r.TWarehouse,
	}
	if !item.HasBatchNo {
		return []*entity.StockEntryDetail{row}, nil
	}
	if r.SWarehouse == "" {
		row.BatchNo = e.Name
		return []*entity.StockEntryDetail{row}, nil
	}

	balances, err := scope.Repos.Ledger.GetItemwiseBatch(ctx, e.CompanyID, r.SWarehouse, e.PostingDate)
	if err != nil {
		return nil, err
	}
	var (
		out       []*entity.StockEntryDetail
		remaining = r.Qty
		available = decimal.Zero
	)
	for _, b := range balances[entity.ItemWarehouse{ItemCode: r.ItemCode, Warehouse: r.SWarehouse}] {
		if !b.Qty.IsPositive() || !remaining.IsPositive() {
			continue
		}
		available = available.Add(b.Qty)
		take := decimal.Min(b.Qty, remaining)
		out = append(out, &entity.StockEntryDetail{
			ItemCode:   r.ItemCode,
			Qty:        take,
			SWarehouse: r.SWarehouse,
			BatchNo:    b.BatchNo,
		})
		remaining = remaining.Sub(take)
	}
	if remaining.IsPositive() {
		return nil, &domain.StockError{
			ItemCode:  r.ItemCode,
			Warehouse: r.SWarehouse,
			Available: available.String(),
			Required:  r.Qty.String(),
		}
	}
	return out, nil
}
