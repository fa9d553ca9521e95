// Package reconciliation registra los hooks de Stock Reconciliation.
package reconciliation

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/manufactura-api/internal/application/hooks"
	"github.com/jhoicas/manufactura-api/internal/domain/entity"
	batches "github.com/jhoicas/manufactura-api/internal/domain/reconciliation"
)

// Recorder métrica de lotes completados automáticamente.
type Recorder interface {
	BatchesAutofilled(n int)
}

// Register agrega fill_missing_batches en before_save. rec puede ser nil.
func Register(reg *hooks.Registry[*entity.StockReconciliation], rec Recorder) {
	reg.On(hooks.BeforeSave, "fill_missing_batches", func(ctx context.Context, scope *hooks.Scope, r *entity.StockReconciliation) error {
		return fillMissingBatches(ctx, scope, r, rec)
	})
}

func fillMissingBatches(ctx context.Context, scope *hooks.Scope, r *entity.StockReconciliation, rec Recorder) error {
	ledger := scope.Repos.Ledger
	at := r.PostingDateTime()

	lookup := func(warehouse string) (map[entity.ItemWarehouse][]entity.BatchQty, error) {
		return ledger.GetItemwiseBatch(ctx, r.CompanyID, warehouse, r.PostingDate)
	}
	rate := func(itemCode, warehouse string) (decimal.Decimal, error) {
		_, valuation, err := ledger.GetStockBalance(ctx, r.CompanyID, itemCode, warehouse, at)
		return valuation, err
	}

	added, err := batches.FillMissingBatches(r, lookup, rate)
	if err != nil {
		return err
	}
	if len(added) > 0 {
		scope.Log.Info().
			Str("stock_reconciliation", r.Name).
			Int("rows", len(added)).
			Msg("lotes faltantes anulados")
		if rec != nil {
			n := len(added)
			scope.AfterCommit(func() { rec.BatchesAutofilled(n) })
		}
	}
	scope.Msgprint(batches.FilledMessage)
	return nil
}
