package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/manufactura-api/internal/domain/entity"
	"github.com/jhoicas/manufactura-api/internal/domain/repository"
)

var _ repository.StockLedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo bins y stock_ledger_entries sobre PostgreSQL.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador.
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// GetBinForUpdate crea el bin en cero si no existe y bloquea la fila (FOR UPDATE).
// Debe ejecutarse dentro de una transacción.
func (r *LedgerRepo) GetBinForUpdate(ctx context.Context, companyID, itemCode, warehouse string) (*entity.Bin, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO bins (company_id, item_code, warehouse, actual_qty, valuation_rate, updated_at)
		VALUES ($1, $2, $3, 0, 0, NOW())
		ON CONFLICT (company_id, item_code, warehouse) DO NOTHING`,
		companyID, itemCode, warehouse)
	if err != nil {
		return nil, fmt.Errorf("ensure bin: %w", err)
	}

	query := `
		SELECT company_id, item_code, warehouse, actual_qty, valuation_rate, updated_at
		FROM bins
		WHERE company_id = $1 AND item_code = $2 AND warehouse = $3
		FOR UPDATE`
	var b entity.Bin
	err = r.q.QueryRow(ctx, query, companyID, itemCode, warehouse).Scan(
		&b.CompanyID, &b.ItemCode, &b.Warehouse, &b.ActualQty, &b.ValuationRate, &b.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get bin for update: %w", err)
	}
	return &b, nil
}

// UpsertBin guarda la cantidad y tasa actuales.
func (r *LedgerRepo) UpsertBin(ctx context.Context, bin *entity.Bin) error {
	query := `
		INSERT INTO bins (company_id, item_code, warehouse, actual_qty, valuation_rate, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (company_id, item_code, warehouse)
		DO UPDATE SET actual_qty = EXCLUDED.actual_qty, valuation_rate = EXCLUDED.valuation_rate, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		bin.CompanyID, bin.ItemCode, bin.Warehouse, bin.ActualQty, bin.ValuationRate, bin.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert bin: %w", err)
	}
	return nil
}

// CreateEntry inserta un movimiento del libro.
func (r *LedgerRepo) CreateEntry(ctx context.Context, sle *entity.StockLedgerEntry) error {
	query := `
		INSERT INTO stock_ledger_entries
			(id, company_id, item_code, warehouse, batch_no, posting_datetime, actual_qty,
			 qty_after_transaction, valuation_rate, voucher_type, voucher_no, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		sle.ID, sle.CompanyID, sle.ItemCode, sle.Warehouse, sle.BatchNo, sle.PostingDateTime, sle.ActualQty,
		sle.QtyAfterTransaction, sle.ValuationRate, sle.VoucherType, sle.VoucherNo, sle.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock ledger entry: %w", err)
	}
	return nil
}

// GetItemwiseBatch suma por artículo y lote los movimientos hasta el fin del día postingDate.
func (r *LedgerRepo) GetItemwiseBatch(ctx context.Context, companyID, warehouse string, postingDate time.Time) (map[entity.ItemWarehouse][]entity.BatchQty, error) {
	y, m, d := postingDate.Date()
	until := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)

	query := `
		SELECT item_code, batch_no, SUM(actual_qty)
		FROM stock_ledger_entries
		WHERE company_id = $1 AND warehouse = $2 AND batch_no <> '' AND posting_datetime < $3
		GROUP BY item_code, batch_no
		ORDER BY item_code, batch_no`
	rows, err := r.q.Query(ctx, query, companyID, warehouse, until)
	if err != nil {
		return nil, fmt.Errorf("itemwise batch: %w", err)
	}
	defer rows.Close()

	out := make(map[entity.ItemWarehouse][]entity.BatchQty)
	for rows.Next() {
		var itemCode string
		var b entity.BatchQty
		if err := rows.Scan(&itemCode, &b.BatchNo, &b.Qty); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		k := entity.ItemWarehouse{ItemCode: itemCode, Warehouse: warehouse}
		out[k] = append(out[k], b)
	}
	return out, rows.Err()
}

// GetStockBalance cantidad acumulada al instante at y tasa del último movimiento.
func (r *LedgerRepo) GetStockBalance(ctx context.Context, companyID, itemCode, warehouse string, at time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(actual_qty), 0),
			COALESCE((
				SELECT valuation_rate FROM stock_ledger_entries
				WHERE company_id = $1 AND item_code = $2 AND warehouse = $3 AND posting_datetime <= $4
				ORDER BY posting_datetime DESC, created_at DESC
				LIMIT 1
			), 0)
		FROM stock_ledger_entries
		WHERE company_id = $1 AND item_code = $2 AND warehouse = $3 AND posting_datetime <= $4`
	var qty, rate decimal.Decimal
	if err := r.q.QueryRow(ctx, query, companyID, itemCode, warehouse, at).Scan(&qty, &rate); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("stock balance: %w", err)
	}
	return qty, rate, nil
}

// GetBatchBalance cantidad de un lote al instante at.
func (r *LedgerRepo) GetBatchBalance(ctx context.Context, companyID, itemCode, warehouse, batchNo string, at time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(actual_qty), 0)
		FROM stock_ledger_entries
		WHERE company_id = $1 AND item_code = $2 AND warehouse = $3 AND batch_no = $4 AND posting_datetime <= $5`
	var qty decimal.Decimal
	if err := r.q.QueryRow(ctx, query, companyID, itemCode, warehouse, batchNo, at).Scan(&qty); err != nil {
		return decimal.Zero, fmt.Errorf("batch balance: %w", err)
	}
	return qty, nil
}
