package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/manufactura-api/internal/domain"
	"github.com/jhoicas/manufactura-api/internal/domain/entity"
	"github.com/jhoicas/manufactura-api/internal/domain/repository"
)

var _ repository.StockReconciliationRepository = (*ReconciliationRepo)(nil)

// ReconciliationRepo stock_reconciliations y stock_reconciliation_items.
type ReconciliationRepo struct {
	q Querier
}

// NewReconciliationRepository construye el adaptador.
func NewReconciliationRepository(q Querier) *ReconciliationRepo {
	return &ReconciliationRepo{q: q}
}

// Create inserta cabecera y filas.
func (r *ReconciliationRepo) Create(ctx context.Context, reco *entity.StockReconciliation) error {
	query := `
		INSERT INTO stock_reconciliations
			(id, name, company_id, posting_date, posting_time, docstatus, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		reco.ID, reco.Name, reco.CompanyID, reco.PostingDate, reco.PostingTime, reco.DocStatus,
		reco.CreatedBy, reco.CreatedAt, reco.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock reconciliation: %w", err)
	}
	return r.insertItems(ctx, reco)
}

// Update actualiza la cabecera y reemplaza las filas.
func (r *ReconciliationRepo) Update(ctx context.Context, reco *entity.StockReconciliation) error {
	query := `
		UPDATE stock_reconciliations SET posting_date = $2, posting_time = $3, docstatus = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, reco.ID, reco.PostingDate, reco.PostingTime, reco.DocStatus, reco.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update stock reconciliation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM stock_reconciliation_items WHERE reconciliation_id = $1`, reco.ID); err != nil {
		return fmt.Errorf("delete stock reconciliation items: %w", err)
	}
	return r.insertItems(ctx, reco)
}

func (r *ReconciliationRepo) insertItems(ctx context.Context, reco *entity.StockReconciliation) error {
	if len(reco.Items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, it := range reco.Items {
		batch.Queue(`
			INSERT INTO stock_reconciliation_items
				(id, reconciliation_id, idx, item_code, warehouse, batch_no, qty, valuation_rate, amount)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			it.ID, reco.ID, it.Idx, it.ItemCode, it.Warehouse, it.BatchNo, it.Qty, it.ValuationRate, it.Amount)
	}
	if err := execBatch(r.q.SendBatch(ctx, batch), batch.Len()); err != nil {
		return fmt.Errorf("insert stock reconciliation items: %w", err)
	}
	return nil
}

// GetByID devuelve el documento con sus filas o (nil, nil) si no existe.
func (r *ReconciliationRepo) GetByID(ctx context.Context, id string) (*entity.StockReconciliation, error) {
	query := `
		SELECT id, name, company_id, posting_date, posting_time, docstatus, created_by, created_at, updated_at
		FROM stock_reconciliations WHERE id = $1`
	var reco entity.StockReconciliation
	err := r.q.QueryRow(ctx, query, id).Scan(
		&reco.ID, &reco.Name, &reco.CompanyID, &reco.PostingDate, &reco.PostingTime, &reco.DocStatus,
		&reco.CreatedBy, &reco.CreatedAt, &reco.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock reconciliation: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, idx, item_code, warehouse, batch_no, qty, valuation_rate, amount
		FROM stock_reconciliation_items WHERE reconciliation_id = $1 ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("list stock reconciliation items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.StockReconciliationItem
		if err := rows.Scan(&it.ID, &it.Idx, &it.ItemCode, &it.Warehouse, &it.BatchNo, &it.Qty,
			&it.ValuationRate, &it.Amount); err != nil {
			return nil, fmt.Errorf("scan stock reconciliation item: %w", err)
		}
		reco.Items = append(reco.Items, &it)
	}
	return &reco, rows.Err()
}
