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

var _ repository.StockEntryRepository = (*StockEntryRepo)(nil)

// StockEntryRepo stock_entries y sus tablas hijas (detalle, tinturado, llenado).
type StockEntryRepo struct {
	q Querier
}

// NewStockEntryRepository construye el adaptador.
func NewStockEntryRepository(q Querier) *StockEntryRepo {
	return &StockEntryRepo{q: q}
}

const stockEntryColumns = `id, name, company_id, stock_entry_type, posting_date, posting_time, set_posting_time,
	from_bom, docstatus, custom_is_tinted, custom_linked_production_entry, created_by, created_at, updated_at`

// Create inserta cabecera y filas hijas. Usar dentro de una transacción.
func (r *StockEntryRepo) Create(ctx context.Context, e *entity.StockEntry) error {
	query := `
		INSERT INTO stock_entries (` + stockEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.Name, e.CompanyID, e.StockEntryType, e.PostingDate, e.PostingTime, e.SetPostingTime,
		e.FromBOM, e.DocStatus, e.IsTinted, e.LinkedProductionEntry, e.CreatedBy, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock entry: %w", err)
	}
	return r.insertChildren(ctx, e)
}

// Update actualiza la cabecera y reemplaza todas las filas hijas.
func (r *StockEntryRepo) Update(ctx context.Context, e *entity.StockEntry) error {
	query := `
		UPDATE stock_entries SET
			stock_entry_type = $2, posting_date = $3, posting_time = $4, set_posting_time = $5,
			from_bom = $6, docstatus = $7, custom_is_tinted = $8, custom_linked_production_entry = $9,
			updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		e.ID, e.StockEntryType, e.PostingDate, e.PostingTime, e.SetPostingTime,
		e.FromBOM, e.DocStatus, e.IsTinted, e.LinkedProductionEntry, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM stock_entry_details WHERE stock_entry_id = $1`, e.ID)
	batch.Queue(`DELETE FROM stock_entry_tinting_items WHERE stock_entry_id = $1`, e.ID)
	batch.Queue(`DELETE FROM stock_entry_filling_details WHERE stock_entry_id = $1`, e.ID)
	if err := execBatch(r.q.SendBatch(ctx, batch), batch.Len()); err != nil {
		return fmt.Errorf("delete stock entry rows: %w", err)
	}
	return r.insertChildren(ctx, e)
}

func (r *StockEntryRepo) insertChildren(ctx context.Context, e *entity.StockEntry) error {
	batch := &pgx.Batch{}
	for _, d := range e.Items {
		batch.Queue(`
			INSERT INTO stock_entry_details
				(id, stock_entry_id, idx, item_code, qty, uom, conversion_factor, s_warehouse, t_warehouse,
				 batch_no, basic_rate, is_finished_item)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			d.ID, e.ID, d.Idx, d.ItemCode, d.Qty, d.UOM, d.ConversionFactor, d.SWarehouse, d.TWarehouse,
			d.BatchNo, d.BasicRate, d.IsFinishedItem)
	}
	for _, t := range e.TintingItems {
		batch.Queue(`
			INSERT INTO stock_entry_tinting_items
				(id, stock_entry_id, idx, tint_item, tint_qty, final_product, final_qty, produced_qty,
				 source_warehouse, target_warehouse)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			t.ID, e.ID, t.Idx, t.TintItem, t.TintQty, t.FinalProduct, t.FinalQty, t.ProducedQty,
			t.SourceWarehouse, t.TargetWarehouse)
	}
	for _, f := range e.FillingDetails {
		batch.Queue(`
			INSERT INTO stock_entry_filling_details
				(id, stock_entry_id, idx, bulk_item, filled_item, filled, total_qty, target_warehouse)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			f.ID, e.ID, f.Idx, f.BulkItem, f.FilledItem, f.Filled, f.TotalQty, f.TargetWarehouse)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := execBatch(r.q.SendBatch(ctx, batch), batch.Len()); err != nil {
		return fmt.Errorf("insert stock entry rows: %w", err)
	}
	return nil
}

// GetByID devuelve el documento completo o (nil, nil) si no existe.
func (r *StockEntryRepo) GetByID(ctx context.Context, id string) (*entity.StockEntry, error) {
	query := `SELECT ` + stockEntryColumns + ` FROM stock_entries WHERE id = $1`
	e, err := scanStockEntry(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock entry: %w", err)
	}
	if err := r.loadChildren(ctx, []*entity.StockEntry{e}); err != nil {
		return nil, err
	}
	return e, nil
}

// List devuelve cabeceras (sin filas hijas) ordenadas por nombre descendente.
func (r *StockEntryRepo) List(ctx context.Context, f repository.StockEntryFilter) ([]*entity.StockEntry, error) {
	query := `
		SELECT ` + stockEntryColumns + `
		FROM stock_entries
		WHERE company_id = $1
			AND ($2 = '' OR stock_entry_type = $2)
			AND ($3::int IS NULL OR docstatus = $3)
		ORDER BY name DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, f.CompanyID, f.StockEntryType, f.DocStatus, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list stock entries: %w", err)
	}
	return collectStockEntries(rows)
}

// ListLinked devuelve las entradas generadas por un Manufacture, completas, en orden de nombre.
func (r *StockEntryRepo) ListLinked(ctx context.Context, companyID, productionEntryName string) ([]*entity.StockEntry, error) {
	query := `
		SELECT ` + stockEntryColumns + `
		FROM stock_entries
		WHERE company_id = $1 AND custom_linked_production_entry = $2
		ORDER BY name`
	rows, err := r.q.Query(ctx, query, companyID, productionEntryName)
	if err != nil {
		return nil, fmt.Errorf("list linked stock entries: %w", err)
	}
	list, err := collectStockEntries(rows)
	if err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func scanStockEntry(row pgx.Row) (*entity.StockEntry, error) {
	var e entity.StockEntry
	err := row.Scan(
		&e.ID, &e.Name, &e.CompanyID, &e.StockEntryType, &e.PostingDate, &e.PostingTime, &e.SetPostingTime,
		&e.FromBOM, &e.DocStatus, &e.IsTinted, &e.LinkedProductionEntry, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func collectStockEntries(rows pgx.Rows) ([]*entity.StockEntry, error) {
	defer rows.Close()
	var out []*entity.StockEntry
	for rows.Next() {
		e, err := scanStockEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// loadChildren carga las tres tablas hijas de varios documentos con una consulta por tabla.
func (r *StockEntryRepo) loadChildren(ctx context.Context, entries []*entity.StockEntry) error {
	if len(entries) == 0 {
		return nil
	}
	byID := make(map[string]*entity.StockEntry, len(entries))
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
		ids = append(ids, e.ID)
	}

	rows, err := r.q.Query(ctx, `
		SELECT stock_entry_id, id, idx, item_code, qty, uom, conversion_factor, s_warehouse, t_warehouse,
			batch_no, basic_rate, is_finished_item
		FROM stock_entry_details WHERE stock_entry_id = ANY($1) ORDER BY idx`, ids)
	if err != nil {
		return fmt.Errorf("load stock entry details: %w", err)
	}
	for rows.Next() {
		var parent string
		var d entity.StockEntryDetail
		if err := rows.Scan(&parent, &d.ID, &d.Idx, &d.ItemCode, &d.Qty, &d.UOM, &d.ConversionFactor,
			&d.SWarehouse, &d.TWarehouse, &d.BatchNo, &d.BasicRate, &d.IsFinishedItem); err != nil {
			rows.Close()
			return fmt.Errorf("scan stock entry detail: %w", err)
		}
		byID[parent].Items = append(byID[parent].Items, &d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.q.Query(ctx, `
		SELECT stock_entry_id, id, idx, tint_item, tint_qty, final_product, final_qty, produced_qty,
			source_warehouse, target_warehouse
		FROM stock_entry_tinting_items WHERE stock_entry_id = ANY($1) ORDER BY idx`, ids)
	if err != nil {
		return fmt.Errorf("load tinting items: %w", err)
	}
	for rows.Next() {
		var parent string
		var t entity.TintingItem
		if err := rows.Scan(&parent, &t.ID, &t.Idx, &t.TintItem, &t.TintQty, &t.FinalProduct, &t.FinalQty,
			&t.ProducedQty, &t.SourceWarehouse, &t.TargetWarehouse); err != nil {
			rows.Close()
			return fmt.Errorf("scan tinting item: %w", err)
		}
		byID[parent].TintingItems = append(byID[parent].TintingItems, &t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.q.Query(ctx, `
		SELECT stock_entry_id, id, idx, bulk_item, filled_item, filled, total_qty, target_warehouse
		FROM stock_entry_filling_details WHERE stock_entry_id = ANY($1) ORDER BY idx`, ids)
	if err != nil {
		return fmt.Errorf("load filling details: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var parent string
		var f entity.FillingDetail
		if err := rows.Scan(&parent, &f.ID, &f.Idx, &f.BulkItem, &f.FilledItem, &f.Filled, &f.TotalQty,
			&f.TargetWarehouse); err != nil {
			return fmt.Errorf("scan filling detail: %w", err)
		}
		byID[parent].FillingDetails = append(byID[parent].FillingDetails, &f)
	}
	return rows.Err()
}
