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

var (
	_ repository.ItemRepository      = (*ItemRepo)(nil)
	_ repository.WarehouseRepository = (*WarehouseRepo)(nil)
)

// ItemRepo implementación de ItemRepository sobre PostgreSQL.
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador.
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create inserta un artículo. El código es único por empresa.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (company_id, item_code, item_name, stock_uom, has_batch_no, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		item.CompanyID, item.ItemCode, item.ItemName, item.StockUOM, item.HasBatchNo,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// Get devuelve (nil, nil) si no existe.
func (r *ItemRepo) Get(ctx context.Context, companyID, itemCode string) (*entity.Item, error) {
	query := `
		SELECT company_id, item_code, item_name, stock_uom, has_batch_no, created_at, updated_at
		FROM items WHERE company_id = $1 AND item_code = $2`
	var it entity.Item
	err := r.q.QueryRow(ctx, query, companyID, itemCode).Scan(
		&it.CompanyID, &it.ItemCode, &it.ItemName, &it.StockUOM, &it.HasBatchNo, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

// ListByCompany lista artículos ordenados por código.
func (r *ItemRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Item, error) {
	query := `
		SELECT company_id, item_code, item_name, stock_uom, has_batch_no, created_at, updated_at
		FROM items WHERE company_id = $1
		ORDER BY item_code
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var out []*entity.Item
	for rows.Next() {
		var it entity.Item
		if err := rows.Scan(&it.CompanyID, &it.ItemCode, &it.ItemName, &it.StockUOM, &it.HasBatchNo, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

// WarehouseRepo implementación de WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador.
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

// Create inserta una bodega.
func (r *WarehouseRepo) Create(ctx context.Context, wh *entity.Warehouse) error {
	query := `
		INSERT INTO warehouses (company_id, id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, wh.CompanyID, wh.ID, wh.Name, wh.CreatedAt, wh.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

// Get devuelve (nil, nil) si no existe.
func (r *WarehouseRepo) Get(ctx context.Context, companyID, id string) (*entity.Warehouse, error) {
	query := `
		SELECT company_id, id, name, created_at, updated_at
		FROM warehouses WHERE company_id = $1 AND id = $2`
	var wh entity.Warehouse
	err := r.q.QueryRow(ctx, query, companyID, id).Scan(&wh.CompanyID, &wh.ID, &wh.Name, &wh.CreatedAt, &wh.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &wh, nil
}

// ListByCompany lista bodegas ordenadas por ID.
func (r *WarehouseRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	query := `
		SELECT company_id, id, name, created_at, updated_at
		FROM warehouses WHERE company_id = $1
		ORDER BY id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()

	var out []*entity.Warehouse
	for rows.Next() {
		var wh entity.Warehouse
		if err := rows.Scan(&wh.CompanyID, &wh.ID, &wh.Name, &wh.CreatedAt, &wh.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		out = append(out, &wh)
	}
	return out, rows.Err()
}
