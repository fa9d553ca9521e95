package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/manufactura-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item (DIP).
// Get devuelve (nil, nil) si no existe.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	Get(ctx context.Context, companyID, itemCode string) (*entity.Item, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Item, error)
}

// WarehouseRepository define el puerto de persistencia para Warehouse.
// El ID es único por empresa; Get devuelve (nil, nil) si no existe.
type WarehouseRepository interface {
	Create(ctx context.Context, wh *entity.Warehouse) error
	Get(ctx context.Context, companyID, id string) (*entity.Warehouse, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Warehouse, error)
}

// StockEntryFilter filtros del listado de Stock Entries.
type StockEntryFilter struct {
	CompanyID      string
	StockEntryType string
	DocStatus      *int
	Limit          int
	Offset         int
}

// StockEntryRepository persiste el documento con sus tres tablas hijas.
// Update reemplaza todas las filas hijas.
type StockEntryRepository interface {
	Create(ctx context.Context, e *entity.StockEntry) error
	Update(ctx context.Context, e *entity.StockEntry) error
	GetByID(ctx context.Context, id string) (*entity.StockEntry, error)
	List(ctx context.Context, f StockEntryFilter) ([]*entity.StockEntry, error)
	// ListLinked devuelve las entradas generadas por un Manufacture (custom_linked_production_entry).
	ListLinked(ctx context.Context, companyID, productionEntryName string) ([]*entity.StockEntry, error)
}

// StockReconciliationRepository persiste Stock Reconciliation con sus filas.
type StockReconciliationRepository interface {
	Create(ctx context.Context, r *entity.StockReconciliation) error
	Update(ctx context.Context, r *entity.StockReconciliation) error
	GetByID(ctx context.Context, id string) (*entity.StockReconciliation, error)
}

// StockLedgerRepository libro de stock y bins.
type StockLedgerRepository interface {
	// GetBinForUpdate bloquea la fila del bin (SELECT FOR UPDATE); si no existe devuelve uno en cero.
	GetBinForUpdate(ctx context.Context, companyID, itemCode, warehouse string) (*entity.Bin, error)
	UpsertBin(ctx context.Context, bin *entity.Bin) error
	CreateEntry(ctx context.Context, sle *entity.StockLedgerEntry) error

	// GetItemwiseBatch saldos por lote de una bodega hasta la fecha de contabilización (inclusive).
	GetItemwiseBatch(ctx context.Context, companyID, warehouse string, postingDate time.Time) (map[entity.ItemWarehouse][]entity.BatchQty, error)
	// GetStockBalance cantidad y tasa de valoración de un artículo en una bodega al instante at.
	GetStockBalance(ctx context.Context, companyID, itemCode, warehouse string, at time.Time) (qty, valuationRate decimal.Decimal, err error)
	// GetBatchBalance cantidad de un lote ("" = sin lote) al instante at.
	GetBatchBalance(ctx context.Context, companyID, itemCode, warehouse, batchNo string, at time.Time) (decimal.Decimal, error)
}

// NamingSeriesRepository entrega el siguiente consecutivo de una serie (MAT-STE-2026-).
type NamingSeriesRepository interface {
	Next(ctx context.Context, prefix string) (int64, error)
}

// UserRepository define el puerto de persistencia para User.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Items           ItemRepository
	Warehouses      WarehouseRepository
	StockEntries    StockEntryRepository
	Reconciliations StockReconciliationRepository
	Ledger          StockLedgerRepository
	Naming          NamingSeriesRepository
}
