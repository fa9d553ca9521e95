package stock

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/manufactura-api/internal/domain"
	"github.com/jhoicas/manufactura-api/internal/domain/entity"
	"github.com/jhoicas/manufactura-api/internal/domain/repository"
)

// Balance saldo de un artículo en una bodega.
type Balance struct {
	ItemCode      string
	Warehouse     string
	Qty           decimal.Decimal
	ValuationRate decimal.Decimal
	At            time.Time
}

// BatchBalance saldo de un lote de un artículo en una bodega.
type BatchBalance struct {
	ItemCode  string
	Warehouse string
	BatchNo   string
	Qty       decimal.Decimal
}

// QueryUseCase consultas de saldos sobre el libro de stock.
type QueryUseCase struct {
	ledger repository.StockLedgerRepository
	now    func() time.Time
}

// NewQueryUseCase construye el caso de uso de consultas.
func NewQueryUseCase(ledger repository.StockLedgerRepository) *QueryUseCase {
	return &QueryUseCase{ledger: ledger, now: time.Now}
}

// Balance saldo y tasa de valoración al instante at (cero = ahora).
func (uc *QueryUseCase) Balance(ctx context.Context, companyID, itemCode, warehouse string, at time.Time) (*Balance, error) {
	if itemCode == "" || warehouse == "" {
		return nil, fmt.Errorf("item_code y warehouse son obligatorios: %w", domain.ErrInvalidInput)
	}
	if at.IsZero() {
		at = uc.now()
	}
	qty, rate, err := uc.ledger.GetStockBalance(ctx, companyID, itemCode, warehouse, at)
	if err != nil {
		return nil, err
	}
	return &Balance{ItemCode: itemCode, Warehouse: warehouse, Qty: qty, ValuationRate: rate, At: at}, nil
}

// Batches saldos por lote de una bodega hasta la fecha (cero = hoy), ordenados por artículo y lote.
func (uc *QueryUseCase) Batches(ctx context.Context, companyID, warehouse string, postingDate time.Time) ([]BatchBalance, error) {
	if warehouse == "" {
		return nil, fmt.Errorf("warehouse es obligatorio: %w", domain.ErrInvalidInput)
	}
	if postingDate.IsZero() {
		postingDate = uc.now()
	}
	data, err := uc.ledger.GetItemwiseBatch(ctx, companyID, warehouse, postingDate)
	if err != nil {
		return nil, err
	}
	keys := make([]entity.ItemWarehouse, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].ItemCode < keys[j].ItemCode })

	out := make([]BatchBalance, 0, len(keys))
	for _, k := range keys {
		batches := append([]entity.BatchQty(nil), data[k]...)
		sort.Slice(batches, func(i, j int) bool { return batches[i].BatchNo < batches[j].BatchNo })
		for _, b := range batches {
			out = append(out, BatchBalance{ItemCode: k.ItemCode, Warehouse: k.Warehouse, BatchNo: b.BatchNo, Qty: b.Qty})
		}
	}
	return out, nil
}
