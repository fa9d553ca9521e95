package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/manufactura-api/internal/domain"
	"github.com/jhoicas/manufactura-api/internal/domain/entity"
	"github.com/jhoicas/manufactura-api/internal/domain/inventory"
	"github.com/jhoicas/manufactura-api/internal/domain/repository"
)

// LedgerPoster contabiliza documentos confirmados en el libro de stock: por cada movimiento
// bloquea el bin (SELECT FOR UPDATE), valida stock suficiente, actualiza cantidad y tasa
// de valoración y guarda el registro inmutable.
type LedgerPoster struct {
	allowNegative bool
}

// NewLedgerPoster construye el poster. allowNegative desactiva el control de stock insuficiente.
func NewLedgerPoster(allowNegative bool) *LedgerPoster {
	return &LedgerPoster{allowNegative: allowNegative}
}

type movement struct {
	companyID   string
	itemCode    string
	warehouse   string
	batchNo     string
	qty         decimal.Decimal
	rate        *decimal.Decimal // tasa de entrada; nil = tasa actual del bin
	setRate     bool             // reconciliación: la tasa reemplaza a la del bin
	at          time.Time
	voucherType string
	voucherNo   string
}

// PostStockEntry contabiliza las líneas de un Stock Entry: salida desde s_warehouse y entrada en t_warehouse.
func (p *LedgerPoster) PostStockEntry(ctx context.Context, repos repository.TxRepos, e *entity.StockEntry) error {
	at := e.PostingDateTime()
	for _, d := range e.Items {
		cf := d.ConversionFactor
		if cf.IsZero() {
			cf = decimal.NewFromInt(1)
		}
		qty := d.Qty.Mul(cf)
		if d.SWarehouse != "" {
			if err := p.post(ctx, repos.Ledger, movement{
				companyID: e.CompanyID, itemCode: d.ItemCode, warehouse: d.SWarehouse, batchNo: d.BatchNo,
				qty: qty.Neg(), at: at, voucherType: entity.DoctypeStockEntry, voucherNo: e.Name,
			}); err != nil {
				return err
			}
		}
		if d.TWarehouse != "" {
			var rate *decimal.Decimal
			if d.BasicRate.IsPositive() {
				r := d.BasicRate.Div(cf)
				rate = &r
			}
			if err := p.post(ctx, repos.Ledger, movement{
				companyID: e.CompanyID, itemCode: d.ItemCode, warehouse: d.TWarehouse, batchNo: d.BatchNo,
				qty: qty, rate: rate, at: at, voucherType: entity.DoctypeStockEntry, voucherNo: e.Name,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

// PostReconciliation lleva cada artículo/bodega/lote a la cantidad contada, contabilizando la diferencia.
func (p *LedgerPoster) PostReconciliation(ctx context.Context, repos repository.TxRepos, r *entity.StockReconciliation) error {
	at := r.PostingDateTime()
	for _, it := range r.Items {
		current, err := repos.Ledger.GetBatchBalance(ctx, r.CompanyID, it.ItemCode, it.Warehouse, it.BatchNo, at)
		if err != nil {
			return err
		}
		diff := it.Qty.Sub(current)
		if diff.IsZero() && !it.ValuationRate.IsPositive() {
			continue
		}
		rate := it.ValuationRate
		if err := p.post(ctx, repos.Ledger, movement{
			companyID: r.CompanyID, itemCode: it.ItemCode, warehouse: it.Warehouse, batchNo: it.BatchNo,
			qty: diff, rate: &rate, setRate: rate.IsPositive(), at: at,
			voucherType: entity.DoctypeStockReconciliation, voucherNo: r.Name,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (p *LedgerPoster) post(ctx context.Context, ledger repository.StockLedgerRepository, m movement) error {
	bin, err := ledger.GetBinForUpdate(ctx, m.companyID, m.itemCode, m.warehouse)
	if err != nil {
		return err
	}
	newQty := bin.ActualQty.Add(m.qty)
	if m.qty.IsNegative() && newQty.IsNegative() && !p.allowNegative {
		return &domain.StockError{
			ItemCode:  m.itemCode,
			Warehouse: m.warehouse,
			Available: bin.ActualQty.String(),
			Required:  m.qty.Neg().String(),
		}
	}

	switch {
	case m.setRate:
		bin.ValuationRate = *m.rate
	case m.qty.IsPositive():
		incoming := bin.ValuationRate
		if m.rate != nil {
			incoming = *m.rate
		}
		bin.ValuationRate = inventory.MovingAverageRate(bin.ActualQty, bin.ValuationRate, m.qty, incoming)
	}
	bin.ActualQty = newQty
	bin.UpdatedAt = time.Now()
	if err := ledger.UpsertBin(ctx, bin); err != nil {
		return err
	}

	return ledger.CreateEntry(ctx, &entity.StockLedgerEntry{
		ID:                  uuid.New().String(),
		CompanyID:           m.companyID,
		ItemCode:            m.itemCode,
		Warehouse:           m.warehouse,
		BatchNo:             m.batchNo,
		PostingDateTime:     m.at,
		ActualQty:           m.qty,
		QtyAfterTransaction: newQty,
		ValuationRate:       bin.ValuationRate,
		VoucherType:         m.voucherType,
		VoucherNo:           m.voucherNo,
		CreatedAt:           time.Now(),
	})
}
