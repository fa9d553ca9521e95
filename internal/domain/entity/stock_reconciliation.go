package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DoctypeStockReconciliation se usa como voucher_type en el libro de stock.
const DoctypeStockReconciliation = "Stock Reconciliation"

// StockReconciliation documento de conteo: cada fila es la cantidad real por artículo/bodega/lote.
type StockReconciliation struct {
	ID          string
	Name        string // serie MAT-RECO-YYYY-#####
	CompanyID   string
	PostingDate time.Time
	PostingTime string
	DocStatus   int
	Items       []*StockReconciliationItem
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StockReconciliationItem fila de conteo.
type StockReconciliationItem struct {
	ID            string
	Idx           int
	ItemCode      string
	Warehouse     string
	BatchNo       string
	Qty           decimal.Decimal
	ValuationRate decimal.Decimal
	Amount        decimal.Decimal
}

// AppendItem agrega una fila y asigna Idx.
func (r *StockReconciliation) AppendItem(it *StockReconciliationItem) *StockReconciliationItem {
	it.Idx = len(r.Items) + 1
	r.Items = append(r.Items, it)
	return it
}

// PostingDateTime combina fecha y hora de contabilización.
func (r *StockReconciliation) PostingDateTime() time.Time {
	return CombinePosting(r.PostingDate, r.PostingTime)
}
