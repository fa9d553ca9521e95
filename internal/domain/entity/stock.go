package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bin representa el stock actual de un artículo en una bodega (tabla materializada).
type Bin struct {
	CompanyID     string
	ItemCode      string
	Warehouse     string
	ActualQty     decimal.Decimal
	ValuationRate decimal.Decimal
	UpdatedAt     time.Time
}

// StockLedgerEntry movimiento inmutable del libro de stock.
type StockLedgerEntry struct {
	ID                  string
	CompanyID           string
	ItemCode            string
	Warehouse           string
	BatchNo             string
	PostingDateTime     time.Time
	ActualQty           decimal.Decimal // positivo entrada, negativo salida
	QtyAfterTransaction decimal.Decimal
	ValuationRate       decimal.Decimal
	VoucherType         string
	VoucherNo           string
	CreatedAt           time.Time
}

// ItemWarehouse clave artículo+bodega.
type ItemWarehouse struct {
	ItemCode  string
	Warehouse string
}

// BatchQty saldo de un lote.
type BatchQty struct {
	BatchNo string
	Qty     decimal.Decimal
}
