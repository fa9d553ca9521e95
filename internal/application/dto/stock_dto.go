package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBalanceRequest query de GET /api/stock/balance.
type StockBalanceRequest struct {
	ItemCode  string `query:"item_code" validate:"required"`
	Warehouse string `query:"warehouse" validate:"required"`
}

// StockBalanceResponse saldo actual de un artículo en una bodega.
type StockBalanceResponse struct {
	ItemCode      string          `json:"item_code"`
	Warehouse     string          `json:"warehouse"`
	Qty           decimal.Decimal `json:"qty"`
	ValuationRate decimal.Decimal `json:"valuation_rate"`
	At            time.Time       `json:"at"`
}

// BatchBalanceDTO saldo de un lote.
type BatchBalanceDTO struct {
	ItemCode  string          `json:"item_code"`
	Warehouse string          `json:"warehouse"`
	BatchNo   string          `json:"batch_no"`
	Qty       decimal.Decimal `json:"qty"`
}

// BatchBalanceListResponse saldos por lote de una bodega.
type BatchBalanceListResponse struct {
	Warehouse   string            `json:"warehouse"`
	PostingDate string            `json:"posting_date"`
	Items       []BatchBalanceDTO `json:"items"`
}
