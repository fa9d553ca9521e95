package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockReconciliationRequest body para POST/PUT /api/stock-reconciliations.
type StockReconciliationRequest struct {
	PostingDate string                           `json:"posting_date" validate:"omitempty,datetime=2006-01-02"`
	PostingTime string                           `json:"posting_time" validate:"omitempty,max=8"`
	Items       []StockReconciliationItemRequest `json:"items" validate:"required,min=1,dive"`
}

// StockReconciliationItemRequest fila de conteo.
type StockReconciliationItemRequest struct {
	ItemCode      string          `json:"item_code" validate:"required"`
	Warehouse     string          `json:"warehouse" validate:"required"`
	BatchNo       string          `json:"batch_no"`
	Qty           decimal.Decimal `json:"qty"`
	ValuationRate decimal.Decimal `json:"valuation_rate"`
}

// StockReconciliationItemDTO fila en respuestas.
type StockReconciliationItemDTO struct {
	Idx int `json:"idx"`
	StockReconciliationItemRequest
	Amount decimal.Decimal `json:"amount"`
}

// StockReconciliationResponse salida de un Stock Reconciliation.
type StockReconciliationResponse struct {
	ID          string                       `json:"id"`
	Name        string                       `json:"name"`
	CompanyID   string                       `json:"company_id"`
	PostingDate string                       `json:"posting_date"`
	PostingTime string                       `json:"posting_time"`
	DocStatus   int                          `json:"docstatus"`
	Items       []StockReconciliationItemDTO `json:"items"`
	CreatedBy   string                       `json:"created_by"`
	CreatedAt   time.Time                    `json:"created_at"`
	UpdatedAt   time.Time                    `json:"updated_at"`
	Messages    []string                     `json:"messages,omitempty"`
}
