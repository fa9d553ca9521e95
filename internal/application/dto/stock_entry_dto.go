package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockEntryRequest body para POST/PUT /api/stock-entries.
type StockEntryRequest struct {
	StockEntryType string                    `json:"stock_entry_type" validate:"required,oneof=Manufacture 'Material Issue' 'Material Receipt'"`
	PostingDate    string                    `json:"posting_date" validate:"omitempty,datetime=2006-01-02"`
	PostingTime    string                    `json:"posting_time" validate:"omitempty,max=8"`
	SetPostingTime bool                      `json:"set_posting_time"`
	FromBOM        bool                      `json:"from_bom"`
	IsTinted       bool                      `json:"custom_is_tinted"`
	Items          []StockEntryDetailRequest `json:"items" validate:"required,min=1,dive"`
	TintingItems   []TintingItemRequest      `json:"custom_tinting_items" validate:"omitempty,dive"`
	FillingDetails []FillingDetailRequest    `json:"custom_filling_details" validate:"omitempty,dive"`
}

// StockEntryDetailRequest línea de ítems.
type StockEntryDetailRequest struct {
	ItemCode         string          `json:"item_code" validate:"required"`
	Qty              decimal.Decimal `json:"qty"`
	UOM              string          `json:"uom"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
	SWarehouse       string          `json:"s_warehouse"`
	TWarehouse       string          `json:"t_warehouse"`
	BatchNo          string          `json:"batch_no"`
	BasicRate        decimal.Decimal `json:"basic_rate"`
	IsFinishedItem   bool            `json:"is_finished_item"`
}

// TintingItemRequest fila de custom_tinting_items.
type TintingItemRequest struct {
	TintItem        string          `json:"tint_item"`
	TintQty         decimal.Decimal `json:"tint_qty"`
	FinalProduct    string          `json:"final_product"`
	FinalQty        decimal.Decimal `json:"final_qty"`
	ProducedQty     decimal.Decimal `json:"produced_qty"`
	SourceWarehouse string          `json:"source_warehouse"`
	TargetWarehouse string          `json:"target_warehouse"`
}

// FillingDetailRequest fila de custom_filling_details.
type FillingDetailRequest struct {
	BulkItem        string          `json:"bulk_item"`
	FilledItem      string          `json:"filled_item"`
	Filled          decimal.Decimal `json:"filled"`
	TotalQty        decimal.Decimal `json:"total_qty"`
	TargetWarehouse string          `json:"target_warehouse"`
}

// StockEntryResponse salida de un Stock Entry con sus tablas hijas.
type StockEntryResponse struct {
	ID                    string                `json:"id"`
	Name                  string                `json:"name"`
	CompanyID             string                `json:"company_id"`
	StockEntryType        string                `json:"stock_entry_type"`
	PostingDate           string                `json:"posting_date"`
	PostingTime           string                `json:"posting_time"`
	SetPostingTime        bool                  `json:"set_posting_time"`
	FromBOM               bool                  `json:"from_bom"`
	DocStatus             int                   `json:"docstatus"`
	IsTinted              bool                  `json:"custom_is_tinted"`
	LinkedProductionEntry string                `json:"custom_linked_production_entry,omitempty"`
	Items                 []StockEntryDetailDTO `json:"items"`
	TintingItems          []TintingItemDTO      `json:"custom_tinting_items"`
	FillingDetails        []FillingDetailDTO    `json:"custom_filling_details"`
	CreatedBy             string                `json:"created_by"`
	CreatedAt             time.Time             `json:"created_at"`
	UpdatedAt             time.Time             `json:"updated_at"`
	Messages              []string              `json:"messages,omitempty"`
}

// StockEntryDetailDTO línea de ítems en respuestas.
type StockEntryDetailDTO struct {
	Idx int `json:"idx"`
	StockEntryDetailRequest
}

// TintingItemDTO fila de tinturado en respuestas.
type TintingItemDTO struct {
	Idx int `json:"idx"`
	TintingItemRequest
}

// FillingDetailDTO fila de llenado en respuestas.
type FillingDetailDTO struct {
	Idx int `json:"idx"`
	FillingDetailRequest
}

// StockEntryListResponse lista paginada de cabeceras.
type StockEntryListResponse struct {
	Items []StockEntryResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

