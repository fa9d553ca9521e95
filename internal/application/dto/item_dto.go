package dto

import "time"

// CreateItemRequest entrada para crear un artículo.
type CreateItemRequest struct {
	ItemCode   string `json:"item_code" validate:"required,min=1,max=140"`
	ItemName   string `json:"item_name" validate:"omitempty,max=200"`
	StockUOM   string `json:"stock_uom" validate:"required,max=40"`
	HasBatchNo bool   `json:"has_batch_no"`
}

// ItemResponse salida de un artículo.
type ItemResponse struct {
	ItemCode   string    `json:"item_code"`
	CompanyID  string    `json:"company_id"`
	ItemName   string    `json:"item_name"`
	StockUOM   string    `json:"stock_uom"`
	HasBatchNo bool      `json:"has_batch_no"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ItemListResponse lista paginada de artículos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
