package entity

import "time"

// Item artículo de inventario (pertenece a una Company).
type Item struct {
	ItemCode   string // código único por empresa
	CompanyID  string
	ItemName   string
	StockUOM   string
	HasBatchNo bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Warehouse bodega donde se almacena inventario.
type Warehouse struct {
	ID        string
	CompanyID string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
