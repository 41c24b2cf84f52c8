package models

import "gorm.io/gorm"

// Category groups products in the catalogue.
type Category struct {
	gorm.Model
	Name        string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text"                     json:"description"`
	Products    []Product `json:"-"`
}

// Product is a catalogue item with its authoritative stock quantity.
//
// StockQuantity is owned by the inventory service: every change goes through
// ReduceStock/AddStock/AdjustStock so that exactly one InventoryMovement row
// accompanies each mutation. Nothing else may write this column.
type Product struct {
	gorm.Model
	Name              string    `gorm:"size:255;not null;index"        json:"name"`
	SKU               string    `gorm:"size:100;not null;uniqueIndex"  json:"sku"`
	Barcode           *string   `gorm:"size:100;uniqueIndex"           json:"barcode"`
	Description       string    `gorm:"type:text"                      json:"description"`
	Image             string    `gorm:"size:255"                       json:"image"`
	Price             float64   `gorm:"type:decimal(10,2);not null"    json:"price"`
	Cost              *float64  `gorm:"type:decimal(10,2)"             json:"cost"`
	StockQuantity     int       `gorm:"not null;default:0"             json:"stock_quantity"`
	LowStockThreshold int       `gorm:"not null;default:10"            json:"low_stock_threshold"`
	CategoryID        uint      `gorm:"index"                          json:"category_id"`
	Category          *Category `json:"category,omitempty"`
	IsActive          bool      `gorm:"not null;default:true"          json:"is_active"`
}

// IsLowStock reports whether stock is at or below the reorder threshold.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.LowStockThreshold
}

// IsOutOfStock reports whether the product has no stock left.
func (p *Product) IsOutOfStock() bool {
	return p.StockQuantity == 0
}
