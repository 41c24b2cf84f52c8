package models

import "gorm.io/gorm"

// Transaction (sale) states.
const (
	TransactionPending   = "pending"
	TransactionCompleted = "completed"
	TransactionRefunded  = "refunded"
)

// Transaction is a point-of-sale sale rung up by staff. Walk-in sales have no
// linked order; online orders picked up at the counter reference theirs.
type Transaction struct {
	gorm.Model
	OrderID       *uint             `gorm:"index"    json:"order_id"`
	Order         *Order            `json:"order,omitempty"`
	CustomerPhone string            `gorm:"size:20"  json:"customer_phone"`
	TotalAmount   float64           `gorm:"type:decimal(10,2);not null"      json:"total_amount"`
	PaymentMethod string            `gorm:"size:20;not null"                 json:"payment_method"`
	StaffID       uint              `gorm:"not null;index"                   json:"staff_id"`
	Staff         *User             `json:"staff,omitempty"`
	Status        string            `gorm:"size:20;not null;default:pending" json:"status"`
	Notes         string            `gorm:"type:text"                        json:"notes"`
	Items         []TransactionItem `gorm:"constraint:OnDelete:CASCADE"      json:"items"`
}

// TransactionItem is one sale line with the price snapshotted at sale time.
type TransactionItem struct {
	gorm.Model
	TransactionID uint     `gorm:"not null;index" json:"transaction_id"`
	ProductID     uint     `gorm:"not null;index" json:"product_id"`
	Product       *Product `json:"product,omitempty"`
	Quantity      int      `gorm:"not null"                    json:"quantity"`
	Price         float64  `gorm:"type:decimal(10,2);not null" json:"price"`
	Subtotal      float64  `gorm:"type:decimal(10,2);not null" json:"subtotal"`
}

func (t *Transaction) IsCompleted() bool { return t.Status == TransactionCompleted }
func (t *Transaction) IsRefunded() bool  { return t.Status == TransactionRefunded }
