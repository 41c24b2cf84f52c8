package models

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Order lifecycle states. Forward flow is pending → confirmed → processing →
// ready → completed; cancelled is reachable from every non-terminal state.
const (
	OrderPending    = "pending"
	OrderConfirmed  = "confirmed"
	OrderProcessing = "processing"
	OrderReady      = "ready"
	OrderCompleted  = "completed"
	OrderCancelled  = "cancelled"
)

// Payment status is an axis orthogonal to the order status.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// Payment methods accepted at checkout and at the counter.
const (
	PayCash          = "cash"
	PayCard          = "card"
	PayDigitalWallet = "digital_wallet"
	PayGcash         = "gcash"
)

// Delivery methods.
const (
	DeliveryPickup  = "pickup"
	DeliveryDeliver = "delivery"
)

// Order is a customer storefront order. Stock is committed at placement and
// restored on cancellation or payment rejection.
type Order struct {
	gorm.Model
	CustomerID       uint        `gorm:"not null;index:idx_orders_customer_status" json:"customer_id"`
	Customer         *Customer   `json:"customer,omitempty"`
	OrderNumber      string      `gorm:"size:50;not null;uniqueIndex"  json:"order_number"`
	TotalAmount      float64     `gorm:"type:decimal(10,2);not null"   json:"total_amount"`
	Status           string      `gorm:"size:20;not null;default:pending;index:idx_orders_customer_status" json:"status"`
	PaymentMethod    string      `gorm:"size:20;not null;default:cash" json:"payment_method"`
	PaymentStatus    string      `gorm:"size:20;not null;default:pending" json:"payment_status"`
	PaymentProof     string      `gorm:"size:255"                      json:"payment_proof"`
	PaymentReference string      `gorm:"size:100"                      json:"payment_reference"`
	DeliveryMethod   string      `gorm:"size:20;not null;default:pickup" json:"delivery_method"`
	DeliveryAddress  string      `gorm:"type:text"                     json:"delivery_address"`
	Notes            string      `gorm:"type:text"                     json:"notes"`
	ConfirmedAt      *time.Time  `json:"confirmed_at"`
	CompletedAt      *time.Time  `json:"completed_at"`
	VerifiedAt       *time.Time  `json:"verified_at"`
	VerifiedBy       *uint       `json:"verified_by"`
	Verifier         *User       `gorm:"foreignKey:VerifiedBy" json:"verifier,omitempty"`
	Items            []OrderItem `gorm:"constraint:OnDelete:CASCADE"   json:"items"`
}

// OrderItem is one order line. Price is a snapshot of the product price at
// order time; the row is never updated after creation.
type OrderItem struct {
	gorm.Model
	OrderID   uint     `gorm:"not null;index" json:"order_id"`
	ProductID uint     `gorm:"not null;index" json:"product_id"`
	Product   *Product `json:"product,omitempty"`
	Quantity  int      `gorm:"not null"                    json:"quantity"`
	Price     float64  `gorm:"type:decimal(10,2);not null" json:"price"`
	Subtotal  float64  `gorm:"type:decimal(10,2);not null" json:"subtotal"`
}

// BeforeCreate assigns a unique order number when none is set.
func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.OrderNumber == "" {
		o.OrderNumber = NewOrderNumber()
	}
	return nil
}

// NewOrderNumber generates an ORD-prefixed identifier from the current
// microsecond timestamp, e.g. "ORD-68B0C4A1F2E3D".
func NewOrderNumber() string {
	return "ORD-" + strings.ToUpper(strconv.FormatInt(time.Now().UnixMicro(), 16))
}

func (o *Order) IsPending() bool   { return o.Status == OrderPending }
func (o *Order) IsCompleted() bool { return o.Status == OrderCompleted }
func (o *Order) IsCancelled() bool { return o.Status == OrderCancelled }

// RequiresPaymentProof reports whether the payment method needs a customer
// submitted proof image (out-of-band wallet payments).
func (o *Order) RequiresPaymentProof() bool {
	return o.PaymentMethod == PayGcash || o.PaymentMethod == PayDigitalWallet
}

// IsPaymentVerified reports whether staff has approved the payment.
func (o *Order) IsPaymentVerified() bool {
	return o.PaymentStatus == PaymentPaid && o.VerifiedAt != nil
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderProcessing, OrderReady, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// ValidPaymentMethod reports whether s is an accepted payment method.
func ValidPaymentMethod(s string) bool {
	switch s {
	case PayCash, PayCard, PayDigitalWallet, PayGcash:
		return true
	}
	return false
}
