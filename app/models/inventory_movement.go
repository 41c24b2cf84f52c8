package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// MovementType is the direction of a stock movement.
type MovementType string

const (
	MovementIn  MovementType = "in"
	MovementOut MovementType = "out"
)

// ReferenceType identifies the workflow that triggered a stock movement.
// It is a closed set so exhaustive handling can be checked at compile time.
type ReferenceType string

const (
	ReferenceSale              ReferenceType = "sale"
	ReferenceCustomerOrder     ReferenceType = "customer_order"
	ReferenceOrderCancellation ReferenceType = "order_cancellation"
	ReferencePaymentRejection  ReferenceType = "payment_rejection"
	ReferenceRefund            ReferenceType = "refund"
	ReferenceAdjustment        ReferenceType = "adjustment"
)

// ErrMovementImmutable is returned when code attempts to update or delete a
// ledger row. The movement log is the audit trail; it only ever grows.
var ErrMovementImmutable = errors.New("inventory movements are append-only")

// InventoryMovement is one append-only ledger row recording a directional
// change to a product's stock. Quantity is always positive; direction lives
// in Type. (ReferenceType, ReferenceID) is a weak reference to the entity
// that caused the movement — a sale, an order, or a manual adjustment
// (ReferenceID 0 for adjustments, which have no referenced entity).
type InventoryMovement struct {
	ID            uint          `gorm:"primaryKey"                json:"id"`
	ProductID     uint          `gorm:"not null;index"            json:"product_id"`
	Product       *Product      `json:"product,omitempty"`
	Quantity      int           `gorm:"not null"                  json:"quantity"`
	Type          MovementType  `gorm:"size:10;not null;index"    json:"type"`
	ReferenceType ReferenceType `gorm:"size:50;not null;index"    json:"reference_type"`
	ReferenceID   uint          `json:"reference_id"`
	StaffID       *uint         `gorm:"index"                     json:"staff_id"` // nil = customer-initiated
	Staff         *User         `gorm:"foreignKey:StaffID"        json:"staff,omitempty"`
	Notes         string        `gorm:"type:text"                 json:"notes"`
	CreatedAt     time.Time     `json:"created_at"`
}

// SignedQuantity returns the movement's delta as applied to stock.
func (m *InventoryMovement) SignedQuantity() int {
	if m.Type == MovementOut {
		return -m.Quantity
	}
	return m.Quantity
}

// BeforeUpdate blocks mutation of existing ledger rows.
func (m *InventoryMovement) BeforeUpdate(*gorm.DB) error {
	return ErrMovementImmutable
}

// BeforeDelete blocks deletion of ledger rows.
func (m *InventoryMovement) BeforeDelete(*gorm.DB) error {
	return ErrMovementImmutable
}
