// Package events defines the domain events the workflows publish and the
// typed payloads that travel with them. Events are fired through pkg/event
// strictly after the atomic unit that produced them has committed; listeners
// (see app/listeners) fan them out to the realtime broadcast layer.
package events

import "github.com/cafahardware/pos/app/models"

// Event names. The dotted form doubles as the broadcast channel.event key
// the SPA subscribes to.
const (
	InventoryUpdated     = "inventory.updated"
	LowStockAlert        = "stock.low"
	OrderStatusChanged   = "order.status_changed"
	TransactionCompleted = "transaction.completed"
)

// Change types carried by InventoryUpdated.
const (
	ChangeReduction  = "reduction"
	ChangeAddition   = "addition"
	ChangeAdjustment = "adjustment"
	ChangeRestock    = "restock"
)

// InventoryUpdatedPayload announces a committed stock change.
type InventoryUpdatedPayload struct {
	Product        models.Product `json:"product"`
	ChangeType     string         `json:"change_type"`
	QuantityChange int            `json:"quantity_change"`
}

// LowStockPayload announces stock at or below a product's threshold.
// Severity is "critical" when the product is fully out of stock.
type LowStockPayload struct {
	Product  models.Product `json:"product"`
	Severity string         `json:"severity"`
}

// NewLowStockPayload derives the severity from the product's stock level.
func NewLowStockPayload(p models.Product) LowStockPayload {
	severity := "warning"
	if p.StockQuantity == 0 {
		severity = "critical"
	}
	return LowStockPayload{Product: p, Severity: severity}
}

// OrderStatusChangedPayload announces an order transition. OldStatus is
// "new" for just-placed orders.
type OrderStatusChangedPayload struct {
	Order     models.Order `json:"order"`
	OldStatus string       `json:"old_status"`
	NewStatus string       `json:"new_status"`
}

// TransactionCompletedPayload announces a completed point-of-sale sale.
type TransactionCompletedPayload struct {
	Transaction models.Transaction `json:"transaction"`
}
