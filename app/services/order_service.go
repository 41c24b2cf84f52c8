package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/cafahardware/pos/app/events"
	"github.com/cafahardware/pos/app/models"
	"github.com/cafahardware/pos/pkg/metrics"
	"github.com/cafahardware/pos/pkg/orm"
)

// OrderLine is one requested line of a checkout.
type OrderLine struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity"   validate:"required,gte=1"`
}

// PlaceOrderInput carries everything needed to place a storefront order.
// PaymentProof is the storage path of an already-uploaded proof image.
type PlaceOrderInput struct {
	Customer        *models.Customer
	Items           []OrderLine
	PaymentMethod   string
	DeliveryMethod  string
	DeliveryAddress string
	Notes           string
	PaymentProof    string
}

// OrderService drives the customer order state machine: placement with stock
// commitment, cancellation and payment rejection with compensating
// restoration, and staff status updates.
type OrderService struct {
	inventory *InventoryService
	notifier  Notifier
}

func NewOrderService(inventory *InventoryService, notifier Notifier) *OrderService {
	return &OrderService{inventory: inventory, notifier: notifier}
}

// PlaceOrder validates every line, creates the order with price snapshots
// and commits the stock, all in one transaction. Any failing line rejects
// the whole order; partial orders are never created.
func (s *OrderService) PlaceOrder(in PlaceOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, &ValidationError{Field: "items", Message: "At least one item is required."}
	}
	for _, line := range in.Items {
		if line.Quantity < 1 {
			return nil, &ValidationError{Field: "items", Message: "Item quantity must be at least 1."}
		}
	}
	if !models.ValidPaymentMethod(in.PaymentMethod) {
		return nil, &ValidationError{Field: "payment_method", Message: "Unsupported payment method."}
	}
	if (in.PaymentMethod == models.PayGcash || in.PaymentMethod == models.PayDigitalWallet) && in.PaymentProof == "" {
		return nil, &ValidationError{Field: "payment_proof", Message: "Payment proof is required for this payment method."}
	}
	if in.DeliveryMethod == models.DeliveryDeliver && in.DeliveryAddress == "" {
		return nil, &ValidationError{Field: "delivery_address", Message: "Delivery address is required for delivery orders."}
	}

	var order models.Order
	fx := &Effects{}

	err := orm.Transaction(func(tx *orm.Query) error {
		products, err := lockProducts(tx, in.Items)
		if err != nil {
			return err
		}

		var total float64
		items := make([]models.OrderItem, 0, len(in.Items))
		remaining := make(map[uint]int, len(products))
		for id, p := range products {
			remaining[id] = p.StockQuantity
		}

		for _, line := range in.Items {
			p := products[line.ProductID]

			if !p.IsActive {
				return &ValidationError{Field: "items",
					Message: fmt.Sprintf("Product %s is no longer available.", p.Name)}
			}
			if remaining[p.ID] < line.Quantity {
				return &ValidationError{Field: "items",
					Message: fmt.Sprintf("Insufficient stock for %s. Available: %d", p.Name, remaining[p.ID])}
			}
			remaining[p.ID] -= line.Quantity

			subtotal := p.Price * float64(line.Quantity)
			total += subtotal
			items = append(items, models.OrderItem{
				ProductID: p.ID,
				Quantity:  line.Quantity,
				Price:     p.Price,
				Subtotal:  subtotal,
			})
		}

		order = models.Order{
			CustomerID:      in.Customer.ID,
			TotalAmount:     total,
			Status:          models.OrderPending,
			PaymentMethod:   in.PaymentMethod,
			PaymentStatus:   models.PaymentPending,
			PaymentProof:    in.PaymentProof,
			DeliveryMethod:  in.DeliveryMethod,
			DeliveryAddress: in.DeliveryAddress,
			Notes:           in.Notes,
		}
		if err := tx.Create(&order); err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
			if err := tx.Create(&items[i]); err != nil {
				return err
			}

			_, err := s.inventory.ReduceStockTx(tx, fx,
				items[i].ProductID, items[i].Quantity,
				models.ReferenceCustomerOrder, order.ID, nil,
				"Customer order: "+order.OrderNumber)
			if err != nil {
				return err
			}
		}
		order.Items = items
		order.Customer = in.Customer

		fx.Event(events.OrderStatusChanged, events.OrderStatusChangedPayload{
			Order:     order,
			OldStatus: "new",
			NewStatus: models.OrderPending,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.OrdersPlaced.Inc()
	fx.Flush()
	if s.notifier != nil {
		s.notifier.SendOrderConfirmation(&order)
	}
	return &order, nil
}

// CancelOrder cancels an order and returns its stock to the shelf. A nil
// staffID means the customer is cancelling, which is only allowed while the
// order is still pending; staff may cancel any non-terminal order.
func (s *OrderService) CancelOrder(orderID uint, staffID *uint) (*models.Order, error) {
	var order models.Order
	fx := &Effects{}

	err := orm.Transaction(func(tx *orm.Query) error {
		if err := tx.LockForUpdate().Preload("Items").Preload("Customer").First(&order, orderID); err != nil {
			return err
		}

		switch {
		case order.IsCancelled():
			return &InvalidStateError{Message: "Order is already cancelled"}
		case order.IsCompleted():
			return &InvalidStateError{Message: "Cannot cancel a completed order"}
		case staffID == nil && !order.IsPending():
			return &InvalidStateError{Message: "Only pending orders can be cancelled"}
		}

		notes := "Order cancelled: " + order.OrderNumber
		if staffID != nil {
			notes = "Order cancelled by staff: " + order.OrderNumber
		}

		for _, item := range order.Items {
			_, err := s.inventory.AddStockTx(tx, fx,
				item.ProductID, item.Quantity,
				models.ReferenceOrderCancellation, order.ID, staffID, notes)
			if err != nil {
				return err
			}
		}

		oldStatus := order.Status
		order.Status = models.OrderCancelled
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("status", models.OrderCancelled); err != nil {
			return err
		}

		fx.Event(events.OrderStatusChanged, events.OrderStatusChangedPayload{
			Order:     order,
			OldStatus: oldStatus,
			NewStatus: models.OrderCancelled,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	fx.Flush()
	if s.notifier != nil {
		s.notifier.SendOrderStatusUpdate(&order, models.OrderCancelled)
	}
	return &order, nil
}

// UpdateStatus moves an order along the forward flow. Forward transitions
// have no stock side effects — stock was committed at placement. A request
// for "cancelled" is routed through CancelOrder so the restock always
// happens.
func (s *OrderService) UpdateStatus(orderID uint, newStatus string, staffID uint) (*models.Order, error) {
	if !models.ValidOrderStatus(newStatus) {
		return nil, &ValidationError{Field: "status", Message: "Unknown order status: " + newStatus}
	}
	if newStatus == models.OrderCancelled {
		return s.CancelOrder(orderID, &staffID)
	}

	var order models.Order
	fx := &Effects{}

	err := orm.Transaction(func(tx *orm.Query) error {
		if err := tx.LockForUpdate().Preload("Customer").First(&order, orderID); err != nil {
			return err
		}
		if order.IsCancelled() || order.IsCompleted() {
			return &InvalidStateError{Message: "Cannot update a " + order.Status + " order"}
		}

		oldStatus := order.Status
		now := time.Now()
		changes := map[string]interface{}{"status": newStatus}
		switch newStatus {
		case models.OrderConfirmed:
			order.ConfirmedAt = &now
			changes["confirmed_at"] = &now
		case models.OrderCompleted:
			order.CompletedAt = &now
			changes["completed_at"] = &now
		}
		order.Status = newStatus

		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(changes); err != nil {
			return err
		}

		fx.Event(events.OrderStatusChanged, events.OrderStatusChangedPayload{
			Order:     order,
			OldStatus: oldStatus,
			NewStatus: newStatus,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	fx.Flush()
	if s.notifier != nil {
		s.notifier.SendOrderStatusUpdate(&order, newStatus)
	}
	return &order, nil
}

// VerifyPayment approves or rejects a customer's uploaded payment proof.
// Approval marks the payment paid and promotes a pending order to confirmed.
// Rejection restores the committed stock and cancels the order. Each branch
// is a single atomic unit.
func (s *OrderService) VerifyPayment(orderID uint, action, reference, notes string, staffID uint) (*models.Order, error) {
	if action != "approve" && action != "reject" {
		return nil, &ValidationError{Field: "action", Message: "Action must be approve or reject."}
	}

	var order models.Order
	fx := &Effects{}
	approved := false

	err := orm.Transaction(func(tx *orm.Query) error {
		if err := tx.LockForUpdate().Preload("Items").Preload("Customer").First(&order, orderID); err != nil {
			return err
		}

		if order.PaymentProof == "" {
			return &InvalidStateError{Message: "No payment proof uploaded for this order"}
		}
		if order.PaymentStatus == models.PaymentPaid {
			return &InvalidStateError{Message: "Payment already verified"}
		}

		now := time.Now()
		oldStatus := order.Status

		if action == "approve" {
			approved = true
			order.PaymentStatus = models.PaymentPaid
			order.VerifiedAt = &now
			order.VerifiedBy = &staffID
			if reference != "" {
				order.PaymentReference = reference
			}

			changes := map[string]interface{}{
				"payment_status":    models.PaymentPaid,
				"verified_at":       &now,
				"verified_by":       staffID,
				"payment_reference": order.PaymentReference,
			}
			if order.Status == models.OrderPending {
				order.Status = models.OrderConfirmed
				order.ConfirmedAt = &now
				changes["status"] = models.OrderConfirmed
				changes["confirmed_at"] = &now
			}

			if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(changes); err != nil {
				return err
			}

			if order.Status != oldStatus {
				fx.Event(events.OrderStatusChanged, events.OrderStatusChangedPayload{
					Order:     order,
					OldStatus: oldStatus,
					NewStatus: order.Status,
				})
			}
			return nil
		}

		// Reject: compensate the stock commitment, then cancel.
		restoreNotes := notes
		if restoreNotes == "" {
			restoreNotes = "Payment verification failed: " + order.OrderNumber
		}
		for _, item := range order.Items {
			_, err := s.inventory.AddStockTx(tx, fx,
				item.ProductID, item.Quantity,
				models.ReferencePaymentRejection, order.ID, &staffID, restoreNotes)
			if err != nil {
				return err
			}
		}

		order.Status = models.OrderCancelled
		order.PaymentStatus = models.PaymentRefunded
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
			"status":         models.OrderCancelled,
			"payment_status": models.PaymentRefunded,
		}); err != nil {
			return err
		}

		fx.Event(events.OrderStatusChanged, events.OrderStatusChangedPayload{
			Order:     order,
			OldStatus: oldStatus,
			NewStatus: models.OrderCancelled,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	fx.Flush()
	if s.notifier != nil {
		if approved {
			s.notifier.SendPaymentVerified(&order)
		} else {
			s.notifier.SendPaymentRejected(&order)
		}
	}
	return &order, nil
}

// lockProducts takes exclusive locks on every product in lines, ordered by
// ascending product id. The fixed ordering prevents deadlock between two
// multi-item operations touching an overlapping product set.
func lockProducts(tx *orm.Query, lines []OrderLine) (map[uint]*models.Product, error) {
	ids := make([]uint, 0, len(lines))
	seen := make(map[uint]bool, len(lines))
	for _, line := range lines {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	products := make(map[uint]*models.Product, len(ids))
	for _, id := range ids {
		var p models.Product
		if err := tx.LockForUpdate().First(&p, id); err != nil {
			return nil, err
		}
		products[id] = &p
	}
	return products, nil
}
