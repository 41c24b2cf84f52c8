package services

import (
	"fmt"
	"time"

	"github.com/cafahardware/pos/app/events"
	"github.com/cafahardware/pos/app/models"
	"github.com/cafahardware/pos/pkg/metrics"
	"github.com/cafahardware/pos/pkg/orm"
)

// TransactionLine is one scanned line of a point-of-sale checkout.
type TransactionLine struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity"   validate:"required,gte=1"`
}

// ProcessInput carries a walk-in or order-fulfilling checkout.
type ProcessInput struct {
	Items         []TransactionLine
	PaymentMethod string
	CustomerPhone string
	StaffID       uint
	OrderID       *uint
	Notes         string
}

// TransactionService processes counter sales and refunds. A sale deducts
// stock and, when it fulfils a customer order, completes that order in the
// same transaction.
type TransactionService struct {
	inventory *InventoryService
	notifier  Notifier
}

func NewTransactionService(inventory *InventoryService, notifier Notifier) *TransactionService {
	return &TransactionService{inventory: inventory, notifier: notifier}
}

// Process records a completed sale. Every line is priced from the current
// product record, stock is deducted under row locks, and a linked customer
// order is marked completed — all atomically. Any failure leaves no trace.
func (s *TransactionService) Process(in ProcessInput) (*models.Transaction, error) {
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

	var txn models.Transaction
	fx := &Effects{}

	err := orm.Transaction(func(tx *orm.Query) error {
		lines := make([]OrderLine, len(in.Items))
		for i, l := range in.Items {
			lines[i] = OrderLine{ProductID: l.ProductID, Quantity: l.Quantity}
		}
		products, err := lockProducts(tx, lines)
		if err != nil {
			return err
		}

		var total float64
		items := make([]models.TransactionItem, 0, len(in.Items))
		remaining := make(map[uint]int, len(products))
		for id, p := range products {
			remaining[id] = p.StockQuantity
		}

		for _, line := range in.Items {
			p := products[line.ProductID]
			if remaining[p.ID] < line.Quantity {
				return &InsufficientStockError{
					ProductName: p.Name,
					Available:   remaining[p.ID],
					Requested:   line.Quantity,
				}
			}
			remaining[p.ID] -= line.Quantity

			subtotal := p.Price * float64(line.Quantity)
			total += subtotal
			items = append(items, models.TransactionItem{
				ProductID: p.ID,
				Quantity:  line.Quantity,
				Price:     p.Price,
				Subtotal:  subtotal,
			})
		}

		txn = models.Transaction{
			OrderID:       in.OrderID,
			CustomerPhone: in.CustomerPhone,
			TotalAmount:   total,
			PaymentMethod: in.PaymentMethod,
			StaffID:       in.StaffID,
			Status:        models.TransactionCompleted,
			Notes:         in.Notes,
		}
		if err := tx.Create(&txn); err != nil {
			return err
		}

		staffID := in.StaffID
		for i := range items {
			items[i].TransactionID = txn.ID
			if err := tx.Create(&items[i]); err != nil {
				return err
			}

			_, err := s.inventory.ReduceStockTx(tx, fx,
				items[i].ProductID, items[i].Quantity,
				models.ReferenceSale, txn.ID, &staffID,
				fmt.Sprintf("Sale transaction #%d", txn.ID))
			if err != nil {
				return err
			}
		}
		txn.Items = items

		if in.OrderID != nil {
			if err := s.completeLinkedOrder(tx, fx, *in.OrderID, txn); err != nil {
				return err
			}
		}

		fx.Event(events.TransactionCompleted, events.TransactionCompletedPayload{
			Transaction: txn,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.TransactionsProcessed.WithLabelValues(txn.PaymentMethod).Inc()
	fx.Flush()
	if s.notifier != nil && txn.CustomerPhone != "" {
		s.notifier.SendTransactionReceipt(&txn)
	}
	return &txn, nil
}

// Refund reverses a completed sale: every sold item goes back to stock and
// the transaction flips to refunded. Only completed transactions can be
// refunded, and only once.
func (s *TransactionService) Refund(transactionID uint, staffID uint, reason string) (*models.Transaction, error) {
	var txn models.Transaction
	fx := &Effects{}

	err := orm.Transaction(func(tx *orm.Query) error {
		if err := tx.LockForUpdate().Preload("Items").First(&txn, transactionID); err != nil {
			return err
		}

		if txn.Status == models.TransactionRefunded {
			return &InvalidStateError{Message: "Transaction is already refunded"}
		}
		if txn.Status != models.TransactionCompleted {
			return &InvalidStateError{Message: "Only completed transactions can be refunded"}
		}

		for _, item := range txn.Items {
			_, err := s.inventory.AddStockTx(tx, fx,
				item.ProductID, item.Quantity,
				models.ReferenceRefund, txn.ID, &staffID,
				fmt.Sprintf("Refund for transaction #%d", txn.ID))
			if err != nil {
				return err
			}
		}

		txn.Status = models.TransactionRefunded
		notes := txn.Notes
		if reason != "" {
			if notes != "" {
				notes += "\n"
			}
			notes += "Refund Reason: " + reason
			txn.Notes = notes
		}
		return tx.Model(&models.Transaction{}).Where("id = ?", txn.ID).Updates(map[string]interface{}{
			"status": models.TransactionRefunded,
			"notes":  txn.Notes,
		})
	})
	if err != nil {
		return nil, err
	}

	fx.Flush()
	if s.notifier != nil && txn.CustomerPhone != "" {
		s.notifier.SendRefundNotice(&txn)
	}
	return &txn, nil
}

// completeLinkedOrder marks the fulfilled customer order completed inside
// the sale's transaction, so the sale and the order close together.
func (s *TransactionService) completeLinkedOrder(tx *orm.Query, fx *Effects, orderID uint, txn models.Transaction) error {
	var order models.Order
	if err := tx.LockForUpdate().First(&order, orderID); err != nil {
		return err
	}
	if order.IsCancelled() {
		return &InvalidStateError{Message: "Cannot fulfil a cancelled order"}
	}
	if order.IsCompleted() {
		return &InvalidStateError{Message: "Order is already completed"}
	}

	oldStatus := order.Status
	now := time.Now()
	order.Status = models.OrderCompleted
	order.CompletedAt = &now
	changes := map[string]interface{}{
		"status":       models.OrderCompleted,
		"completed_at": &now,
	}
	if order.PaymentStatus != models.PaymentPaid {
		order.PaymentStatus = models.PaymentPaid
		changes["payment_status"] = models.PaymentPaid
	}
	if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(changes); err != nil {
		return err
	}

	fx.Event(events.OrderStatusChanged, events.OrderStatusChangedPayload{
		Order:     order,
		OldStatus: oldStatus,
		NewStatus: models.OrderCompleted,
	})
	return nil
}
