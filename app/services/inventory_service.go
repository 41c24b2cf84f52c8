package services

import (
	"fmt"

	"github.com/cafahardware/pos/app/events"
	"github.com/cafahardware/pos/app/models"
	"github.com/cafahardware/pos/pkg/metrics"
	"github.com/cafahardware/pos/pkg/orm"
)

// InventoryService owns every mutation of Product.StockQuantity. Each
// operation locks the product row, applies the change, and appends exactly
// one ledger row inside the same transaction, so the movement log always
// reconciles with stock on hand.
type InventoryService struct {
	notifier Notifier
}

func NewInventoryService(notifier Notifier) *InventoryService {
	return &InventoryService{notifier: notifier}
}

// ReduceStock removes qty units from a product, recording the movement under
// (refType, refID). staffID is nil for customer-initiated reductions. Fails
// with InsufficientStockError — and no state change — when stock is short.
func (s *InventoryService) ReduceStock(productID uint, qty int, refType models.ReferenceType, refID uint, staffID *uint) (*models.Product, error) {
	var product *models.Product
	fx := &Effects{}

	err := orm.Transaction(func(tx *orm.Query) error {
		var err error
		product, err = s.ReduceStockTx(tx, fx, productID, qty, refType, refID, staffID, "")
		return err
	})
	if err != nil {
		return nil, err
	}

	fx.Flush()
	return product, nil
}

// ReduceStockTx is ReduceStock running inside the caller's transaction.
// Side effects are collected into fx; the caller flushes them after commit.
func (s *InventoryService) ReduceStockTx(tx *orm.Query, fx *Effects, productID uint, qty int, refType models.ReferenceType, refID uint, staffID *uint, notes string) (*models.Product, error) {
	var product models.Product
	if err := tx.LockForUpdate().First(&product, productID); err != nil {
		return nil, err
	}

	if product.StockQuantity < qty {
		return nil, &InsufficientStockError{
			ProductName: product.Name,
			Available:   product.StockQuantity,
			Requested:   qty,
		}
	}

	product.StockQuantity -= qty
	if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("stock_quantity", product.StockQuantity); err != nil {
		return nil, err
	}

	movement := models.InventoryMovement{
		ProductID:     product.ID,
		Quantity:      qty,
		Type:          models.MovementOut,
		ReferenceType: refType,
		ReferenceID:   refID,
		StaffID:       staffID,
		Notes:         notes,
	}
	if err := tx.Create(&movement); err != nil {
		return nil, err
	}

	metrics.StockMovements.WithLabelValues(string(models.MovementOut), string(refType)).Inc()

	fx.Event(events.InventoryUpdated, events.InventoryUpdatedPayload{
		Product:        product,
		ChangeType:     events.ChangeReduction,
		QuantityChange: qty,
	})
	s.checkLowStock(fx, product)

	return &product, nil
}

// AddStock returns qty units to a product (restocks, cancellations, refunds).
func (s *InventoryService) AddStock(productID uint, qty int, refType models.ReferenceType, refID uint, staffID *uint, notes string) (*models.Product, error) {
	var product *models.Product
	fx := &Effects{}

	err := orm.Transaction(func(tx *orm.Query) error {
		var err error
		product, err = s.AddStockTx(tx, fx, productID, qty, refType, refID, staffID, notes)
		return err
	})
	if err != nil {
		return nil, err
	}

	fx.Flush()
	return product, nil
}

// AddStockTx is AddStock running inside the caller's transaction.
func (s *InventoryService) AddStockTx(tx *orm.Query, fx *Effects, productID uint, qty int, refType models.ReferenceType, refID uint, staffID *uint, notes string) (*models.Product, error) {
	var product models.Product
	if err := tx.LockForUpdate().First(&product, productID); err != nil {
		return nil, err
	}

	product.StockQuantity += qty
	if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("stock_quantity", product.StockQuantity); err != nil {
		return nil, err
	}

	movement := models.InventoryMovement{
		ProductID:     product.ID,
		Quantity:      qty,
		Type:          models.MovementIn,
		ReferenceType: refType,
		ReferenceID:   refID,
		StaffID:       staffID,
		Notes:         notes,
	}
	if err := tx.Create(&movement); err != nil {
		return nil, err
	}

	metrics.StockMovements.WithLabelValues(string(models.MovementIn), string(refType)).Inc()

	fx.Event(events.InventoryUpdated, events.InventoryUpdatedPayload{
		Product:        product,
		ChangeType:     addChangeType(refType),
		QuantityChange: qty,
	})

	return &product, nil
}

// addChangeType maps an upward movement's reference onto the broadcast
// change type: a delivery announces a restock, a compensation (cancellation,
// refund, payment rejection) an addition.
func addChangeType(refType models.ReferenceType) string {
	if refType == models.ReferenceAdjustment {
		return events.ChangeRestock
	}
	return events.ChangeAddition
}

// AdjustStock sets a product's quantity to an absolute value after a manual
// count. The delta is recorded as a single adjustment movement; a zero delta
// records nothing. Adjustments have no referenced entity, so the movement's
// reference id stays zero.
func (s *InventoryService) AdjustStock(productID uint, newQuantity int, staffID uint, notes string) (*models.Product, error) {
	if newQuantity < 0 {
		return nil, &ValidationError{Field: "quantity", Message: "stock quantity cannot be negative"}
	}

	var product *models.Product
	fx := &Effects{}

	err := orm.Transaction(func(tx *orm.Query) error {
		var p models.Product
		if err := tx.LockForUpdate().First(&p, productID); err != nil {
			return err
		}

		diff := newQuantity - p.StockQuantity
		if diff == 0 {
			product = &p
			return nil
		}

		movementType := models.MovementIn
		qty := diff
		if diff < 0 {
			movementType = models.MovementOut
			qty = -diff
		}

		if notes == "" {
			notes = fmt.Sprintf("Stock adjusted from %d to %d", p.StockQuantity, newQuantity)
		}

		p.StockQuantity = newQuantity
		if err := tx.Model(&models.Product{}).Where("id = ?", p.ID).
			Update("stock_quantity", newQuantity); err != nil {
			return err
		}

		movement := models.InventoryMovement{
			ProductID:     p.ID,
			Quantity:      qty,
			Type:          movementType,
			ReferenceType: models.ReferenceAdjustment,
			StaffID:       &staffID,
			Notes:         notes,
		}
		if err := tx.Create(&movement); err != nil {
			return err
		}

		metrics.StockMovements.WithLabelValues(string(movementType), string(models.ReferenceAdjustment)).Inc()

		fx.Event(events.InventoryUpdated, events.InventoryUpdatedPayload{
			Product:        p,
			ChangeType:     events.ChangeAdjustment,
			QuantityChange: qty,
		})
		s.checkLowStock(fx, p)

		product = &p
		return nil
	})
	if err != nil {
		return nil, err
	}

	fx.Flush()
	return product, nil
}

// checkLowStock queues the low-stock alert when the product has crossed its
// threshold. Runs for every downward movement and every adjustment.
func (s *InventoryService) checkLowStock(fx *Effects, product models.Product) {
	if !product.IsLowStock() {
		return
	}

	metrics.LowStockAlerts.Inc()
	fx.Event(events.LowStockAlert, events.NewLowStockPayload(product))
	if s.notifier != nil {
		p := product
		fx.After(func() { s.notifier.SendLowStockAlert(&p) })
	}
}
