package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cafahardware/pos/app/events"
	"github.com/cafahardware/pos/app/models"
	"github.com/cafahardware/pos/pkg/database"
	"github.com/cafahardware/pos/pkg/event"
)

func TestReduceStock(t *testing.T) {
	setupDB(t)
	svc := NewInventoryService(nil)
	p := createProduct(t, "Hammer", 245, 20, 5)

	got, err := svc.ReduceStock(p.ID, 3, models.ReferenceSale, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 17, got.StockQuantity)
	assert.Equal(t, 17, stockOf(t, p.ID))

	ms := movementsFor(t, p.ID)
	require.Len(t, ms, 1)
	assert.Equal(t, models.MovementOut, ms[0].Type)
	assert.Equal(t, 3, ms[0].Quantity)
	assert.Equal(t, models.ReferenceSale, ms[0].ReferenceType)
	assert.Equal(t, -3, ms[0].SignedQuantity())
}

func TestReduceStockInsufficient(t *testing.T) {
	setupDB(t)
	svc := NewInventoryService(nil)
	p := createProduct(t, "Drill", 2350, 2, 1)

	_, err := svc.ReduceStock(p.ID, 5, models.ReferenceSale, 1, nil)
	require.Error(t, err)
	assert.True(t, IsInsufficientStock(err))

	// No partial effect: stock unchanged, no ledger row.
	assert.Equal(t, 2, stockOf(t, p.ID))
	assert.Empty(t, movementsFor(t, p.ID))
}

func TestAddStock(t *testing.T) {
	setupDB(t)
	svc := NewInventoryService(nil)
	p := createProduct(t, "Cement", 265, 10, 5)

	staffID := uint(7)
	got, err := svc.AddStock(p.ID, 40, models.ReferenceAdjustment, 0, &staffID, "Stock received")
	require.NoError(t, err)
	assert.Equal(t, 50, got.StockQuantity)

	ms := movementsFor(t, p.ID)
	require.Len(t, ms, 1)
	assert.Equal(t, models.MovementIn, ms[0].Type)
	assert.Equal(t, 40, ms[0].Quantity)
	require.NotNil(t, ms[0].StaffID)
	assert.Equal(t, staffID, *ms[0].StaffID)
}

func TestAdjustStock(t *testing.T) {
	setupDB(t)
	svc := NewInventoryService(nil)
	p := createProduct(t, "Plywood", 780, 30, 5)

	got, err := svc.AdjustStock(p.ID, 12, 7, "")
	require.NoError(t, err)
	assert.Equal(t, 12, got.StockQuantity)

	ms := movementsFor(t, p.ID)
	require.Len(t, ms, 1)
	assert.Equal(t, models.MovementOut, ms[0].Type)
	assert.Equal(t, 18, ms[0].Quantity)
	assert.Equal(t, models.ReferenceAdjustment, ms[0].ReferenceType)
	assert.Equal(t, "Stock adjusted from 30 to 12", ms[0].Notes)
}

func TestAdjustStockNoChange(t *testing.T) {
	setupDB(t)
	svc := NewInventoryService(nil)
	p := createProduct(t, "Tape", 120, 15, 5)

	got, err := svc.AdjustStock(p.ID, 15, 7, "")
	require.NoError(t, err)
	assert.Equal(t, 15, got.StockQuantity)
	assert.Empty(t, movementsFor(t, p.ID), "a zero delta records no movement")
}

func TestAdjustStockNegative(t *testing.T) {
	setupDB(t)
	svc := NewInventoryService(nil)
	p := createProduct(t, "Wire", 28, 100, 20)

	_, err := svc.AdjustStock(p.ID, -1, 7, "")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, 100, stockOf(t, p.ID))
}

// A delivery broadcasts a restock; a compensating return (refund,
// cancellation) broadcasts an addition.
func TestAddStockChangeTypes(t *testing.T) {
	setupDB(t)
	t.Cleanup(event.Flush)

	var changes []string
	event.Listen(events.InventoryUpdated, func(payload interface{}) {
		changes = append(changes, payload.(events.InventoryUpdatedPayload).ChangeType)
	})

	svc := NewInventoryService(nil)
	p := createProduct(t, "Cement", 265, 10, 2)
	staffID := uint(7)

	_, err := svc.AddStock(p.ID, 40, models.ReferenceAdjustment, 0, &staffID, "Delivery received")
	require.NoError(t, err)
	_, err = svc.AddStock(p.ID, 2, models.ReferenceRefund, 9, &staffID, "")
	require.NoError(t, err)

	assert.Equal(t, []string{events.ChangeRestock, events.ChangeAddition}, changes)
}

func TestLowStockAlertFires(t *testing.T) {
	setupDB(t)
	notifier := &fakeNotifier{}
	svc := NewInventoryService(notifier)
	p := createProduct(t, "Breaker", 310, 6, 5)

	_, err := svc.ReduceStock(p.ID, 2, models.ReferenceSale, 1, nil)
	require.NoError(t, err)

	require.Len(t, notifier.lowStock, 1)
	assert.Equal(t, p.ID, notifier.lowStock[0].ID)
	assert.Equal(t, 4, notifier.lowStock[0].StockQuantity)
}

func TestLowStockAlertNotFiredAboveThreshold(t *testing.T) {
	setupDB(t)
	notifier := &fakeNotifier{}
	svc := NewInventoryService(notifier)
	p := createProduct(t, "Paint", 640, 40, 10)

	_, err := svc.ReduceStock(p.ID, 5, models.ReferenceSale, 1, nil)
	require.NoError(t, err)
	assert.Empty(t, notifier.lowStock)
}

// After a mixed run of every workflow the ledger must reconcile: for each
// product, seed quantity plus the signed sum of its movements equals the
// stock on hand.
func TestLedgerReconcilesAcrossWorkflows(t *testing.T) {
	setupDB(t)
	inventory := NewInventoryService(nil)
	orderSvc := NewOrderService(inventory, nil)
	txnSvc := NewTransactionService(inventory, nil)
	customer := createCustomer(t)

	hammer := createProduct(t, "Hammer", 245, 40, 5)
	cement := createProduct(t, "Cement", 265, 100, 20)
	seeds := map[uint]int{hammer.ID: 40, cement.ID: 100}

	// An order placed and then cancelled nets to zero.
	order := placeOrder(t, orderSvc, customer,
		OrderLine{ProductID: hammer.ID, Quantity: 3},
		OrderLine{ProductID: cement.ID, Quantity: 10})
	_, err := orderSvc.CancelOrder(order.ID, nil)
	require.NoError(t, err)

	// A walk-in sale, fully refunded.
	txn, err := txnSvc.Process(ProcessInput{
		Items: []TransactionLine{
			{ProductID: hammer.ID, Quantity: 2},
			{ProductID: cement.ID, Quantity: 5},
		},
		PaymentMethod: models.PayCash,
		StaffID:       3,
	})
	require.NoError(t, err)
	_, err = txnSvc.Refund(txn.ID, 7, "Wrong size")
	require.NoError(t, err)

	// A sale that sticks, then a cycle-count correction.
	_, err = txnSvc.Process(ProcessInput{
		Items:         []TransactionLine{{ProductID: hammer.ID, Quantity: 4}},
		PaymentMethod: models.PayCash,
		StaffID:       3,
	})
	require.NoError(t, err)
	_, err = inventory.AdjustStock(cement.ID, 97, 7, "Cycle count")
	require.NoError(t, err)

	assert.Equal(t, 36, stockOf(t, hammer.ID))
	assert.Equal(t, 97, stockOf(t, cement.ID))

	for id, seed := range seeds {
		signed := 0
		for _, m := range movementsFor(t, id) {
			signed += m.SignedQuantity()
		}
		assert.Equal(t, stockOf(t, id), seed+signed,
			"product %d: stock must equal seed plus the signed movement sum", id)
	}
}

func TestMovementLedgerIsAppendOnly(t *testing.T) {
	setupDB(t)
	svc := NewInventoryService(nil)
	p := createProduct(t, "Nails", 75, 50, 10)

	_, err := svc.ReduceStock(p.ID, 5, models.ReferenceSale, 1, nil)
	require.NoError(t, err)

	ms := movementsFor(t, p.ID)
	require.Len(t, ms, 1)

	ms[0].Quantity = 999
	err = database.DB.Save(&ms[0]).Error
	assert.ErrorIs(t, err, models.ErrMovementImmutable)

	err = database.DB.Delete(&ms[0]).Error
	assert.ErrorIs(t, err, models.ErrMovementImmutable)
}
