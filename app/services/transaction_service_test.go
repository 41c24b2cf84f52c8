package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cafahardware/pos/app/models"
	"github.com/cafahardware/pos/pkg/database"
)

func newTransactionService(notifier Notifier) *TransactionService {
	inventory := NewInventoryService(notifier)
	return NewTransactionService(inventory, notifier)
}

func TestProcessSale(t *testing.T) {
	setupDB(t)
	notifier := &fakeNotifier{}
	svc := newTransactionService(notifier)
	hammer := createProduct(t, "Hammer", 245, 20, 5)
	nails := createProduct(t, "Nails", 75, 100, 20)

	txn, err := svc.Process(ProcessInput{
		Items: []TransactionLine{
			{ProductID: hammer.ID, Quantity: 1},
			{ProductID: nails.ID, Quantity: 2},
		},
		PaymentMethod: models.PayCash,
		CustomerPhone: "09171234567",
		StaffID:       3,
	})
	require.NoError(t, err)

	assert.Equal(t, models.TransactionCompleted, txn.Status)
	assert.InDelta(t, 245+2*75.0, txn.TotalAmount, 0.001)
	require.Len(t, txn.Items, 2)
	assert.Equal(t, 19, stockOf(t, hammer.ID))
	assert.Equal(t, 98, stockOf(t, nails.ID))

	ms := movementsFor(t, hammer.ID)
	require.Len(t, ms, 1)
	assert.Equal(t, models.ReferenceSale, ms[0].ReferenceType)
	assert.Equal(t, txn.ID, ms[0].ReferenceID)
	require.NotNil(t, ms[0].StaffID)
	assert.Equal(t, uint(3), *ms[0].StaffID)

	require.Len(t, notifier.receipts, 1)
}

func TestProcessSaleNoReceiptWithoutPhone(t *testing.T) {
	setupDB(t)
	notifier := &fakeNotifier{}
	svc := newTransactionService(notifier)
	p := createProduct(t, "Tape", 120, 10, 2)

	_, err := svc.Process(ProcessInput{
		Items:         []TransactionLine{{ProductID: p.ID, Quantity: 1}},
		PaymentMethod: models.PayCash,
		StaffID:       3,
	})
	require.NoError(t, err)
	assert.Empty(t, notifier.receipts)
}

func TestProcessSaleInsufficientStock(t *testing.T) {
	setupDB(t)
	svc := newTransactionService(nil)
	p := createProduct(t, "Drill", 2350, 1, 1)

	_, err := svc.Process(ProcessInput{
		Items:         []TransactionLine{{ProductID: p.ID, Quantity: 2}},
		PaymentMethod: models.PayCash,
		StaffID:       3,
	})
	require.Error(t, err)
	assert.True(t, IsInsufficientStock(err))

	assert.Equal(t, 1, stockOf(t, p.ID))
	var txns int64
	database.DB.Model(&models.Transaction{}).Count(&txns)
	assert.Zero(t, txns)
}

func TestProcessSaleInvalidInput(t *testing.T) {
	setupDB(t)
	svc := newTransactionService(nil)
	p := createProduct(t, "Tape", 120, 10, 2)

	_, err := svc.Process(ProcessInput{PaymentMethod: models.PayCash, StaffID: 3})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = svc.Process(ProcessInput{
		Items:         []TransactionLine{{ProductID: p.ID, Quantity: 1}},
		PaymentMethod: "barter",
		StaffID:       3,
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestProcessSaleCompletesLinkedOrder(t *testing.T) {
	setupDB(t)
	orderSvc := newOrderService(nil)
	svc := newTransactionService(nil)
	customer := createCustomer(t)
	p := createProduct(t, "Hammer", 245, 20, 5)

	order := placeOrder(t, orderSvc, customer, OrderLine{ProductID: p.ID, Quantity: 2})
	require.Equal(t, 18, stockOf(t, p.ID))

	// The pickup sale rings up a separate low-value item; the order's own
	// stock was already committed at placement.
	counter := createProduct(t, "Teflon", 15, 50, 10)
	txn, err := svc.Process(ProcessInput{
		Items:         []TransactionLine{{ProductID: counter.ID, Quantity: 1}},
		PaymentMethod: models.PayCash,
		StaffID:       3,
		OrderID:       &order.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, txn.OrderID)

	var got models.Order
	require.NoError(t, database.DB.First(&got, order.ID).Error)
	assert.Equal(t, models.OrderCompleted, got.Status)
	assert.Equal(t, models.PaymentPaid, got.PaymentStatus)
	assert.NotNil(t, got.CompletedAt)
}

func TestProcessSaleRejectsCancelledOrder(t *testing.T) {
	setupDB(t)
	orderSvc := newOrderService(nil)
	svc := newTransactionService(nil)
	customer := createCustomer(t)
	p := createProduct(t, "Hammer", 245, 20, 5)

	order := placeOrder(t, orderSvc, customer, OrderLine{ProductID: p.ID, Quantity: 2})
	_, err := orderSvc.CancelOrder(order.ID, nil)
	require.NoError(t, err)

	counter := createProduct(t, "Teflon", 15, 50, 10)
	_, err = svc.Process(ProcessInput{
		Items:         []TransactionLine{{ProductID: counter.ID, Quantity: 1}},
		PaymentMethod: models.PayCash,
		StaffID:       3,
		OrderID:       &order.ID,
	})
	require.Error(t, err)
	assert.True(t, IsInvalidState(err))

	// The whole sale rolled back with the order check.
	assert.Equal(t, 50, stockOf(t, counter.ID))
}

func TestRefund(t *testing.T) {
	setupDB(t)
	notifier := &fakeNotifier{}
	svc := newTransactionService(notifier)
	p := createProduct(t, "Hammer", 245, 20, 5)

	txn, err := svc.Process(ProcessInput{
		Items:         []TransactionLine{{ProductID: p.ID, Quantity: 3}},
		PaymentMethod: models.PayCash,
		CustomerPhone: "09171234567",
		StaffID:       3,
	})
	require.NoError(t, err)
	require.Equal(t, 17, stockOf(t, p.ID))

	got, err := svc.Refund(txn.ID, 7, "Defective unit")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionRefunded, got.Status)
	assert.Contains(t, got.Notes, "Refund Reason: Defective unit")
	assert.Equal(t, 20, stockOf(t, p.ID))

	ms := movementsFor(t, p.ID)
	require.Len(t, ms, 2)
	assert.Equal(t, models.ReferenceRefund, ms[1].ReferenceType)
	assert.Equal(t, models.MovementIn, ms[1].Type)
	require.Len(t, notifier.refunds, 1)
}

func TestRefundTwice(t *testing.T) {
	setupDB(t)
	svc := newTransactionService(nil)
	p := createProduct(t, "Hammer", 245, 20, 5)

	txn, err := svc.Process(ProcessInput{
		Items:         []TransactionLine{{ProductID: p.ID, Quantity: 1}},
		PaymentMethod: models.PayCash,
		StaffID:       3,
	})
	require.NoError(t, err)

	_, err = svc.Refund(txn.ID, 7, "")
	require.NoError(t, err)

	_, err = svc.Refund(txn.ID, 7, "")
	require.Error(t, err)
	assert.True(t, IsInvalidState(err))
	// Stock restored exactly once.
	assert.Equal(t, 20, stockOf(t, p.ID))
}
