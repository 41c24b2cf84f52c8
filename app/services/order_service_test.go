package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cafahardware/pos/app/models"
	"github.com/cafahardware/pos/pkg/database"
)

func newOrderService(notifier Notifier) *OrderService {
	inventory := NewInventoryService(notifier)
	return NewOrderService(inventory, notifier)
}

func placeOrder(t *testing.T, svc *OrderService, customer models.Customer, lines ...OrderLine) *models.Order {
	t.Helper()

	order, err := svc.PlaceOrder(PlaceOrderInput{
		Customer:      &customer,
		Items:         lines,
		PaymentMethod: models.PayCash,
	})
	require.NoError(t, err)
	return order
}

func TestPlaceOrder(t *testing.T) {
	setupDB(t)
	notifier := &fakeNotifier{}
	svc := newOrderService(notifier)
	customer := createCustomer(t)
	hammer := createProduct(t, "Hammer", 245, 20, 5)
	tape := createProduct(t, "Tape", 120, 30, 5)

	order := placeOrder(t, svc, customer,
		OrderLine{ProductID: hammer.ID, Quantity: 2},
		OrderLine{ProductID: tape.ID, Quantity: 3},
	)

	assert.NotEmpty(t, order.OrderNumber)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.InDelta(t, 2*245+3*120.0, order.TotalAmount, 0.001)
	require.Len(t, order.Items, 2)

	// Stock committed and ledgered at placement.
	assert.Equal(t, 18, stockOf(t, hammer.ID))
	assert.Equal(t, 27, stockOf(t, tape.ID))
	ms := movementsFor(t, hammer.ID)
	require.Len(t, ms, 1)
	assert.Equal(t, models.ReferenceCustomerOrder, ms[0].ReferenceType)
	assert.Equal(t, order.ID, ms[0].ReferenceID)
	assert.Nil(t, ms[0].StaffID)

	require.Len(t, notifier.confirmations, 1)
}

func TestPlaceOrderInsufficientStockRejectsWholeOrder(t *testing.T) {
	setupDB(t)
	svc := newOrderService(nil)
	customer := createCustomer(t)
	hammer := createProduct(t, "Hammer", 245, 20, 5)
	drill := createProduct(t, "Drill", 2350, 1, 1)

	_, err := svc.PlaceOrder(PlaceOrderInput{
		Customer:      &customer,
		Items:         []OrderLine{{ProductID: hammer.ID, Quantity: 2}, {ProductID: drill.ID, Quantity: 3}},
		PaymentMethod: models.PayCash,
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	// The passing line must not have committed either.
	assert.Equal(t, 20, stockOf(t, hammer.ID))
	assert.Equal(t, 1, stockOf(t, drill.ID))
	var orders int64
	database.DB.Model(&models.Order{}).Count(&orders)
	assert.Zero(t, orders)
}

func TestPlaceOrderDuplicateLinesCheckedCumulatively(t *testing.T) {
	setupDB(t)
	svc := newOrderService(nil)
	customer := createCustomer(t)
	p := createProduct(t, "Cement", 265, 5, 2)

	_, err := svc.PlaceOrder(PlaceOrderInput{
		Customer:      &customer,
		Items:         []OrderLine{{ProductID: p.ID, Quantity: 3}, {ProductID: p.ID, Quantity: 3}},
		PaymentMethod: models.PayCash,
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, 5, stockOf(t, p.ID))
}

func TestPlaceOrderProofRequiredForWalletPayments(t *testing.T) {
	setupDB(t)
	svc := newOrderService(nil)
	customer := createCustomer(t)
	p := createProduct(t, "Paint", 640, 10, 2)

	_, err := svc.PlaceOrder(PlaceOrderInput{
		Customer:      &customer,
		Items:         []OrderLine{{ProductID: p.ID, Quantity: 1}},
		PaymentMethod: models.PayGcash,
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = svc.PlaceOrder(PlaceOrderInput{
		Customer:      &customer,
		Items:         []OrderLine{{ProductID: p.ID, Quantity: 1}},
		PaymentMethod: models.PayGcash,
		PaymentProof:  "payment_proofs/proof.jpg",
	})
	require.NoError(t, err)
}

func TestPlaceOrderDeliveryNeedsAddress(t *testing.T) {
	setupDB(t)
	svc := newOrderService(nil)
	customer := createCustomer(t)
	p := createProduct(t, "Pipe", 95, 10, 2)

	_, err := svc.PlaceOrder(PlaceOrderInput{
		Customer:       &customer,
		Items:          []OrderLine{{ProductID: p.ID, Quantity: 1}},
		PaymentMethod:  models.PayCash,
		DeliveryMethod: models.DeliveryDeliver,
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestPlaceOrderInactiveProduct(t *testing.T) {
	setupDB(t)
	svc := newOrderService(nil)
	customer := createCustomer(t)
	p := createProduct(t, "Discontinued", 99, 10, 2)
	require.NoError(t, database.DB.Model(&models.Product{}).Where("id = ?", p.ID).
		Update("is_active", false).Error)

	_, err := svc.PlaceOrder(PlaceOrderInput{
		Customer:      &customer,
		Items:         []OrderLine{{ProductID: p.ID, Quantity: 1}},
		PaymentMethod: models.PayCash,
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestCancelOrderRestoresStock(t *testing.T) {
	setupDB(t)
	notifier := &fakeNotifier{}
	svc := newOrderService(notifier)
	customer := createCustomer(t)
	p := createProduct(t, "Hammer", 245, 20, 5)
	order := placeOrder(t, svc, customer, OrderLine{ProductID: p.ID, Quantity: 4})
	require.Equal(t, 16, stockOf(t, p.ID))

	cancelled, err := svc.CancelOrder(order.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)
	assert.Equal(t, 20, stockOf(t, p.ID))

	ms := movementsFor(t, p.ID)
	require.Len(t, ms, 2)
	assert.Equal(t, models.ReferenceOrderCancellation, ms[1].ReferenceType)
	assert.Equal(t, models.MovementIn, ms[1].Type)
	assert.Contains(t, notifier.statusUpdates, models.OrderCancelled)
}

func TestCustomerCannotCancelConfirmedOrder(t *testing.T) {
	setupDB(t)
	svc := newOrderService(nil)
	customer := createCustomer(t)
	p := createProduct(t, "Hammer", 245, 20, 5)
	order := placeOrder(t, svc, customer, OrderLine{ProductID: p.ID, Quantity: 1})

	_, err := svc.UpdateStatus(order.ID, models.OrderConfirmed, 7)
	require.NoError(t, err)

	_, err = svc.CancelOrder(order.ID, nil)
	require.Error(t, err)
	assert.True(t, IsInvalidState(err))

	// Staff still can.
	staffID := uint(7)
	_, err = svc.CancelOrder(order.ID, &staffID)
	require.NoError(t, err)
	assert.Equal(t, 20, stockOf(t, p.ID))
}

func TestCancelOrderTwice(t *testing.T) {
	setupDB(t)
	svc := newOrderService(nil)
	customer := createCustomer(t)
	p := createProduct(t, "Hammer", 245, 20, 5)
	order := placeOrder(t, svc, customer, OrderLine{ProductID: p.ID, Quantity: 2})

	_, err := svc.CancelOrder(order.ID, nil)
	require.NoError(t, err)

	_, err = svc.CancelOrder(order.ID, nil)
	require.Error(t, err)
	assert.True(t, IsInvalidState(err))
	// Stock restored exactly once.
	assert.Equal(t, 20, stockOf(t, p.ID))
}

func TestUpdateStatusForwardFlow(t *testing.T) {
	setupDB(t)
	notifier := &fakeNotifier{}
	svc := newOrderService(notifier)
	customer := createCustomer(t)
	p := createProduct(t, "Hammer", 245, 20, 5)
	order := placeOrder(t, svc, customer, OrderLine{ProductID: p.ID, Quantity: 1})

	got, err := svc.UpdateStatus(order.ID, models.OrderConfirmed, 7)
	require.NoError(t, err)
	assert.NotNil(t, got.ConfirmedAt)

	got, err = svc.UpdateStatus(order.ID, models.OrderCompleted, 7)
	require.NoError(t, err)
	assert.NotNil(t, got.CompletedAt)

	// Forward transitions never move stock.
	assert.Equal(t, 19, stockOf(t, p.ID))
	require.Len(t, movementsFor(t, p.ID), 1)

	_, err = svc.UpdateStatus(order.ID, models.OrderProcessing, 7)
	require.Error(t, err)
	assert.True(t, IsInvalidState(err))
}

func TestUpdateStatusToCancelledRestocks(t *testing.T) {
	setupDB(t)
	svc := newOrderService(nil)
	customer := createCustomer(t)
	p := createProduct(t, "Hammer", 245, 20, 5)
	order := placeOrder(t, svc, customer, OrderLine{ProductID: p.ID, Quantity: 3})

	got, err := svc.UpdateStatus(order.ID, models.OrderCancelled, 7)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, got.Status)
	assert.Equal(t, 20, stockOf(t, p.ID))
}

func TestUpdateStatusUnknown(t *testing.T) {
	setupDB(t)
	svc := newOrderService(nil)

	_, err := svc.UpdateStatus(1, "shipped", 7)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestVerifyPaymentApprove(t *testing.T) {
	setupDB(t)
	notifier := &fakeNotifier{}
	svc := newOrderService(notifier)
	customer := createCustomer(t)
	p := createProduct(t, "Paint", 640, 10, 2)

	order, err := svc.PlaceOrder(PlaceOrderInput{
		Customer:      &customer,
		Items:         []OrderLine{{ProductID: p.ID, Quantity: 1}},
		PaymentMethod: models.PayGcash,
		PaymentProof:  "payment_proofs/proof.jpg",
	})
	require.NoError(t, err)

	got, err := svc.VerifyPayment(order.ID, "approve", "GC-12345", "", 7)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, got.PaymentStatus)
	assert.Equal(t, models.OrderConfirmed, got.Status)
	assert.Equal(t, "GC-12345", got.PaymentReference)
	require.NotNil(t, got.VerifiedBy)
	assert.Equal(t, uint(7), *got.VerifiedBy)
	require.Len(t, notifier.verified, 1)

	// Stock untouched by approval.
	assert.Equal(t, 9, stockOf(t, p.ID))

	_, err = svc.VerifyPayment(order.ID, "approve", "", "", 7)
	require.Error(t, err)
	assert.True(t, IsInvalidState(err))
}

func TestVerifyPaymentReject(t *testing.T) {
	setupDB(t)
	notifier := &fakeNotifier{}
	svc := newOrderService(notifier)
	customer := createCustomer(t)
	p := createProduct(t, "Paint", 640, 10, 2)

	order, err := svc.PlaceOrder(PlaceOrderInput{
		Customer:      &customer,
		Items:         []OrderLine{{ProductID: p.ID, Quantity: 2}},
		PaymentMethod: models.PayGcash,
		PaymentProof:  "payment_proofs/proof.jpg",
	})
	require.NoError(t, err)
	require.Equal(t, 8, stockOf(t, p.ID))

	got, err := svc.VerifyPayment(order.ID, "reject", "", "Blurry screenshot", 7)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, got.Status)
	assert.Equal(t, models.PaymentRefunded, got.PaymentStatus)
	assert.Equal(t, 10, stockOf(t, p.ID))

	ms := movementsFor(t, p.ID)
	require.Len(t, ms, 2)
	assert.Equal(t, models.ReferencePaymentRejection, ms[1].ReferenceType)
	assert.Equal(t, "Blurry screenshot", ms[1].Notes)
	require.Len(t, notifier.rejected, 1)
}

func TestVerifyPaymentWithoutProof(t *testing.T) {
	setupDB(t)
	svc := newOrderService(nil)
	customer := createCustomer(t)
	p := createProduct(t, "Hammer", 245, 20, 5)
	order := placeOrder(t, svc, customer, OrderLine{ProductID: p.ID, Quantity: 1})

	_, err := svc.VerifyPayment(order.ID, "approve", "", "", 7)
	require.Error(t, err)
	assert.True(t, IsInvalidState(err))

	_, err = svc.VerifyPayment(order.ID, "maybe", "", "", 7)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}
