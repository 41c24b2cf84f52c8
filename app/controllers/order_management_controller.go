package controllers

import (
	"strconv"
	"time"

	"github.com/cafahardware/pos/app/repositories"
	"github.com/cafahardware/pos/app/services"
	"github.com/cafahardware/pos/pkg/ctx"
	"github.com/cafahardware/pos/pkg/middleware"
	"github.com/cafahardware/pos/pkg/response"
)

// OrderManagementController serves the staff order pipeline: listing,
// status updates, payment verification and cancellation.
type OrderManagementController struct {
	orders *services.OrderService
	repo   *repositories.OrderRepository
}

func NewOrderManagementController(orders *services.OrderService) *OrderManagementController {
	return &OrderManagementController{
		orders: orders,
		repo:   repositories.NewOrderRepository(),
	}
}

// Index lists all orders with filters.
func (o *OrderManagementController) Index(c *ctx.Context) {
	page, perPage := pageParams(c)
	customerID, _ := strconv.ParseUint(c.Query("customer_id"), 10, 64)

	filter := repositories.OrderFilter{
		Status:        c.Query("status"),
		PaymentStatus: c.Query("payment_status"),
		CustomerID:    uint(customerID),
		Search:        c.Query("search"),
		Page:          page,
		PerPage:       perPage,
	}
	if from := c.Query("date_from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filter.DateFrom = &t
		}
	}
	if to := c.Query("date_to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			end := t.Add(24*time.Hour - time.Nanosecond)
			filter.DateTo = &end
		}
	}

	orders, pagination, err := o.repo.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Paginated(c.W, orders, pagination)
}

// Show returns one order in full.
func (o *OrderManagementController) Show(c *ctx.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	order, err := o.repo.FindByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Success(order)
}

type updateStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus moves an order along the fulfilment pipeline.
func (o *OrderManagementController) UpdateStatus(c *ctx.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	staffID, _ := middleware.UserIDFromCtx(c.R)

	var in updateStatusInput
	if !c.BindJSON(&in) {
		return
	}

	order, err := o.orders.UpdateStatus(id, in.Status, staffID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Success(order)
}

type verifyPaymentInput struct {
	Action    string `json:"action" validate:"required"` // approve | reject
	Reference string `json:"reference"`
	Notes     string `json:"notes"`
}

// VerifyPayment approves or rejects a customer's payment proof.
func (o *OrderManagementController) VerifyPayment(c *ctx.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	staffID, _ := middleware.UserIDFromCtx(c.R)

	var in verifyPaymentInput
	if !c.BindJSON(&in) {
		return
	}

	order, err := o.orders.VerifyPayment(id, in.Action, in.Reference, in.Notes, staffID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Success(order)
}

// Cancel cancels any non-terminal order on the customer's behalf.
func (o *OrderManagementController) Cancel(c *ctx.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	staffID, _ := middleware.UserIDFromCtx(c.R)

	order, err := o.orders.CancelOrder(id, &staffID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Success(order)
}

// PendingVerification lists proof-bearing orders awaiting review.
func (o *OrderManagementController) PendingVerification(c *ctx.Context) {
	orders, err := o.repo.PendingVerification()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Success(orders)
}

// Stats summarises the order pipeline for the dashboard.
func (o *OrderManagementController) Stats(c *ctx.Context) {
	stats, err := o.repo.Stats()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Success(stats)
}
