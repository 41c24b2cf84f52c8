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

type TransactionController struct {
	transactions *services.TransactionService
	repo         *repositories.TransactionRepository
}

func NewTransactionController(transactions *services.TransactionService) *TransactionController {
	return &TransactionController{
		transactions: transactions,
		repo:         repositories.NewTransactionRepository(),
	}
}

type transactionInput struct {
	Items []struct {
		ProductID uint `json:"product_id" validate:"required"`
		Quantity  int  `json:"quantity"   validate:"required,gte=1"`
	} `json:"items" validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"required"`
	CustomerPhone string `json:"customer_phone"`
	OrderID       *uint  `json:"order_id"`
	Notes         string `json:"notes"`
}

// Store rings up a sale at the counter.
func (t *TransactionController) Store(c *ctx.Context) {
	staffID, _ := middleware.UserIDFromCtx(c.R)

	var in transactionInput
	if !c.BindJSON(&in) {
		return
	}

	lines := make([]services.TransactionLine, len(in.Items))
	for idx, item := range in.Items {
		lines[idx] = services.TransactionLine{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	txn, err := t.transactions.Process(services.ProcessInput{
		Items:         lines,
		PaymentMethod: in.PaymentMethod,
		CustomerPhone: in.CustomerPhone,
		StaffID:       staffID,
		OrderID:       in.OrderID,
		Notes:         in.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Created(txn)
}

// Index lists transactions with filters.
func (t *TransactionController) Index(c *ctx.Context) {
	page, perPage := pageParams(c)
	staffID, _ := strconv.ParseUint(c.Query("staff_id"), 10, 64)

	filter := repositories.TransactionFilter{
		Status:  c.Query("status"),
		StaffID: uint(staffID),
		Page:    page,
		PerPage: perPage,
	}
	if from := c.Query("date_from"); from != "" {
		if ts, err := time.Parse("2006-01-02", from); err == nil {
			filter.DateFrom = &ts
		}
	}
	if to := c.Query("date_to"); to != "" {
		if ts, err := time.Parse("2006-01-02", to); err == nil {
			end := ts.Add(24*time.Hour - time.Nanosecond)
			filter.DateTo = &end
		}
	}

	txns, pagination, err := t.repo.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Paginated(c.W, txns, pagination)
}

// Show returns one transaction with its lines.
func (t *TransactionController) Show(c *ctx.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	txn, err := t.repo.FindByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Success(txn)
}

type refundInput struct {
	Reason string `json:"reason" validate:"required"`
}

// Refund reverses a completed sale and restores its stock.
func (t *TransactionController) Refund(c *ctx.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	staffID, _ := middleware.UserIDFromCtx(c.R)

	var in refundInput
	if !c.BindJSON(&in) {
		return
	}

	txn, err := t.transactions.Refund(id, staffID, in.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Success(txn)
}
