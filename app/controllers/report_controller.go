package controllers

import (
	"net/http"
	"time"

	"github.com/cafahardware/pos/app/repositories"
	"github.com/cafahardware/pos/pkg/ctx"
)

// ReportController serves the staff reporting endpoints.
type ReportController struct {
	transactions *repositories.TransactionRepository
	products     *repositories.ProductRepository
}

func NewReportController() *ReportController {
	return &ReportController{
		transactions: repositories.NewTransactionRepository(),
		products:     repositories.NewProductRepository(),
	}
}

// Sales returns the sales report for a date range. Defaults to the last 30
// days when no range is given.
func (r *ReportController) Sales(c *ctx.Context) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if s := c.Query("date_from"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.Error(http.StatusBadRequest, "date_from must be YYYY-MM-DD")
			return
		}
		from = t
	}
	if s := c.Query("date_to"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.Error(http.StatusBadRequest, "date_to must be YYYY-MM-DD")
			return
		}
		to = t.Add(24*time.Hour - time.Nanosecond)
	}
	if from.After(to) {
		c.Error(http.StatusBadRequest, "date_from must be before date_to")
		return
	}

	report, err := r.transactions.Sales(from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Success(report)
}

// Inventory returns the store-wide stock position.
func (r *ReportController) Inventory(c *ctx.Context) {
	report, err := r.products.Inventory()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Success(report)
}
