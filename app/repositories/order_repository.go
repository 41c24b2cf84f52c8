package repositories

import (
	"strings"
	"time"

	"github.com/cafahardware/pos/app/models"
	"github.com/cafahardware/pos/pkg/orm"
)

// OrderFilter narrows an order listing.
type OrderFilter struct {
	Status        string
	PaymentStatus string
	CustomerID    uint
	Search        string // matches the order number
	DateFrom      *time.Time
	DateTo        *time.Time
	Page          int
	PerPage       int
}

// OrderRepository handles database operations for Order.
type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// List returns orders matching the filter, newest first.
func (r *OrderRepository) List(f OrderFilter) ([]models.Order, orm.Pagination, error) {
	q := orm.DB().
		Model(&models.Order{}).
		Preload("Items").
		Preload("Items.Product").
		Preload("Customer")

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.PaymentStatus != "" {
		q = q.Where("payment_status = ?", f.PaymentStatus)
	}
	if f.CustomerID != 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.Search != "" {
		q = q.Where("LOWER(order_number) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}
	if f.DateFrom != nil {
		q = q.Where("created_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("created_at <= ?", *f.DateTo)
	}

	var orders []models.Order
	pagination, err := q.Order("created_at desc").GetWithPagination(&orders, f.Page, f.PerPage)
	return orders, pagination, err
}

// FindByID loads one order with its lines and customer.
func (r *OrderRepository) FindByID(id uint) (models.Order, error) {
	var order models.Order
	err := orm.DB().
		Model(&models.Order{}).
		Preload("Items").
		Preload("Items.Product").
		Preload("Customer").
		Preload("Verifier").
		First(&order, id)
	return order, err
}

// FindForCustomer loads one order only if it belongs to the customer.
func (r *OrderRepository) FindForCustomer(id, customerID uint) (models.Order, error) {
	var order models.Order
	err := orm.DB().
		Model(&models.Order{}).
		Preload("Items").
		Preload("Items.Product").
		Where("customer_id = ?", customerID).
		First(&order, id)
	return order, err
}

// PendingVerification returns proof-bearing orders awaiting staff review,
// oldest first so the queue is worked in arrival order.
func (r *OrderRepository) PendingVerification() ([]models.Order, error) {
	var orders []models.Order
	err := orm.DB().
		Model(&models.Order{}).
		Preload("Items").
		Preload("Customer").
		Where("payment_proof <> '' AND payment_status = ? AND status <> ?",
			models.PaymentPending, models.OrderCancelled).
		Order("created_at asc").
		Get(&orders)
	return orders, err
}

// OrderStats summarises the order pipeline for the staff dashboard.
type OrderStats struct {
	Pending           int64   `json:"pending"`
	Confirmed         int64   `json:"confirmed"`
	Processing        int64   `json:"processing"`
	Ready             int64   `json:"ready"`
	CompletedToday    int64   `json:"completed_today"`
	AwaitingVerify    int64   `json:"awaiting_verification"`
	RevenueToday      float64 `json:"revenue_today"`
	TotalActiveValue  float64 `json:"total_active_value"`
	TotalActiveOrders int64   `json:"total_active_orders"`
}

// Stats counts orders per pipeline stage.
func (r *OrderRepository) Stats() (OrderStats, error) {
	var stats OrderStats
	var err error

	count := func(conds string, args ...interface{}) (int64, error) {
		return orm.DB().Model(&models.Order{}).Where(conds, args...).Count()
	}

	if stats.Pending, err = count("status = ?", models.OrderPending); err != nil {
		return stats, err
	}
	if stats.Confirmed, err = count("status = ?", models.OrderConfirmed); err != nil {
		return stats, err
	}
	if stats.Processing, err = count("status = ?", models.OrderProcessing); err != nil {
		return stats, err
	}
	if stats.Ready, err = count("status = ?", models.OrderReady); err != nil {
		return stats, err
	}

	today := time.Now().Truncate(24 * time.Hour)
	if stats.CompletedToday, err = count("status = ? AND completed_at >= ?",
		models.OrderCompleted, today); err != nil {
		return stats, err
	}
	if stats.AwaitingVerify, err = count(
		"payment_proof <> '' AND payment_status = ? AND status <> ?",
		models.PaymentPending, models.OrderCancelled); err != nil {
		return stats, err
	}

	var completedToday []models.Order
	err = orm.DB().
		Model(&models.Order{}).
		Where("status = ? AND completed_at >= ?", models.OrderCompleted, today).
		Get(&completedToday)
	if err != nil {
		return stats, err
	}
	for _, o := range completedToday {
		stats.RevenueToday += o.TotalAmount
	}

	var active []models.Order
	err = orm.DB().
		Model(&models.Order{}).
		Where("status IN ?", []string{
			models.OrderPending, models.OrderConfirmed,
			models.OrderProcessing, models.OrderReady,
		}).
		Get(&active)
	if err != nil {
		return stats, err
	}
	stats.TotalActiveOrders = int64(len(active))
	for _, o := range active {
		stats.TotalActiveValue += o.TotalAmount
	}

	return stats, nil
}
