package repositories

import (
	"time"

	"github.com/cafahardware/pos/app/models"
	"github.com/cafahardware/pos/pkg/collection"
	"github.com/cafahardware/pos/pkg/orm"
)

// TransactionFilter narrows a transaction listing.
type TransactionFilter struct {
	Status   string
	StaffID  uint
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	PerPage  int
}

// TransactionRepository handles database operations for Transaction.
type TransactionRepository struct{}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{}
}

// List returns transactions matching the filter, newest first.
func (r *TransactionRepository) List(f TransactionFilter) ([]models.Transaction, orm.Pagination, error) {
	q := orm.DB().
		Model(&models.Transaction{}).
		Preload("Items").
		Preload("Items.Product").
		Preload("Staff")

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.StaffID != 0 {
		q = q.Where("staff_id = ?", f.StaffID)
	}
	if f.DateFrom != nil {
		q = q.Where("created_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("created_at <= ?", *f.DateTo)
	}

	var txns []models.Transaction
	pagination, err := q.Order("created_at desc").GetWithPagination(&txns, f.Page, f.PerPage)
	return txns, pagination, err
}

// FindByID loads one transaction with its lines.
func (r *TransactionRepository) FindByID(id uint) (models.Transaction, error) {
	var txn models.Transaction
	err := orm.DB().
		Model(&models.Transaction{}).
		Preload("Items").
		Preload("Items.Product").
		Preload("Staff").
		First(&txn, id)
	return txn, err
}

// DailySales is one day's worth of completed sales.
type DailySales struct {
	Date         string  `json:"date"`
	Transactions int     `json:"transactions"`
	Revenue      float64 `json:"revenue"`
}

// SalesReport aggregates completed sales for the period.
type SalesReport struct {
	From         time.Time          `json:"from"`
	To           time.Time          `json:"to"`
	Transactions int                `json:"transactions"`
	Revenue      float64            `json:"revenue"`
	Refunded     int                `json:"refunded"`
	ByMethod     map[string]float64 `json:"by_method"`
	Daily        []DailySales       `json:"daily"`
}

// Sales builds the sales report for [from, to]. Refunded transactions are
// counted separately and excluded from revenue.
func (r *TransactionRepository) Sales(from, to time.Time) (SalesReport, error) {
	var txns []models.Transaction
	err := orm.DB().
		Model(&models.Transaction{}).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Order("created_at asc").
		Get(&txns)
	if err != nil {
		return SalesReport{}, err
	}

	completed := collection.Filter(txns, func(t models.Transaction) bool {
		return t.Status == models.TransactionCompleted
	})

	report := SalesReport{
		From:         from,
		To:           to,
		Transactions: len(completed),
		Revenue: collection.Sum(completed, func(t models.Transaction) float64 {
			return t.TotalAmount
		}),
		Refunded: len(txns) - len(completed),
		ByMethod: map[string]float64{},
	}

	for _, t := range completed {
		report.ByMethod[t.PaymentMethod] += t.TotalAmount
	}

	byDay := collection.GroupBy(completed, func(t models.Transaction) string {
		return t.CreatedAt.Format("2006-01-02")
	})
	for day, dayTxns := range byDay {
		report.Daily = append(report.Daily, DailySales{
			Date:         day,
			Transactions: len(dayTxns),
			Revenue: collection.Sum(dayTxns, func(t models.Transaction) float64 {
				return t.TotalAmount
			}),
		})
	}
	report.Daily = collection.SortBy(report.Daily, func(a, b DailySales) bool {
		return a.Date < b.Date
	})

	return report, nil
}
