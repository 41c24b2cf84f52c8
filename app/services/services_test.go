package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/cafahardware/pos/app/models"
	"github.com/cafahardware/pos/pkg/database"
)

// setupDB points the global connection at a fresh in-memory database. The
// shared cache keeps every pooled connection on the same store.
func setupDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.User{},
		&models.Customer{},
		&models.Transaction{},
		&models.TransactionItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.InventoryMovement{},
		&models.Setting{},
	))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		database.DB = prev
	})
}

func createProduct(t *testing.T, name string, price float64, stock, threshold int) models.Product {
	t.Helper()

	p := models.Product{
		Name:              name,
		SKU:               fmt.Sprintf("SKU-%s-%d", name, stock),
		Price:             price,
		StockQuantity:     stock,
		LowStockThreshold: threshold,
		IsActive:          true,
	}
	require.NoError(t, database.DB.Create(&p).Error)
	return p
}

func createCustomer(t *testing.T) models.Customer {
	t.Helper()

	c := models.Customer{
		Name:     "Juan Dela Cruz",
		Email:    fmt.Sprintf("%s@example.com", t.Name()),
		Password: "not-a-real-hash",
		Phone:    "09171234567",
	}
	require.NoError(t, database.DB.Create(&c).Error)
	return c
}

func stockOf(t *testing.T, productID uint) int {
	t.Helper()

	var p models.Product
	require.NoError(t, database.DB.First(&p, productID).Error)
	return p.StockQuantity
}

func movementsFor(t *testing.T, productID uint) []models.InventoryMovement {
	t.Helper()

	var ms []models.InventoryMovement
	require.NoError(t, database.DB.Where("product_id = ?", productID).Order("id").Find(&ms).Error)
	return ms
}

// fakeNotifier records every notification instead of sending SMS.
type fakeNotifier struct {
	receipts      []*models.Transaction
	refunds       []*models.Transaction
	lowStock      []*models.Product
	confirmations []*models.Order
	statusUpdates []string
	verified      []*models.Order
	rejected      []*models.Order
}

func (f *fakeNotifier) SendTransactionReceipt(txn *models.Transaction) {
	f.receipts = append(f.receipts, txn)
}

func (f *fakeNotifier) SendRefundNotice(txn *models.Transaction) {
	f.refunds = append(f.refunds, txn)
}

func (f *fakeNotifier) SendLowStockAlert(product *models.Product) {
	f.lowStock = append(f.lowStock, product)
}

func (f *fakeNotifier) SendOrderConfirmation(order *models.Order) {
	f.confirmations = append(f.confirmations, order)
}

func (f *fakeNotifier) SendOrderStatusUpdate(_ *models.Order, status string) {
	f.statusUpdates = append(f.statusUpdates, status)
}

func (f *fakeNotifier) SendPaymentVerified(order *models.Order) {
	f.verified = append(f.verified, order)
}

func (f *fakeNotifier) SendPaymentRejected(order *models.Order) {
	f.rejected = append(f.rejected, order)
}
