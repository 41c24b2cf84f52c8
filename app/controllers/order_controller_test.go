package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/cafahardware/pos/app/models"
	"github.com/cafahardware/pos/app/routes"
	"github.com/cafahardware/pos/pkg/auth"
	"github.com/cafahardware/pos/pkg/database"
	"github.com/cafahardware/pos/pkg/router"
	"github.com/cafahardware/pos/pkg/storage"
)

func setupCheckout(t *testing.T) (http.Handler, models.Customer, models.Product) {
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
		&models.Order{},
		&models.OrderItem{},
		&models.InventoryMovement{},
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

	storage.Connect()
	storage.RegisterDisk("local", storage.NewLocalDisk(t.TempDir(), "http://localhost:8080/storage"))

	customer := models.Customer{
		Name:     "Juan Dela Cruz",
		Email:    fmt.Sprintf("%s@example.com", t.Name()),
		Password: "not-a-real-hash",
		Phone:    "09171234567",
	}
	require.NoError(t, db.Create(&customer).Error)

	product := models.Product{
		Name:          "Cordless Drill 12V",
		SKU:           "PT-DRL12",
		Price:         2350,
		StockQuantity: 12,
		IsActive:      true,
	}
	require.NoError(t, db.Create(&product).Error)

	r := router.New()
	routes.RegisterAPI(r)
	return r.Handler(), customer, product
}

func customerToken(t *testing.T, customer models.Customer) string {
	t.Helper()
	token, err := auth.GenerateToken(customer.ID, models.RoleCustomer)
	require.NoError(t, err)
	return token
}

// A JSON checkout may only reference a proof that is actually on the disk.
// An arbitrary string placed an order in an earlier build; now it is a
// validation error and nothing is created.
func TestPlaceOrderRejectsUnknownProofPath(t *testing.T) {
	handler, customer, product := setupCheckout(t)

	body := fmt.Sprintf(`{
		"items": [{"product_id": %d, "quantity": 1}],
		"payment_method": "gcash",
		"payment_proof": "payment_proofs/forged.jpg"
	}`, product.ID)

	req := httptest.NewRequest(http.MethodPost, "/api/customer/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+customerToken(t, customer))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Errors, "payment_proof")

	var orders int64
	database.DB.Model(&models.Order{}).Count(&orders)
	assert.Zero(t, orders)

	var p models.Product
	require.NoError(t, database.DB.First(&p, product.ID).Error)
	assert.Equal(t, 12, p.StockQuantity)
}

// A wallet checkout carries the proof image in the same multipart request,
// the way the storefront submits it. The file lands on the disk and its path
// on the order.
func TestPlaceOrderWithProofUpload(t *testing.T) {
	handler, customer, product := setupCheckout(t)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("items",
		fmt.Sprintf(`[{"product_id": %d, "quantity": 2}]`, product.ID)))
	require.NoError(t, form.WriteField("payment_method", "gcash"))
	part, err := form.CreateFormFile("payment_proof", "gcash-receipt.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("not-a-real-jpeg"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/customer/orders", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+customerToken(t, customer))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Data models.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.PaymentProof)
	assert.True(t, storage.Exists(resp.Data.PaymentProof), "stored proof must exist on the disk")

	var p models.Product
	require.NoError(t, database.DB.First(&p, product.ID).Error)
	assert.Equal(t, 10, p.StockQuantity)
}

// A wallet checkout with no proof at all is still rejected before any stock
// moves.
func TestPlaceOrderWalletWithoutProof(t *testing.T) {
	handler, customer, product := setupCheckout(t)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("items",
		fmt.Sprintf(`[{"product_id": %d, "quantity": 1}]`, product.ID)))
	require.NoError(t, form.WriteField("payment_method", "gcash"))
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/customer/orders", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+customerToken(t, customer))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var p models.Product
	require.NoError(t, database.DB.First(&p, product.ID).Error)
	assert.Equal(t, 12, p.StockQuantity)
}
