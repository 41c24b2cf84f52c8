package repositories

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/cafahardware/pos/app/models"
	"github.com/cafahardware/pos/pkg/database"
)

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
}

// A product edit saves a struct that was loaded without a lock. If a sale
// commits in between, Update must not write the stale quantity back over it.
func TestUpdateNeverWritesStock(t *testing.T) {
	setupDB(t)
	repo := NewProductRepository()

	p := models.Product{
		Name:          "Portland Cement 40kg",
		SKU:           "CEM-40KG",
		Price:         265,
		StockQuantity: 10,
		IsActive:      true,
	}
	require.NoError(t, database.DB.Create(&p).Error)

	loaded, err := repo.FindByID(p.ID)
	require.NoError(t, err)

	// A sale commits after the load: stock drops from 10 to 7 with a
	// matching movement row.
	require.NoError(t, database.DB.Model(&models.Product{}).
		Where("id = ?", p.ID).
		Update("stock_quantity", 7).Error)
	require.NoError(t, database.DB.Create(&models.InventoryMovement{
		ProductID:     p.ID,
		Type:          models.MovementOut,
		Quantity:      3,
		ReferenceType: models.ReferenceSale,
	}).Error)

	loaded.Price = 280
	require.NoError(t, repo.Update(&loaded))

	var after models.Product
	require.NoError(t, database.DB.First(&after, p.ID).Error)
	assert.Equal(t, 7, after.StockQuantity, "edit must not clobber the committed reduction")
	assert.Equal(t, 280.0, after.Price)

	// The saved struct reflects the authoritative quantity, not its
	// pre-sale snapshot.
	assert.Equal(t, 7, loaded.StockQuantity)
}

func TestUpdatePersistsDescriptiveFields(t *testing.T) {
	setupDB(t)
	repo := NewProductRepository()

	p := models.Product{
		Name:          "Claw Hammer 16oz",
		SKU:           "HT-HAM16",
		Price:         245,
		StockQuantity: 35,
		IsActive:      true,
	}
	require.NoError(t, database.DB.Create(&p).Error)

	loaded, err := repo.FindByID(p.ID)
	require.NoError(t, err)

	loaded.Name = "Claw Hammer 16oz Fiberglass"
	loaded.Description = "Fiberglass handle, magnetic nail starter"
	loaded.LowStockThreshold = 12
	require.NoError(t, repo.Update(&loaded))

	var after models.Product
	require.NoError(t, database.DB.First(&after, p.ID).Error)
	assert.Equal(t, "Claw Hammer 16oz Fiberglass", after.Name)
	assert.Equal(t, 12, after.LowStockThreshold)
	assert.Equal(t, 35, after.StockQuantity)
}
