package controllers_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/cafahardware/pos/app/models"
	"github.com/cafahardware/pos/app/routes"
	"github.com/cafahardware/pos/pkg/database"
	"github.com/cafahardware/pos/pkg/router"
	"github.com/cafahardware/pos/pkg/testkit"
)

// TestCatalogueAPI drives the public storefront endpoints through JSON
// scenarios in testdata/.
func TestCatalogueAPI(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:catalogue_api?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Category{}, &models.Product{}))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		database.DB = prev
	})

	tools := models.Category{Name: "Hand Tools", Description: "Hammers, saws and pliers"}
	tools.ID = 1
	require.NoError(t, db.Create(&tools).Error)

	hammer := models.Product{
		Name:              "Claw Hammer",
		SKU:               "HT-HAM16",
		Description:       "16oz claw hammer",
		Price:             245,
		StockQuantity:     35,
		LowStockThreshold: 8,
		CategoryID:        1,
		IsActive:          true,
	}
	hammer.ID = 1
	require.NoError(t, db.Create(&hammer).Error)

	tape := models.Product{
		Name:          "Teflon Tape",
		SKU:           "PL-TEF34",
		Price:         15,
		StockQuantity: 0,
		IsActive:      true,
	}
	tape.ID = 2
	require.NoError(t, db.Create(&tape).Error)

	hidden := models.Product{Name: "Old Stock", SKU: "ZZ-OLD", Price: 1, IsActive: true}
	hidden.ID = 3
	require.NoError(t, db.Create(&hidden).Error)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", hidden.ID).
		Update("is_active", false).Error)

	r := router.New()
	routes.RegisterAPI(r)

	testkit.RunDir(t, r.Handler(), "testdata")
}
