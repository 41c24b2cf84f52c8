package migrations

import (
	"github.com/cafahardware/pos/app/models"
	"github.com/cafahardware/pos/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20250601000000_create_catalogue_tables", &createCatalogueTables{})
	migration.Register("20250601000001_create_account_tables", &createAccountTables{})
	migration.Register("20250601000002_create_transaction_tables", &createTransactionTables{})
	migration.Register("20250601000003_create_order_tables", &createOrderTables{})
	migration.Register("20250601000004_create_inventory_movements_table", &createInventoryMovementsTable{})
	migration.Register("20250601000005_create_settings_table", &createSettingsTable{})
}

type createCatalogueTables struct{}

func (m *createCatalogueTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{}, &models.Product{})
}

func (m *createCatalogueTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products", "categories")
}

type createAccountTables struct{}

func (m *createAccountTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Customer{})
}

func (m *createAccountTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("customers", "users")
}

type createTransactionTables struct{}

func (m *createTransactionTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Transaction{}, &models.TransactionItem{})
}

func (m *createTransactionTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("transaction_items", "transactions")
}

type createOrderTables struct{}

func (m *createOrderTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.OrderItem{})
}

func (m *createOrderTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("order_items", "orders")
}

type createInventoryMovementsTable struct{}

func (m *createInventoryMovementsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.InventoryMovement{})
}

func (m *createInventoryMovementsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("inventory_movements")
}

type createSettingsTable struct{}

func (m *createSettingsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Setting{})
}

func (m *createSettingsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("settings")
}
