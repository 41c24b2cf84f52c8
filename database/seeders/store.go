package seeders

import (
	"errors"

	"github.com/cafahardware/pos/app/models"
	"github.com/cafahardware/pos/pkg/auth"
	"gorm.io/gorm"
)

func init() {
	Register("admin_user", SeedAdminUser)
	Register("categories", SeedCategories)
	Register("products", SeedProducts)
}

// SeedAdminUser creates the initial admin account if no admin exists yet.
// Change the password right after first login.
func SeedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword("password")
	if err != nil {
		return err
	}

	return db.Create(&models.User{
		Name:     "CAFA Admin",
		Email:    "admin@cafahardware.ph",
		Password: hash,
		Phone:    "09171234567",
		Role:     models.RoleAdmin,
		IsActive: true,
	}).Error
}

// SeedCategories inserts the store's standard departments.
func SeedCategories(db *gorm.DB) error {
	names := []struct{ name, description string }{
		{"Construction Materials", "Cement, aggregates, rebar and lumber"},
		{"Hand Tools", "Hammers, saws, pliers and measuring tools"},
		{"Power Tools", "Drills, grinders and their consumables"},
		{"Electrical", "Wires, breakers, outlets and fixtures"},
		{"Plumbing", "Pipes, fittings, valves and sealants"},
		{"Paints & Finishes", "Paints, thinners, brushes and rollers"},
		{"Fasteners", "Nails, screws, bolts and anchors"},
	}

	for _, c := range names {
		var existing models.Category
		err := db.Where("name = ?", c.name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&models.Category{Name: c.name, Description: c.description}).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedProducts inserts a starter catalogue keyed by SKU; existing SKUs are
// left untouched so reseeding never resets stock.
func SeedProducts(db *gorm.DB) error {
	cost := func(v float64) *float64 { return &v }
	barcode := func(v string) *string { return &v }

	var categories []models.Category
	if err := db.Find(&categories).Error; err != nil {
		return err
	}
	byName := make(map[string]uint, len(categories))
	for _, c := range categories {
		byName[c.Name] = c.ID
	}

	products := []models.Product{
		{Name: "Portland Cement 40kg", SKU: "CEM-40KG", Barcode: barcode("4800016641121"), Price: 265, Cost: cost(235), StockQuantity: 120, LowStockThreshold: 30, CategoryID: byName["Construction Materials"], IsActive: true},
		{Name: "Deformed Rebar 10mm x 6m", SKU: "RBR-10X6", Price: 182, Cost: cost(158), StockQuantity: 200, LowStockThreshold: 40, CategoryID: byName["Construction Materials"], IsActive: true},
		{Name: "Marine Plywood 1/2\" 4x8", SKU: "PLY-12-48", Price: 780, Cost: cost(690), StockQuantity: 45, LowStockThreshold: 10, CategoryID: byName["Construction Materials"], IsActive: true},
		{Name: "Claw Hammer 16oz", SKU: "HT-HAM16", Barcode: barcode("4800888112233"), Price: 245, Cost: cost(180), StockQuantity: 35, LowStockThreshold: 8, CategoryID: byName["Hand Tools"], IsActive: true},
		{Name: "Steel Tape Measure 5m", SKU: "HT-TAPE5", Price: 120, Cost: cost(85), StockQuantity: 50, LowStockThreshold: 12, CategoryID: byName["Hand Tools"], IsActive: true},
		{Name: "Cordless Drill 12V", SKU: "PT-DRL12", Barcode: barcode("4800888334455"), Price: 2350, Cost: cost(1900), StockQuantity: 12, LowStockThreshold: 4, CategoryID: byName["Power Tools"], IsActive: true},
		{Name: "Cutting Disc 4\" (10 pcs)", SKU: "PT-DISC4", Price: 180, Cost: cost(130), StockQuantity: 80, LowStockThreshold: 20, CategoryID: byName["Power Tools"], IsActive: true},
		{Name: "THHN Wire 2.0mm (per meter)", SKU: "EL-THHN20", Price: 28, Cost: cost(21), StockQuantity: 500, LowStockThreshold: 100, CategoryID: byName["Electrical"], IsActive: true},
		{Name: "Circuit Breaker 30A", SKU: "EL-CB30", Price: 310, Cost: cost(250), StockQuantity: 25, LowStockThreshold: 6, CategoryID: byName["Electrical"], IsActive: true},
		{Name: "PVC Pipe 1/2\" x 3m", SKU: "PL-PVC12", Price: 95, Cost: cost(70), StockQuantity: 150, LowStockThreshold: 30, CategoryID: byName["Plumbing"], IsActive: true},
		{Name: "Teflon Tape 3/4\"", SKU: "PL-TEF34", Price: 15, Cost: cost(8), StockQuantity: 300, LowStockThreshold: 60, CategoryID: byName["Plumbing"], IsActive: true},
		{Name: "Flat Latex Paint 4L White", SKU: "PN-LTX4W", Barcode: barcode("4800888556677"), Price: 640, Cost: cost(520), StockQuantity: 40, LowStockThreshold: 10, CategoryID: byName["Paints & Finishes"], IsActive: true},
		{Name: "Paint Roller 7\" with Tray", SKU: "PN-ROL7", Price: 145, Cost: cost(100), StockQuantity: 28, LowStockThreshold: 8, CategoryID: byName["Paints & Finishes"], IsActive: true},
		{Name: "Common Wire Nail 2\" (per kilo)", SKU: "FS-CWN2", Price: 75, Cost: cost(58), StockQuantity: 250, LowStockThreshold: 50, CategoryID: byName["Fasteners"], IsActive: true},
		{Name: "Concrete Nail 3\" (per kilo)", SKU: "FS-CCN3", Price: 95, Cost: cost(72), StockQuantity: 180, LowStockThreshold: 40, CategoryID: byName["Fasteners"], IsActive: true},
	}

	for i := range products {
		var existing models.Product
		err := db.Where("sku = ?", products[i].SKU).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&products[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
