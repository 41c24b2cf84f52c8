package repositories

import (
	"strings"
	"time"

	"github.com/cafahardware/pos/app/models"
	"github.com/cafahardware/pos/pkg/cache"
	"github.com/cafahardware/pos/pkg/collection"
	"github.com/cafahardware/pos/pkg/orm"
)

// catalogueCacheTTL bounds how stale the public catalogue may get. Writes
// through the repository invalidate it immediately.
const catalogueCacheTTL = 5 * time.Minute

const catalogueCacheKey = "products:catalogue"

// ProductFilter narrows a product listing.
type ProductFilter struct {
	Search     string // matches name, SKU or barcode
	CategoryID uint
	ActiveOnly bool
	LowStock   bool
	Page       int
	PerPage    int
}

// ProductRepository handles database operations for Product and Category.
type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

// List returns products matching the filter, paginated.
func (r *ProductRepository) List(f ProductFilter) ([]models.Product, orm.Pagination, error) {
	q := orm.DB().Model(&models.Product{}).Preload("Category")

	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ? OR barcode = ?", like, like, f.Search)
	}
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if f.LowStock {
		q = q.Where("stock_quantity <= low_stock_threshold")
	}

	var products []models.Product
	pagination, err := q.Order("name asc").GetWithPagination(&products, f.Page, f.PerPage)
	return products, pagination, err
}

// Catalogue returns the active products for the storefront, cached.
func (r *ProductRepository) Catalogue() ([]models.Product, error) {
	var products []models.Product
	err := orm.DB().
		Model(&models.Product{}).
		Preload("Category").
		Where("is_active = ?", true).
		Order("name asc").
		Cache(catalogueCacheKey, catalogueCacheTTL, &products)
	return products, err
}

// FindByID looks up a product by primary key.
func (r *ProductRepository) FindByID(id uint) (models.Product, error) {
	var product models.Product
	err := orm.DB().Model(&models.Product{}).Preload("Category").First(&product, id)
	return product, err
}

// FindByBarcode looks up a product by its barcode, for POS scanning.
func (r *ProductRepository) FindByBarcode(barcode string) (models.Product, error) {
	var product models.Product
	err := orm.DB().
		Model(&models.Product{}).
		Preload("Category").
		Where("barcode = ?", barcode).
		First(&product)
	return product, err
}

// Create persists a new product and busts the catalogue cache.
func (r *ProductRepository) Create(product *models.Product) error {
	if err := orm.DB().Create(product); err != nil {
		return err
	}
	return cache.Forget(catalogueCacheKey)
}

// Update persists a product's descriptive fields and busts the catalogue
// cache. stock_quantity is never written here: the product handed in was
// loaded without a lock, so writing its quantity back would overwrite any
// sale that committed in between and leave the ledger out of step. Stock
// only moves through InventoryService, which records a movement row with
// every change.
func (r *ProductRepository) Update(product *models.Product) error {
	if err := orm.DB().Omit("stock_quantity").Save(product); err != nil {
		return err
	}

	// Reload the skipped column so callers never echo a stale quantity.
	var fresh models.Product
	if err := orm.DB().Model(&models.Product{}).Select("stock_quantity").First(&fresh, product.ID); err != nil {
		return err
	}
	product.StockQuantity = fresh.StockQuantity

	return cache.Forget(catalogueCacheKey)
}

// Deactivate soft-hides a product from the catalogue and the POS without
// touching its movement history.
func (r *ProductRepository) Deactivate(id uint) error {
	err := orm.DB().
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("is_active", false)
	if err != nil {
		return err
	}
	return cache.Forget(catalogueCacheKey)
}

// LowStock returns every active product at or below its threshold.
func (r *ProductRepository) LowStock() ([]models.Product, error) {
	var products []models.Product
	err := orm.DB().
		Model(&models.Product{}).
		Preload("Category").
		Where("is_active = ? AND stock_quantity <= low_stock_threshold", true).
		Order("stock_quantity asc").
		Get(&products)
	return products, err
}

// InventoryReport summarises the stock position of the whole store.
type InventoryReport struct {
	TotalProducts int              `json:"total_products"`
	TotalUnits    int              `json:"total_units"`
	StockValue    float64          `json:"stock_value"`    // at cost
	RetailValue   float64          `json:"retail_value"`   // at price
	LowStockCount int              `json:"low_stock_count"`
	OutOfStock    int              `json:"out_of_stock"`
	LowStockItems []models.Product `json:"low_stock_items"`
}

// Inventory builds the stock report from the active product set.
func (r *ProductRepository) Inventory() (InventoryReport, error) {
	var products []models.Product
	err := orm.DB().
		Model(&models.Product{}).
		Where("is_active = ?", true).
		Get(&products)
	if err != nil {
		return InventoryReport{}, err
	}

	low := collection.Filter(products, func(p models.Product) bool { return p.IsLowStock() })

	return InventoryReport{
		TotalProducts: len(products),
		TotalUnits: collection.SumInt(products, func(p models.Product) int {
			return p.StockQuantity
		}),
		StockValue: collection.Sum(products, func(p models.Product) float64 {
			if p.Cost == nil {
				return 0
			}
			return *p.Cost * float64(p.StockQuantity)
		}),
		RetailValue: collection.Sum(products, func(p models.Product) float64 {
			return p.Price * float64(p.StockQuantity)
		}),
		LowStockCount: len(low),
		OutOfStock: len(collection.Filter(products, func(p models.Product) bool {
			return p.IsOutOfStock()
		})),
		LowStockItems: low,
	}, nil
}

// Categories returns all product categories.
func (r *ProductRepository) Categories() ([]models.Category, error) {
	var categories []models.Category
	err := orm.DB().Model(&models.Category{}).Order("name asc").Get(&categories)
	return categories, err
}

// CreateCategory persists a new category.
func (r *ProductRepository) CreateCategory(category *models.Category) error {
	return orm.DB().Create(category)
}
