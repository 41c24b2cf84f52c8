package controllers

import (
	"net/http"
	"strconv"

	"github.com/cafahardware/pos/app/models"
	"github.com/cafahardware/pos/app/repositories"
	"github.com/cafahardware/pos/pkg/ctx"
	"github.com/cafahardware/pos/pkg/response"
)

type ProductController struct {
	products *repositories.ProductRepository
}

func NewProductController() *ProductController {
	return &ProductController{products: repositories.NewProductRepository()}
}

// Index lists products with search and filters, for the staff screens.
func (p *ProductController) Index(c *ctx.Context) {
	page, perPage := pageParams(c)
	categoryID, _ := strconv.ParseUint(c.Query("category_id"), 10, 64)

	products, pagination, err := p.products.List(repositories.ProductFilter{
		Search:     c.Query("search"),
		CategoryID: uint(categoryID),
		ActiveOnly: c.Query("active") == "true",
		LowStock:   c.Query("low_stock") == "true",
		Page:       page,
		PerPage:    perPage,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Paginated(c.W, products, pagination)
}

// Show returns one product.
func (p *ProductController) Show(c *ctx.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	product, err := p.products.FindByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Success(product)
}

// Barcode resolves a scanned barcode to a product, for the POS screen.
func (p *ProductController) Barcode(c *ctx.Context) {
	code := c.Param("barcode")
	if code == "" {
		c.Error(http.StatusBadRequest, "Barcode is required")
		return
	}

	product, err := p.products.FindByBarcode(code)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Success(product)
}

type productInput struct {
	Name              string   `json:"name"        validate:"required"`
	SKU               string   `json:"sku"         validate:"required"`
	Barcode           *string  `json:"barcode"`
	Description       string   `json:"description"`
	Price             float64  `json:"price"       validate:"required,gte=0"`
	Cost              *float64 `json:"cost"`
	StockQuantity     int      `json:"stock_quantity" validate:"gte=0"`
	LowStockThreshold int      `json:"low_stock_threshold" validate:"gte=0"`
	CategoryID        uint     `json:"category_id" validate:"required"`
	IsActive          *bool    `json:"is_active"`
}

// Store creates a product.
func (p *ProductController) Store(c *ctx.Context) {
	var in productInput
	if !c.BindJSON(&in) {
		return
	}

	product := models.Product{
		Name:              in.Name,
		SKU:               in.SKU,
		Barcode:           in.Barcode,
		Description:       in.Description,
		Price:             in.Price,
		Cost:              in.Cost,
		StockQuantity:     in.StockQuantity,
		LowStockThreshold: in.LowStockThreshold,
		CategoryID:        in.CategoryID,
		IsActive:          true,
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}

	if err := p.products.Create(&product); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Created(product)
}

// Update edits a product's descriptive fields and pricing. Stock is not
// editable here; stock changes go through the inventory endpoints so the
// ledger stays complete.
func (p *ProductController) Update(c *ctx.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	product, err := p.products.FindByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var in productInput
	if !c.BindJSON(&in) {
		return
	}

	product.Name = in.Name
	product.SKU = in.SKU
	product.Barcode = in.Barcode
	product.Description = in.Description
	product.Price = in.Price
	product.Cost = in.Cost
	product.LowStockThreshold = in.LowStockThreshold
	product.CategoryID = in.CategoryID
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}

	if err := p.products.Update(&product); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Success(product)
}

// Destroy deactivates a product. Rows are never deleted; the movement
// ledger references them forever.
func (p *ProductController) Destroy(c *ctx.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := p.products.Deactivate(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Success(map[string]string{"message": "Product deactivated"})
}

// Categories lists all product categories.
func (p *ProductController) Categories(c *ctx.Context) {
	categories, err := p.products.Categories()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Success(categories)
}

type categoryInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// StoreCategory creates a category.
func (p *ProductController) StoreCategory(c *ctx.Context) {
	var in categoryInput
	if !c.BindJSON(&in) {
		return
	}

	category := models.Category{Name: in.Name, Description: in.Description}
	if err := p.products.CreateCategory(&category); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Created(category)
}
