package controllers

import (
	"strconv"
	"time"

	"github.com/cafahardware/pos/app/models"
	"github.com/cafahardware/pos/app/repositories"
	"github.com/cafahardware/pos/app/services"
	"github.com/cafahardware/pos/pkg/ctx"
	"github.com/cafahardware/pos/pkg/middleware"
	"github.com/cafahardware/pos/pkg/response"
)

type InventoryController struct {
	inventory *services.InventoryService
	products  *repositories.ProductRepository
	movements *repositories.MovementRepository
}

func NewInventoryController(inventory *services.InventoryService) *InventoryController {
	return &InventoryController{
		inventory: inventory,
		products:  repositories.NewProductRepository(),
		movements: repositories.NewMovementRepository(),
	}
}

type adjustInput struct {
	NewQuantity *int   `json:"new_quantity" validate:"required"`
	Notes       string `json:"notes"`
}

// Adjust sets a product's stock to a counted value, recording the delta in
// the ledger (physical count corrections, damage write-offs).
func (i *InventoryController) Adjust(c *ctx.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	staffID, _ := middleware.UserIDFromCtx(c.R)

	var in adjustInput
	if !c.BindJSON(&in) {
		return
	}

	product, err := i.inventory.AdjustStock(id, *in.NewQuantity, staffID, in.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Success(product)
}

type restockInput struct {
	Quantity int    `json:"quantity" validate:"required,gte=1"`
	Notes    string `json:"notes"`
}

// Restock adds delivered stock to a product.
func (i *InventoryController) Restock(c *ctx.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	staffID, _ := middleware.UserIDFromCtx(c.R)

	var in restockInput
	if !c.BindJSON(&in) {
		return
	}

	notes := in.Notes
	if notes == "" {
		notes = "Stock received"
	}

	product, err := i.inventory.AddStock(id, in.Quantity, models.ReferenceAdjustment, 0, &staffID, notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Success(product)
}

// LowStock lists active products at or below their threshold.
func (i *InventoryController) LowStock(c *ctx.Context) {
	products, err := i.products.LowStock()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Success(products)
}

// Movements lists the inventory ledger with filters.
func (i *InventoryController) Movements(c *ctx.Context) {
	page, perPage := pageParams(c)
	productID, _ := strconv.ParseUint(c.Query("product_id"), 10, 64)

	filter := repositories.MovementFilter{
		ProductID:     uint(productID),
		Type:          models.MovementType(c.Query("type")),
		ReferenceType: models.ReferenceType(c.Query("reference_type")),
		Page:          page,
		PerPage:       perPage,
	}
	if from := c.Query("date_from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filter.DateFrom = &t
		}
	}
	if to := c.Query("date_to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			end := t.Add(24*time.Hour - time.Nanosecond)
			filter.DateTo = &end
		}
	}

	movements, pagination, err := i.movements.History(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Paginated(c.W, movements, pagination)
}

// ProductMovements returns one product's full ledger history.
func (i *InventoryController) ProductMovements(c *ctx.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	movements, err := i.movements.ForProduct(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Success(movements)
}

// Report returns the store-wide stock position summary.
func (i *InventoryController) Report(c *ctx.Context) {
	report, err := i.products.Inventory()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Success(report)
}
