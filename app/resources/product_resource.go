// Package resources shapes the JSON the public storefront sees. Internal
// fields (cost, reorder thresholds, audit columns) never leave the staff API.
package resources

import (
	"github.com/cafahardware/pos/app/models"
	"github.com/cafahardware/pos/pkg/resource"
)

// PublicProduct is the storefront view of a catalogue item.
type PublicProduct struct{ resource.Base }

func (r *PublicProduct) ToArray(v interface{}) resource.Map {
	p, ok := v.(models.Product)
	if !ok {
		return resource.Map{}
	}

	out := resource.Map{
		"id":             p.ID,
		"name":           p.Name,
		"sku":            p.SKU,
		"description":    p.Description,
		"image":          p.Image,
		"price":          p.Price,
		"stock_quantity": p.StockQuantity,
		"in_stock":       !p.IsOutOfStock(),
	}
	if p.Category != nil {
		out["category"] = resource.Map{"id": p.Category.ID, "name": p.Category.Name}
	}
	return out
}
