package controllers

import (
	"encoding/json"
	"net/http"

	gql "github.com/graphql-go/graphql"

	"github.com/cafahardware/pos/app/models"
	"github.com/cafahardware/pos/app/repositories"
	"github.com/cafahardware/pos/app/resources"
	"github.com/cafahardware/pos/pkg/collection"
	"github.com/cafahardware/pos/pkg/ctx"
	"github.com/cafahardware/pos/pkg/graphql"
	"github.com/cafahardware/pos/pkg/logger"
	"github.com/cafahardware/pos/pkg/resource"
)

// CatalogueController serves the public storefront: the product catalogue
// over REST and a GraphQL query endpoint for the storefront frontend.
type CatalogueController struct {
	products *repositories.ProductRepository
	schema   gql.Schema
}

func NewCatalogueController() *CatalogueController {
	c := &CatalogueController{products: repositories.NewProductRepository()}
	schema, err := graphql.NewSchema(c.rootQuery())
	if err != nil {
		logger.Error("catalogue: build graphql schema", "error", err)
	}
	c.schema = schema
	return c
}

// Index returns the active catalogue, optionally filtered by search or
// category. The unfiltered catalogue is served from cache.
func (ct *CatalogueController) Index(c *ctx.Context) {
	search := c.Query("search")
	categoryID := c.Query("category_id")

	products, err := ct.products.Catalogue()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if search != "" {
		products = collection.Filter(products, func(p models.Product) bool {
			return containsFold(p.Name, search) || containsFold(p.SKU, search)
		})
	}
	if categoryID != "" {
		products = collection.Filter(products, func(p models.Product) bool {
			return uintString(p.CategoryID) == categoryID
		})
	}

	pr := &resources.PublicProduct{}
	c.Success(collection.Map(products, func(p models.Product) resource.Map {
		return pr.ToArray(p)
	}))
}

// Show returns one active product.
func (ct *CatalogueController) Show(c *ctx.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	product, err := ct.products.FindByID(id)
	if err != nil || !product.IsActive {
		c.NotFound("Product not found")
		return
	}
	resource.New(&resources.PublicProduct{}, product).Respond(c.W)
}

// Categories returns the category list for storefront navigation.
func (ct *CatalogueController) Categories(c *ctx.Context) {
	categories, err := ct.products.Categories()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Success(categories)
}

// GraphQL executes a catalogue query. Queries only; the storefront mutates
// through the REST order endpoints.
func (ct *CatalogueController) GraphQL(c *ctx.Context) {
	var body struct {
		Query     string                 `json:"query"`
		Variables map[string]interface{} `json:"variables"`
	}
	if err := json.NewDecoder(c.R.Body).Decode(&body); err != nil {
		c.Error(http.StatusBadRequest, "Invalid GraphQL request")
		return
	}

	result := gql.Do(gql.Params{
		Schema:         ct.schema,
		RequestString:  body.Query,
		VariableValues: body.Variables,
	})
	c.JSON(http.StatusOK, result)
}

func (ct *CatalogueController) rootQuery() *gql.Object {
	categoryType := gql.NewObject(gql.ObjectConfig{
		Name: "Category",
		Fields: gql.Fields{
			"id":   &gql.Field{Type: gql.Int},
			"name": &gql.Field{Type: gql.String},
		},
	})

	productType := gql.NewObject(gql.ObjectConfig{
		Name: "Product",
		Fields: gql.Fields{
			"id":            &gql.Field{Type: gql.Int},
			"name":          &gql.Field{Type: gql.String},
			"sku":           &gql.Field{Type: gql.String},
			"description":   &gql.Field{Type: gql.String},
			"price":         &gql.Field{Type: gql.Float},
			"stockQuantity": &gql.Field{
				Type: gql.Int,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					product, _ := p.Source.(models.Product)
					return product.StockQuantity, nil
				},
			},
			"inStock": &gql.Field{
				Type: gql.Boolean,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					product, _ := p.Source.(models.Product)
					return !product.IsOutOfStock(), nil
				},
			},
			"category": &gql.Field{
				Type: categoryType,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					product, _ := p.Source.(models.Product)
					if product.Category == nil {
						return nil, nil
					}
					return *product.Category, nil
				},
			},
		},
	})

	return gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"products": &gql.Field{
				Type: gql.NewList(productType),
				Args: gql.FieldConfigArgument{
					"search":     &gql.ArgumentConfig{Type: gql.String},
					"categoryId": &gql.ArgumentConfig{Type: gql.Int},
				},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					products, err := ct.products.Catalogue()
					if err != nil {
						return nil, err
					}
					if search, ok := p.Args["search"].(string); ok && search != "" {
						products = collection.Filter(products, func(pr models.Product) bool {
							return containsFold(pr.Name, search) || containsFold(pr.SKU, search)
						})
					}
					if categoryID, ok := p.Args["categoryId"].(int); ok && categoryID > 0 {
						products = collection.Filter(products, func(pr models.Product) bool {
							return pr.CategoryID == uint(categoryID)
						})
					}
					return products, nil
				},
			},
			"product": &gql.Field{
				Type: productType,
				Args: gql.FieldConfigArgument{
					"id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
				},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					product, err := ct.products.FindByID(uint(id))
					if err != nil || !product.IsActive {
						return nil, nil
					}
					return product, nil
				},
			},
		},
	})
}
