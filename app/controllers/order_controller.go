package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/cafahardware/pos/app/models"
	"github.com/cafahardware/pos/app/repositories"
	"github.com/cafahardware/pos/app/services"
	"github.com/cafahardware/pos/pkg/ctx"
	"github.com/cafahardware/pos/pkg/middleware"
	"github.com/cafahardware/pos/pkg/orm"
	"github.com/cafahardware/pos/pkg/response"
	"github.com/cafahardware/pos/pkg/storage"
)

// maxProofSize bounds payment proof uploads (5 MB).
const maxProofSize = 5 << 20

// OrderController serves the customer-facing storefront order endpoints.
// Every route requires a customer token; the customer id always comes from
// the token, never from the request body.
type OrderController struct {
	orders *services.OrderService
	repo   *repositories.OrderRepository
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{
		orders: orders,
		repo:   repositories.NewOrderRepository(),
	}
}

func currentCustomer(c *ctx.Context) (*models.Customer, bool) {
	id, ok := middleware.UserIDFromCtx(c.R)
	if !ok {
		c.Unauthorized()
		return nil, false
	}

	var customer models.Customer
	if err := orm.DB().Model(&models.Customer{}).First(&customer, id); err != nil {
		c.Unauthorized()
		return nil, false
	}
	return &customer, true
}

type placeOrderInput struct {
	Items []struct {
		ProductID uint `json:"product_id" validate:"required"`
		Quantity  int  `json:"quantity"   validate:"required,gte=1"`
	} `json:"items" validate:"required"`
	PaymentMethod   string `json:"payment_method"  validate:"required"`
	DeliveryMethod  string `json:"delivery_method"`
	DeliveryAddress string `json:"delivery_address"`
	Notes           string `json:"notes"`
	PaymentProof    string `json:"payment_proof"` // storage path from the upload endpoint
}

// Store places an order for the authenticated customer. Wallet checkouts
// send multipart/form-data so the proof image arrives with the order itself;
// a JSON body may instead name a proof already uploaded, which must exist on
// the disk — an arbitrary string is not a proof.
func (o *OrderController) Store(c *ctx.Context) {
	customer, ok := currentCustomer(c)
	if !ok {
		return
	}

	var in placeOrderInput
	if strings.HasPrefix(c.R.Header.Get("Content-Type"), "multipart/form-data") {
		if !o.bindCheckoutForm(c, customer, &in) {
			return
		}
	} else {
		if !c.BindJSON(&in) {
			return
		}
		if in.PaymentProof != "" && storage.Missing(in.PaymentProof) {
			c.ValidationError(map[string]string{"payment_proof": "Payment proof not found. Upload the image first."})
			return
		}
	}

	lines := make([]services.OrderLine, len(in.Items))
	for i, item := range in.Items {
		lines[i] = services.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	delivery := in.DeliveryMethod
	if delivery == "" {
		delivery = models.DeliveryPickup
	}

	order, err := o.orders.PlaceOrder(services.PlaceOrderInput{
		Customer:        customer,
		Items:           lines,
		PaymentMethod:   in.PaymentMethod,
		DeliveryMethod:  delivery,
		DeliveryAddress: in.DeliveryAddress,
		Notes:           in.Notes,
		PaymentProof:    in.PaymentProof,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Created(order)
}

// Index lists the authenticated customer's own orders.
func (o *OrderController) Index(c *ctx.Context) {
	customer, ok := currentCustomer(c)
	if !ok {
		return
	}
	page, perPage := pageParams(c)

	orders, pagination, err := o.repo.List(repositories.OrderFilter{
		CustomerID: customer.ID,
		Status:     c.Query("status"),
		Page:       page,
		PerPage:    perPage,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Paginated(c.W, orders, pagination)
}

// Show returns one of the customer's orders.
func (o *OrderController) Show(c *ctx.Context) {
	customer, ok := currentCustomer(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	order, err := o.repo.FindForCustomer(id, customer.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Success(order)
}

// Cancel lets the customer cancel their own order while it is still
// pending. The committed stock goes straight back on the shelf.
func (o *OrderController) Cancel(c *ctx.Context) {
	customer, ok := currentCustomer(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	// Ownership check before touching the workflow.
	if _, err := o.repo.FindForCustomer(id, customer.ID); err != nil {
		respondServiceError(c, err)
		return
	}

	order, err := o.orders.CancelOrder(id, nil)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Success(order)
}

// UploadPaymentProof accepts a proof-of-payment image for a wallet order
// and stores it on the configured disk. Allowed until staff verifies the
// payment.
func (o *OrderController) UploadPaymentProof(c *ctx.Context) {
	customer, ok := currentCustomer(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	order, err := o.repo.FindForCustomer(id, customer.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if order.IsPaymentVerified() {
		c.Error(http.StatusConflict, "Payment already verified")
		return
	}
	if order.IsCancelled() {
		c.Error(http.StatusConflict, "Order is cancelled")
		return
	}

	if err := c.R.ParseMultipartForm(maxProofSize); err != nil {
		c.Error(http.StatusBadRequest, "Invalid upload")
		return
	}
	file, header, err := c.R.FormFile("payment_proof")
	if err != nil {
		c.ValidationError(map[string]string{"payment_proof": "A proof image is required."})
		return
	}
	defer file.Close()

	path, ok := saveProof(c, file, header, order.OrderNumber)
	if !ok {
		return
	}

	err = orm.DB().
		Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("payment_proof", path)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Success(map[string]string{"payment_proof": path})
}

// bindCheckoutForm reads a multipart checkout: the scalar order fields, the
// items lines as a JSON array, and an optional payment_proof image stored
// before the order transaction begins.
func (o *OrderController) bindCheckoutForm(c *ctx.Context, customer *models.Customer, in *placeOrderInput) bool {
	if err := c.R.ParseMultipartForm(maxProofSize); err != nil {
		c.Error(http.StatusBadRequest, "Invalid upload")
		return false
	}

	if raw := c.R.FormValue("items"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &in.Items); err != nil {
			c.ValidationError(map[string]string{"items": "Items must be a JSON array of product_id and quantity."})
			return false
		}
	}
	in.PaymentMethod = c.R.FormValue("payment_method")
	in.DeliveryMethod = c.R.FormValue("delivery_method")
	in.DeliveryAddress = c.R.FormValue("delivery_address")
	in.Notes = c.R.FormValue("notes")

	file, header, err := c.R.FormFile("payment_proof")
	if err != nil {
		// No proof attached; the workflow decides whether one is required.
		return true
	}
	defer file.Close()

	path, ok := saveProof(c, file, header, fmt.Sprintf("checkout-%d", customer.ID))
	if !ok {
		return false
	}
	in.PaymentProof = path
	return true
}

// saveProof validates and stores a proof-of-payment image, responding with
// the error itself when the upload is rejected.
func saveProof(c *ctx.Context, file io.Reader, header *multipart.FileHeader, stem string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		c.ValidationError(map[string]string{"payment_proof": "Proof must be a JPG, PNG or WebP image."})
		return "", false
	}

	data, err := io.ReadAll(io.LimitReader(file, maxProofSize))
	if err != nil {
		c.Error(http.StatusBadRequest, "Could not read upload")
		return "", false
	}

	path := fmt.Sprintf("payment_proofs/%s-%d%s", stem, time.Now().Unix(), ext)
	if err := storage.Put(path, data); err != nil {
		respondServiceError(c, err)
		return "", false
	}
	return path, true
}
