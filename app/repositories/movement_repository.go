package repositories

import (
	"time"

	"github.com/cafahardware/pos/app/models"
	"github.com/cafahardware/pos/pkg/orm"
)

// MovementFilter narrows the inventory ledger listing.
type MovementFilter struct {
	ProductID     uint
	Type          models.MovementType
	ReferenceType models.ReferenceType
	DateFrom      *time.Time
	DateTo        *time.Time
	Page          int
	PerPage       int
}

// MovementRepository reads the append-only inventory ledger. There are no
// update or delete methods on purpose; the ledger is written only by the
// inventory service inside its stock transactions.
type MovementRepository struct{}

func NewMovementRepository() *MovementRepository {
	return &MovementRepository{}
}

// History returns ledger entries matching the filter, newest first.
func (r *MovementRepository) History(f MovementFilter) ([]models.InventoryMovement, orm.Pagination, error) {
	q := orm.DB().
		Model(&models.InventoryMovement{}).
		Preload("Product").
		Preload("Staff")

	if f.ProductID != 0 {
		q = q.Where("product_id = ?", f.ProductID)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.ReferenceType != "" {
		q = q.Where("reference_type = ?", f.ReferenceType)
	}
	if f.DateFrom != nil {
		q = q.Where("created_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("created_at <= ?", *f.DateTo)
	}

	var movements []models.InventoryMovement
	pagination, err := q.Order("created_at desc").GetWithPagination(&movements, f.Page, f.PerPage)
	return movements, pagination, err
}

// ForProduct returns a product's full movement history, newest first.
func (r *MovementRepository) ForProduct(productID uint) ([]models.InventoryMovement, error) {
	var movements []models.InventoryMovement
	err := orm.DB().
		Model(&models.InventoryMovement{}).
		Preload("Staff").
		Where("product_id = ?", productID).
		Order("created_at desc").
		Get(&movements)
	return movements, err
}
