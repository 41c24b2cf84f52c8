package repositories

import (
	"strings"

	"github.com/cafahardware/pos/app/models"
	"github.com/cafahardware/pos/pkg/orm"
)

// UserFilter narrows a staff account listing.
type UserFilter struct {
	Role    string
	Active  *bool
	Search  string // matches name or email
	Page    int
	PerPage int
}

// UserRepository handles database operations for staff accounts.
type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// List returns staff accounts matching the filter, newest first.
func (r *UserRepository) List(f UserFilter) ([]models.User, orm.Pagination, error) {
	q := orm.DB().Model(&models.User{})

	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var users []models.User
	pagination, err := q.Order("created_at desc").GetWithPagination(&users, f.Page, f.PerPage)
	return users, pagination, err
}

// FindByID looks up a staff account by primary key.
func (r *UserRepository) FindByID(id uint) (models.User, error) {
	var user models.User
	err := orm.DB().Model(&models.User{}).First(&user, id)
	return user, err
}

// EmailTaken reports whether another account already uses email.
func (r *UserRepository) EmailTaken(email string, excludeID uint) (bool, error) {
	n, err := orm.DB().
		Model(&models.User{}).
		Where("email = ? AND id <> ?", email, excludeID).
		Count()
	return n > 0, err
}

// Create persists a new staff account.
func (r *UserRepository) Create(user *models.User) error {
	return orm.DB().Create(user)
}

// Update persists changes to a staff account.
func (r *UserRepository) Update(user *models.User) error {
	return orm.DB().Save(user)
}

// SetActive flips the account's active flag.
func (r *UserRepository) SetActive(id uint, active bool) error {
	return orm.DB().
		Model(&models.User{}).
		Where("id = ?", id).
		Update("is_active", active)
}

// Delete soft-deletes a staff account. Movement rows keep their staff_id,
// so history stays attributable.
func (r *UserRepository) Delete(id uint) error {
	return orm.DB().Delete(&models.User{}, id)
}

// CountAdmins returns the number of admin accounts, optionally only the
// active ones. Guards the last-admin rules.
func (r *UserRepository) CountAdmins(activeOnly bool) (int64, error) {
	q := orm.DB().Model(&models.User{}).Where("role = ?", models.RoleAdmin)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	return q.Count()
}
