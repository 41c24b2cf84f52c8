package services

import (
	"errors"

	"github.com/cafahardware/pos/app/models"
	"github.com/cafahardware/pos/pkg/auth"
	"github.com/cafahardware/pos/pkg/orm"
)

// ErrInvalidCredentials is returned for a wrong email/password pair. The
// message never reveals which half was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService authenticates staff users and storefront customers. Customers
// get a token carrying the dedicated "customer" role so staff endpoints
// stay closed to them.
type AuthService struct{}

func NewAuthService() *AuthService {
	return &AuthService{}
}

// LoginStaff verifies a staff member's credentials and issues a JWT.
func (s *AuthService) LoginStaff(email, password string) (string, *models.User, error) {
	var user models.User
	err := orm.DB().
		Model(&models.User{}).
		Where("email = ?", email).
		First(&user)
	if err != nil {
		if IsNotFound(err) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !user.IsActive || !auth.CheckPassword(user.Password, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

// RegisterCustomer creates a storefront account and issues a JWT.
func (s *AuthService) RegisterCustomer(name, email, password, phone, address string) (string, *models.Customer, error) {
	count, err := orm.DB().Model(&models.Customer{}).Where("email = ?", email).Count()
	if err != nil {
		return "", nil, err
	}
	if count > 0 {
		return "", nil, &ValidationError{Field: "email", Message: "Email is already registered."}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", nil, err
	}

	customer := models.Customer{
		Name:     name,
		Email:    email,
		Password: hash,
		Phone:    phone,
		Address:  address,
	}
	if err := orm.DB().Create(&customer); err != nil {
		return "", nil, err
	}

	token, err := auth.GenerateToken(customer.ID, models.RoleCustomer)
	if err != nil {
		return "", nil, err
	}
	return token, &customer, nil
}

// LoginCustomer verifies a customer's credentials and issues a JWT.
func (s *AuthService) LoginCustomer(email, password string) (string, *models.Customer, error) {
	var customer models.Customer
	err := orm.DB().
		Model(&models.Customer{}).
		Where("email = ?", email).
		First(&customer)
	if err != nil {
		if IsNotFound(err) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !auth.CheckPassword(customer.Password, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(customer.ID, models.RoleCustomer)
	if err != nil {
		return "", nil, err
	}
	return token, &customer, nil
}
