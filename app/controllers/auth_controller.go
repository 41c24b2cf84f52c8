// Package controllers holds the HTTP handlers. Controllers bind and
// validate input, call a service or repository, and shape the response;
// business rules live in app/services.
package controllers

import (
	"errors"
	"net/http"

	"github.com/cafahardware/pos/app/models"
	"github.com/cafahardware/pos/app/services"
	"github.com/cafahardware/pos/pkg/ctx"
	"github.com/cafahardware/pos/pkg/middleware"
	"github.com/cafahardware/pos/pkg/orm"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController() *AuthController {
	return &AuthController{service: services.NewAuthService()}
}

type loginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates a staff member and returns a bearer token.
func (a *AuthController) Login(c *ctx.Context) {
	var in loginInput
	if !c.BindJSON(&in) {
		return
	}

	token, user, err := a.service.LoginStaff(in.Email, in.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.Unauthorized("Invalid credentials")
			return
		}
		c.Error(http.StatusInternalServerError, "Login failed")
		return
	}

	c.Success(map[string]interface{}{"token": token, "user": user})
}

// Me returns the authenticated staff member's profile.
func (a *AuthController) Me(c *ctx.Context) {
	id, ok := middleware.UserIDFromCtx(c.R)
	if !ok {
		c.Unauthorized()
		return
	}

	var user models.User
	if err := orm.DB().Model(&models.User{}).First(&user, id); err != nil {
		c.NotFound("User not found")
		return
	}
	c.Success(user)
}

type registerInput struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone"    validate:"required"`
	Address  string `json:"address"`
}

// Register creates a storefront customer account.
func (a *AuthController) Register(c *ctx.Context) {
	var in registerInput
	if !c.BindJSON(&in) {
		return
	}

	token, customer, err := a.service.RegisterCustomer(in.Name, in.Email, in.Password, in.Phone, in.Address)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			c.ValidationError(map[string]string{ve.Field: ve.Message})
			return
		}
		c.Error(http.StatusInternalServerError, "Registration failed")
		return
	}

	c.Created(map[string]interface{}{"token": token, "customer": customer})
}

// CustomerLogin authenticates a storefront customer.
func (a *AuthController) CustomerLogin(c *ctx.Context) {
	var in loginInput
	if !c.BindJSON(&in) {
		return
	}

	token, customer, err := a.service.LoginCustomer(in.Email, in.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.Unauthorized("Invalid credentials")
			return
		}
		c.Error(http.StatusInternalServerError, "Login failed")
		return
	}

	c.Success(map[string]interface{}{"token": token, "customer": customer})
}
