package controllers

import (
	"net/http"

	"github.com/cafahardware/pos/app/models"
	"github.com/cafahardware/pos/app/repositories"
	"github.com/cafahardware/pos/pkg/auth"
	"github.com/cafahardware/pos/pkg/ctx"
	"github.com/cafahardware/pos/pkg/middleware"
	"github.com/cafahardware/pos/pkg/response"
)

// UserController manages staff accounts (admins and cashiers). Admin only.
// Two rules keep the store operable: you cannot act on your own account, and
// the last admin can neither be deleted nor deactivated.
type UserController struct {
	users *repositories.UserRepository
}

func NewUserController() *UserController {
	return &UserController{users: repositories.NewUserRepository()}
}

// Index lists staff accounts with role, status and search filters.
func (u *UserController) Index(c *ctx.Context) {
	page, perPage := pageParams(c)

	filter := repositories.UserFilter{
		Role:    c.Query("role"),
		Search:  c.Query("search"),
		Page:    page,
		PerPage: perPage,
	}
	switch c.Query("is_active") {
	case "true":
		active := true
		filter.Active = &active
	case "false":
		active := false
		filter.Active = &active
	}

	users, pagination, err := u.users.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Paginated(c.W, users, pagination)
}

// Show returns one staff account.
func (u *UserController) Show(c *ctx.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	user, err := u.users.FindByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Success(user)
}

type createUserInput struct {
	Name     string `json:"name"      validate:"required"`
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=8"`
	Phone    string `json:"phone"`
	Role     string `json:"role"      validate:"required,in=admin,cashier"`
	IsActive *bool  `json:"is_active"`
}

// Store creates a staff account.
func (u *UserController) Store(c *ctx.Context) {
	var in createUserInput
	if !c.BindJSON(&in) {
		return
	}

	taken, err := u.users.EmailTaken(in.Email, 0)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if taken {
		c.ValidationError(map[string]string{"email": "Email is already in use."})
		return
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	user := models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Phone:    in.Phone,
		Role:     in.Role,
		IsActive: true,
	}
	if err := u.users.Create(&user); err != nil {
		respondServiceError(c, err)
		return
	}

	// The active flag has a database default, so an inactive account is
	// created active and then flipped.
	if in.IsActive != nil && !*in.IsActive {
		if err := u.users.SetActive(user.ID, false); err != nil {
			respondServiceError(c, err)
			return
		}
		user.IsActive = false
	}

	c.Created(user)
}

type updateUserInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Phone    *string `json:"phone"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// Update edits a staff account. Only the supplied fields change; an omitted
// password stays as it is.
func (u *UserController) Update(c *ctx.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	user, err := u.users.FindByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var in updateUserInput
	if !c.BindJSON(&in) {
		return
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Email != nil {
		taken, err := u.users.EmailTaken(*in.Email, user.ID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if taken {
			c.ValidationError(map[string]string{"email": "Email is already in use."})
			return
		}
		user.Email = *in.Email
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Role != nil {
		if *in.Role != models.RoleAdmin && *in.Role != models.RoleCashier {
			c.ValidationError(map[string]string{"role": "Role must be admin or cashier."})
			return
		}
		user.Role = *in.Role
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if in.Password != nil && *in.Password != "" {
		if len(*in.Password) < 8 {
			c.ValidationError(map[string]string{"password": "The password must be at least 8 characters."})
			return
		}
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		user.Password = hash
	}

	if err := u.users.Update(&user); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Success(user)
}

// Destroy soft-deletes a staff account.
func (u *UserController) Destroy(c *ctx.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	actorID, _ := middleware.UserIDFromCtx(c.R)
	if actorID == id {
		c.Error(http.StatusForbidden, "You cannot delete your own account")
		return
	}

	user, err := u.users.FindByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if user.Role == models.RoleAdmin {
		admins, err := u.users.CountAdmins(false)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if admins <= 1 {
			c.Error(http.StatusForbidden, "Cannot delete the last admin user")
			return
		}
	}

	if err := u.users.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Success(map[string]string{"message": "User deleted"})
}

// ToggleStatus flips a staff account between active and inactive.
func (u *UserController) ToggleStatus(c *ctx.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	actorID, _ := middleware.UserIDFromCtx(c.R)
	if actorID == id {
		c.Error(http.StatusForbidden, "You cannot deactivate your own account")
		return
	}

	user, err := u.users.FindByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if user.Role == models.RoleAdmin && user.IsActive {
		admins, err := u.users.CountAdmins(true)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if admins <= 1 {
			c.Error(http.StatusForbidden, "Cannot deactivate the last active admin user")
			return
		}
	}

	if err := u.users.SetActive(user.ID, !user.IsActive); err != nil {
		respondServiceError(c, err)
		return
	}
	user.IsActive = !user.IsActive
	c.Success(user)
}
