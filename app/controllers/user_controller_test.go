package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/cafahardware/pos/app/models"
	"github.com/cafahardware/pos/app/routes"
	"github.com/cafahardware/pos/pkg/auth"
	"github.com/cafahardware/pos/pkg/database"
	"github.com/cafahardware/pos/pkg/router"
)

func setupUsers(t *testing.T) (http.Handler, models.User) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		database.DB = prev
	})

	admin := models.User{
		Name:     "CAFA Admin",
		Email:    fmt.Sprintf("admin-%s@cafahardware.ph", t.Name()),
		Password: "not-a-real-hash",
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	require.NoError(t, db.Create(&admin).Error)

	r := router.New()
	routes.RegisterAPI(r)
	return r.Handler(), admin
}

func adminRequest(t *testing.T, handler http.Handler, admin models.User, method, url, body string) *httptest.ResponseRecorder {
	t.Helper()

	token, err := auth.GenerateToken(admin.ID, models.RoleAdmin)
	require.NoError(t, err)

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCreateCashier(t *testing.T) {
	handler, admin := setupUsers(t)

	rec := adminRequest(t, handler, admin, http.MethodPost, "/api/users", `{
		"name": "Maria Santos",
		"email": "maria@cafahardware.ph",
		"password": "kasama-sa-tindahan",
		"role": "cashier"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Data models.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.RoleCashier, resp.Data.Role)
	assert.True(t, resp.Data.IsActive)
	assert.NotContains(t, rec.Body.String(), "kasama-sa-tindahan", "passwords never leave the server")

	var stored models.User
	require.NoError(t, database.DB.First(&stored, resp.Data.ID).Error)
	assert.NotEqual(t, "kasama-sa-tindahan", stored.Password, "password must be stored hashed")
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	handler, admin := setupUsers(t)

	body := fmt.Sprintf(`{
		"name": "Other Admin",
		"email": %q,
		"password": "mahabang-password",
		"role": "admin"
	}`, admin.Email)
	rec := adminRequest(t, handler, admin, http.MethodPost, "/api/users", body)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDeleteOwnAccountForbidden(t *testing.T) {
	handler, admin := setupUsers(t)

	rec := adminRequest(t, handler, admin, http.MethodDelete,
		fmt.Sprintf("/api/users/%d", admin.ID), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var count int64
	database.DB.Model(&models.User{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

// A stale admin token must not be able to switch off the store's last
// working admin account.
func TestDeactivateLastActiveAdminForbidden(t *testing.T) {
	handler, admin := setupUsers(t)

	other := models.User{
		Name:     "Second Admin",
		Email:    fmt.Sprintf("second-%s@cafahardware.ph", t.Name()),
		Password: "not-a-real-hash",
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	require.NoError(t, database.DB.Create(&other).Error)

	// The acting admin's own account has since been deactivated, leaving
	// `other` as the only active admin.
	require.NoError(t, database.DB.Model(&models.User{}).
		Where("id = ?", admin.ID).Update("is_active", false).Error)

	rec := adminRequest(t, handler, admin, http.MethodPatch,
		fmt.Sprintf("/api/users/%d/toggle-status", other.ID), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var got models.User
	require.NoError(t, database.DB.First(&got, other.ID).Error)
	assert.True(t, got.IsActive)
}

func TestToggleCashierStatus(t *testing.T) {
	handler, admin := setupUsers(t)

	cashier := models.User{
		Name:     "Maria Santos",
		Email:    fmt.Sprintf("maria-%s@cafahardware.ph", t.Name()),
		Password: "not-a-real-hash",
		Role:     models.RoleCashier,
		IsActive: true,
	}
	require.NoError(t, database.DB.Create(&cashier).Error)

	rec := adminRequest(t, handler, admin, http.MethodPatch,
		fmt.Sprintf("/api/users/%d/toggle-status", cashier.ID), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got models.User
	require.NoError(t, database.DB.First(&got, cashier.ID).Error)
	assert.False(t, got.IsActive)
}
