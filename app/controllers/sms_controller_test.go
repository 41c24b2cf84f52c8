package controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromotionBlastQueues(t *testing.T) {
	handler, admin := setupUsers(t)

	body := `{"phones":["09171234567","09281234567"],"message":"Weekend sale: 10% off all power tools!"}`
	resp := adminRequest(t, handler, admin, http.MethodPost, "/api/sms/promotions", body)
	require.Equal(t, http.StatusOK, resp.Code)

	var out struct {
		Data struct {
			Queued int `json:"queued"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Equal(t, 2, out.Data.Queued)
}

func TestPromotionBlastRejectsBadNumber(t *testing.T) {
	handler, admin := setupUsers(t)

	body := `{"phones":["09171234567","12345"],"message":"Weekend sale!"}`
	resp := adminRequest(t, handler, admin, http.MethodPost, "/api/sms/promotions", body)
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	var out struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Contains(t, out.Errors["phones"], "Entry 2")
}
