package controllers

import (
	"github.com/cafahardware/pos/app/repositories"
	"github.com/cafahardware/pos/pkg/ctx"
)

// SettingController manages store settings. Secrets are written through
// the encrypted path and come back masked.
type SettingController struct {
	settings *repositories.SettingRepository
}

func NewSettingController() *SettingController {
	return &SettingController{settings: repositories.NewSettingRepository()}
}

// Index lists all settings with secret values masked.
func (s *SettingController) Index(c *ctx.Context) {
	settings, err := s.settings.All()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Success(settings)
}

// PaymentInfo returns the store's GCash details for the checkout screen.
// Public: customers need the number before they can pay.
func (s *SettingController) PaymentInfo(c *ctx.Context) {
	enabled, err := s.settings.Get("payment.gcash_enabled", "false")
	if err != nil {
		respondServiceError(c, err)
		return
	}
	number, err := s.settings.Get("payment.gcash_number", "")
	if err != nil {
		respondServiceError(c, err)
		return
	}
	name, err := s.settings.Get("payment.gcash_name", "")
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Success(map[string]interface{}{
		"gcash": map[string]interface{}{
			"enabled": enabled == "true",
			"number":  number,
			"name":    name,
		},
	})
}

type settingInput struct {
	Key    string `json:"key"   validate:"required"`
	Value  string `json:"value" validate:"required"`
	Secret bool   `json:"secret"`
}

// Update creates or replaces one setting.
func (s *SettingController) Update(c *ctx.Context) {
	var in settingInput
	if !c.BindJSON(&in) {
		return
	}

	var err error
	if in.Secret {
		err = s.settings.SetSecret(in.Key, in.Value)
	} else {
		err = s.settings.Set(in.Key, in.Value)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Success(map[string]string{"message": "Setting saved"})
}
