package controllers

import (
	"fmt"

	"github.com/cafahardware/pos/app/services"
	"github.com/cafahardware/pos/pkg/ctx"
	"github.com/cafahardware/pos/pkg/sms"
)

// SMSController exposes gateway health, a test-send endpoint so staff can
// verify the SMS setup without ringing up a sale, and the marketing blast.
type SMSController struct {
	factory  *sms.Factory
	notifier *services.NotificationService
}

func NewSMSController(factory *sms.Factory, notifier *services.NotificationService) *SMSController {
	return &SMSController{factory: factory, notifier: notifier}
}

// Status reports the availability of every SMS channel.
func (s *SMSController) Status(c *ctx.Context) {
	c.Success(map[string]interface{}{
		"channels": s.factory.Status(),
	})
}

type testSMSInput struct {
	Phone   string `json:"phone" validate:"required"`
	Message string `json:"message"`
}

// Test sends a test message through the configured channels.
func (s *SMSController) Test(c *ctx.Context) {
	var in testSMSInput
	if !c.BindJSON(&in) {
		return
	}
	if !sms.Valid(in.Phone) {
		c.ValidationError(map[string]string{"phone": "Not a valid Philippine mobile number."})
		return
	}

	message := in.Message
	if message == "" {
		message = "Test message from CAFA Hardware POS"
	}

	if err := s.factory.Send(in.Phone, message); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Success(map[string]string{"message": "Test SMS sent"})
}

type promotionInput struct {
	Phones  []string `json:"phones"  validate:"required"`
	Message string   `json:"message" validate:"required"`
}

// Promote queues a marketing text to the given numbers, one job each, so
// the request returns before any gateway call.
func (s *SMSController) Promote(c *ctx.Context) {
	var in promotionInput
	if !c.BindJSON(&in) {
		return
	}

	for i, phone := range in.Phones {
		if !sms.Valid(phone) {
			c.ValidationError(map[string]string{
				"phones": fmt.Sprintf("Entry %d is not a valid Philippine mobile number.", i+1),
			})
			return
		}
	}

	s.notifier.BroadcastPromotion(in.Phones, in.Message)
	c.Success(map[string]interface{}{"queued": len(in.Phones)})
}
