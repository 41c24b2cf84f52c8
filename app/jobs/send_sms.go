// Package jobs defines the background jobs processed by the queue workers.
package jobs

import (
	"github.com/cafahardware/pos/pkg/logger"
	"github.com/cafahardware/pos/pkg/queue"
)

// SMSSender delivers a single text message. Satisfied by *sms.Factory.
type SMSSender interface {
	Send(phone, message string) error
}

var smsSender SMSSender

// UseSMS installs the gateway used by SendSMSJob. Call once at boot.
func UseSMS(s SMSSender) { smsSender = s }

// SendSMSJob delivers one text message through the configured SMS gateway.
// Notification senders enqueue this instead of calling the gateway directly
// so slow or flaky gateways never block a request.
type SendSMSJob struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func (j SendSMSJob) Handle() error {
	if smsSender == nil {
		logger.Warn("jobs: sms gateway not configured, message dropped", "phone", j.Phone)
		return nil
	}
	return smsSender.Send(j.Phone, j.Message)
}

// Register registers every job type with the queue so workers can
// deserialize them by name.
func Register() {
	queue.Register("jobs.SendSMSJob", func() queue.Job { return &SendSMSJob{} })
}
