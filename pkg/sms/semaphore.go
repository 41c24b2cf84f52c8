package sms

import (
	"fmt"
	"net/url"
	"time"

	"github.com/cafahardware/pos/config"
	"github.com/cafahardware/pos/pkg/http"
	"github.com/cafahardware/pos/pkg/logger"
)

// SemaphoreChannel delivers messages through the Semaphore bulk SMS API
// (api.semaphore.co). Semaphore handles Philippine numbers only.
type SemaphoreChannel struct {
	baseURL string
	apiKey  string
	sender  string
}

func NewSemaphoreChannel() *SemaphoreChannel {
	return &SemaphoreChannel{
		baseURL: config.SemaphoreBaseURL(),
		apiKey:  config.SemaphoreAPIKey(),
		sender:  config.SemaphoreSender(),
	}
}

func (c *SemaphoreChannel) Name() string { return "semaphore" }

// Available reports whether an API key is configured. Semaphore is
// cloud-hosted, so a configured key is treated as reachable.
func (c *SemaphoreChannel) Available() bool { return c.apiKey != "" }

// Send posts one message to the Semaphore messages endpoint as a form body.
func (c *SemaphoreChannel) Send(phone, message string) error {
	if c.apiKey == "" {
		logger.Warn("sms: semaphore api key not configured, message dropped", "phone", phone)
		return ErrNoChannel
	}

	form := url.Values{
		"apikey":     {c.apiKey},
		"number":     {Normalize(phone)},
		"message":    {message},
		"sendername": {c.sender},
	}

	resp, err := http.Post(c.baseURL+"/messages").
		Header("Content-Type", "application/x-www-form-urlencoded").
		Body(form.Encode()).
		Timeout(15 * time.Second).
		Retry(2, time.Second).
		Send()
	if err != nil {
		return fmt.Errorf("sms: semaphore request: %w", err)
	}
	if !resp.OK() {
		return fmt.Errorf("sms: semaphore rejected message: status %d: %s", resp.StatusCode, resp.Text())
	}

	logger.Info("sms: sent via semaphore", "phone", Normalize(phone))
	return nil
}

// Balance returns the remaining Semaphore credit balance.
func (c *SemaphoreChannel) Balance() (float64, error) {
	if c.apiKey == "" {
		return 0, ErrNoChannel
	}

	resp, err := http.Get(c.baseURL + "/account?apikey=" + url.QueryEscape(c.apiKey)).
		Timeout(10 * time.Second).
		Send()
	if err != nil {
		return 0, fmt.Errorf("sms: semaphore account: %w", err)
	}
	if !resp.OK() {
		return 0, fmt.Errorf("sms: semaphore account: status %d", resp.StatusCode)
	}

	var account struct {
		CreditBalance float64 `json:"credit_balance"`
	}
	if err := resp.JSON(&account); err != nil {
		return 0, err
	}
	return account.CreditBalance, nil
}
