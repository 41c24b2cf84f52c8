package sms

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/cafahardware/pos/config"
	"github.com/cafahardware/pos/pkg/cache"
	"github.com/cafahardware/pos/pkg/http"
	"github.com/cafahardware/pos/pkg/logger"
)

// statusCacheKey caches the gateway's last known reachability so every send
// does not re-ping a phone that is known to be offline.
const statusCacheKey = "sms:android_gateway_status"

const statusCacheTTL = 5 * time.Minute

// AndroidGatewayChannel delivers messages through SMS-Gate, an app running
// on an Android phone with a local SIM. Messages are relayed via the
// SMS-Gate cloud API using device credentials.
type AndroidGatewayChannel struct {
	enabled  bool
	baseURL  string
	username string
	password string
	deviceID string
}

func NewAndroidGatewayChannel() *AndroidGatewayChannel {
	return &AndroidGatewayChannel{
		enabled:  config.AndroidSMSEnabled(),
		baseURL:  config.AndroidSMSURL(),
		username: config.AndroidSMSUsername(),
		password: config.AndroidSMSPassword(),
		deviceID: config.AndroidSMSDeviceID(),
	}
}

func (c *AndroidGatewayChannel) Name() string { return "android_gateway" }

func (c *AndroidGatewayChannel) configured() bool {
	return c.enabled && c.username != "" && c.password != "" && c.deviceID != ""
}

// Available reports whether the gateway phone is reachable. The result is
// cached for a few minutes; an offline phone should not slow every send.
func (c *AndroidGatewayChannel) Available() bool {
	if !c.configured() {
		return false
	}

	var status string
	if cache.Get(statusCacheKey, &status) {
		return status == "online"
	}

	online := c.ping()
	c.markStatus(online)
	return online
}

func (c *AndroidGatewayChannel) ping() bool {
	resp, err := http.Get(c.baseURL+"/3rdparty/v1/message").
		Header("Authorization", "Basic "+basicAuth(c.username, c.password)).
		Timeout(5 * time.Second).
		Send()
	if err != nil {
		return false
	}
	return resp.StatusCode < 500
}

func (c *AndroidGatewayChannel) markStatus(online bool) {
	status := "offline"
	if online {
		status = "online"
	}
	_ = cache.Set(statusCacheKey, status, statusCacheTTL)
}

// Send relays one message through the gateway phone. The SMS-Gate API wants
// numbers with a leading plus.
func (c *AndroidGatewayChannel) Send(phone, message string) error {
	if !c.configured() {
		logger.Warn("sms: android gateway not configured, message dropped", "phone", phone)
		return ErrNoChannel
	}

	resp, err := http.Post(c.baseURL+"/3rdparty/v1/message").
		Header("Authorization", "Basic "+basicAuth(c.username, c.password)).
		Body(map[string]interface{}{
			"deviceId":     c.deviceID,
			"phoneNumbers": []string{"+" + Normalize(phone)},
			"message":      message,
		}).
		Timeout(30 * time.Second).
		Send()
	if err != nil {
		c.markStatus(false)
		return fmt.Errorf("sms: android gateway request: %w", err)
	}

	if !resp.OK() {
		if resp.StatusCode >= 500 {
			c.markStatus(false)
		}
		return fmt.Errorf("sms: android gateway rejected message: status %d: %s", resp.StatusCode, resp.Text())
	}

	c.markStatus(true)
	logger.Info("sms: sent via android gateway", "phone", Normalize(phone))
	return nil
}

func basicAuth(user, pass string) string {
	return base64.StdEncoding.EncodeToString([]byte(user + ":" + pass))
}
