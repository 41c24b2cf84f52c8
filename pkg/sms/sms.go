// Package sms sends text messages through the store's SMS gateways.
//
// Two channels are supported: the Semaphore bulk SMS API (cloud) and an
// Android phone running SMS-Gate (either its cloud relay or a device on the
// shop LAN). A Factory picks the primary channel from configuration and can
// fall back to Semaphore when the Android gateway is unreachable.
//
// Usage:
//
//	factory := sms.NewFactory()
//	factory.Send("09171234567", "Your order is ready for pickup!")
package sms

import (
	"errors"
	"sync"

	"github.com/cafahardware/pos/config"
	"github.com/cafahardware/pos/pkg/logger"
	"github.com/cafahardware/pos/pkg/workerpool"
)

// ErrNoChannel is returned when no configured channel could accept a message.
var ErrNoChannel = errors.New("sms: no available channel")

// Channel is a single SMS delivery mechanism.
type Channel interface {
	// Name identifies the channel in logs and status reports.
	Name() string
	// Available reports whether the channel is configured and reachable.
	Available() bool
	// Send delivers one message. A false return with nil error means the
	// gateway rejected the message without failing outright.
	Send(phone, message string) error
}

// Factory routes messages to the configured primary channel with optional
// fallback to Semaphore.
type Factory struct {
	provider string
	fallback bool

	semaphore *SemaphoreChannel
	android   *AndroidGatewayChannel

	pool *workerpool.Pool
}

// NewFactory builds a factory from configuration. The worker pool bounds
// concurrent gateway calls during bulk sends.
func NewFactory() *Factory {
	return &Factory{
		provider:  config.SMSProvider(),
		fallback:  config.SMSFallbackEnabled(),
		semaphore: NewSemaphoreChannel(),
		android:   NewAndroidGatewayChannel(),
		pool:      workerpool.New(4),
	}
}

var (
	defaultFactory *Factory
	defaultOnce    sync.Once
)

// Default returns the process-wide factory, built lazily from configuration.
// Config must be loaded before the first call.
func Default() *Factory {
	defaultOnce.Do(func() {
		defaultFactory = NewFactory()
	})
	return defaultFactory
}

// Primary returns the channel selected by SMS_PROVIDER.
func (f *Factory) Primary() Channel {
	switch f.provider {
	case "android", "android_gateway", "hybrid":
		return f.android
	default:
		return f.semaphore
	}
}

// Fallback returns the channel to try when the primary fails, or nil. Only
// an Android primary falls back; Semaphore is cloud-hosted and has nothing
// behind it.
func (f *Factory) Fallback() Channel {
	if !f.fallback {
		return nil
	}
	if _, ok := f.Primary().(*AndroidGatewayChannel); !ok {
		return nil
	}
	if !f.semaphore.Available() {
		return nil
	}
	return f.semaphore
}

// Send delivers one message through the primary channel, falling back when
// the primary is unavailable or errors.
func (f *Factory) Send(phone, message string) error {
	primary := f.Primary()

	if primary.Available() {
		err := primary.Send(phone, message)
		if err == nil {
			return nil
		}
		logger.Warn("sms: primary channel failed",
			"channel", primary.Name(), "phone", phone, "error", err)
	} else {
		logger.Warn("sms: primary channel not available", "channel", primary.Name())
	}

	fb := f.Fallback()
	if fb == nil {
		return ErrNoChannel
	}

	if err := fb.Send(phone, message); err != nil {
		logger.Error("sms: fallback channel failed",
			"channel", fb.Name(), "phone", phone, "error", err)
		return err
	}
	return nil
}

// SendBulk fans one message out to many recipients through the worker pool.
// Failures are logged per recipient; the first error is returned.
func (f *Factory) SendBulk(phones []string, message string) error {
	var firstErr error
	for _, phone := range phones {
		p := phone
		err := f.pool.SubmitWait(func() {
			if err := f.Send(p, message); err != nil && firstErr == nil {
				firstErr = err
			}
		})
		if err != nil {
			return err
		}
	}
	return firstErr
}

// ChannelStatus is one entry of a gateway status report.
type ChannelStatus struct {
	Channel   string `json:"channel"`
	Available bool   `json:"available"`
	Primary   bool   `json:"primary"`
}

// Status reports the availability of every configured channel.
func (f *Factory) Status() []ChannelStatus {
	primary := f.Primary().Name()
	return []ChannelStatus{
		{Channel: f.semaphore.Name(), Available: f.semaphore.Available(), Primary: primary == f.semaphore.Name()},
		{Channel: f.android.Name(), Available: f.android.Available(), Primary: primary == f.android.Name()},
	}
}

// Shutdown stops the bulk send worker pool.
func (f *Factory) Shutdown() {
	f.pool.Shutdown()
}
