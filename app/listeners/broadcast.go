// Package listeners wires domain events to realtime delivery. Staff
// dashboards hold a WebSocket open and see stock changes, low stock alerts
// and order movements as they commit.
package listeners

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/cafahardware/pos/app/events"
	"github.com/cafahardware/pos/pkg/event"
	"github.com/cafahardware/pos/pkg/logger"
	"github.com/cafahardware/pos/pkg/ws"
)

// Hub is the WebSocket hub all store events broadcast to. The realtime
// controller registers clients against it; internal/server starts its loop.
var Hub = ws.NewHub()

// frame is the envelope every broadcast message travels in.
type frame struct {
	Channel string      `json:"channel"`
	Event   string      `json:"event"`
	At      time.Time   `json:"at"`
	Data    interface{} `json:"data"`
}

// Register subscribes the broadcast listeners to the domain events. Call
// once at boot, before the first request is served.
func Register() {
	event.Listen(events.InventoryUpdated, func(payload interface{}) {
		broadcast("inventory", events.InventoryUpdated, payload)
	})
	event.Listen(events.LowStockAlert, func(payload interface{}) {
		broadcast("alerts", events.LowStockAlert, payload)
	})
	event.Listen(events.OrderStatusChanged, func(payload interface{}) {
		broadcast("orders", events.OrderStatusChanged, payload)
	})
	event.Listen(events.TransactionCompleted, func(payload interface{}) {
		broadcast("orders", events.TransactionCompleted, payload)
	})
}

func broadcast(channel, name string, payload interface{}) {
	data, err := json.Marshal(frame{
		Channel: channel,
		Event:   name,
		At:      time.Now(),
		Data:    payload,
	})
	if err != nil {
		logger.Error("listeners: marshal broadcast frame", "event", name, "error", err)
		return
	}
	Hub.Broadcast <- data
	fanOut(data)
}

// SSE subscribers. Each open event-stream request holds one channel; slow
// consumers drop frames rather than block the publisher.
var (
	subMu sync.Mutex
	subs  = map[chan []byte]struct{}{}
)

// Subscribe returns a channel of broadcast frames and a cancel function
// that must be called when the consumer goes away.
func Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, 64)

	subMu.Lock()
	subs[ch] = struct{}{}
	subMu.Unlock()

	cancel := func() {
		subMu.Lock()
		delete(subs, ch)
		subMu.Unlock()
	}
	return ch, cancel
}

func fanOut(data []byte) {
	subMu.Lock()
	defer subMu.Unlock()
	for ch := range subs {
		select {
		case ch <- data:
		default:
		}
	}
}
