package controllers

import (
	"time"

	"github.com/cafahardware/pos/app/listeners"
	"github.com/cafahardware/pos/pkg/ctx"
	"github.com/cafahardware/pos/pkg/sse"
	"github.com/cafahardware/pos/pkg/ws"
)

// RealtimeController streams committed store events (stock changes, low
// stock alerts, order movements) to staff dashboards, over WebSocket or
// Server-Sent Events.
type RealtimeController struct{}

func NewRealtimeController() *RealtimeController {
	return &RealtimeController{}
}

// WS upgrades the connection and attaches it to the broadcast hub.
func (rt *RealtimeController) WS(c *ctx.Context) {
	ws.Upgrade(c.W, c.R, listeners.Hub)
}

// Stream serves the same broadcast frames over SSE, for clients behind
// proxies that break WebSocket. Heartbeats keep idle connections open.
func (rt *RealtimeController) Stream(c *ctx.Context) {
	stream := sse.New(c.W, c.R)
	if stream == nil {
		return
	}

	frames, cancel := listeners.Subscribe()
	defer cancel()

	heartbeat := time.NewTicker(25 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.R.Context().Done():
			return
		case <-heartbeat.C:
			stream.Comment("keepalive")
		case data := <-frames:
			stream.SendRaw(string(data))
		}
		if stream.IsClosed() {
			return
		}
	}
}
