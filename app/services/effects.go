package services

import "github.com/cafahardware/pos/pkg/event"

// Effects collects the side effects raised inside an atomic unit — domain
// events and notifications — so they run only after the transaction commits.
// Firing them mid-transaction would hold product row locks across network
// calls and announce state that might still roll back.
type Effects struct {
	events []pendingEvent
	after  []func()
}

type pendingEvent struct {
	name    string
	payload interface{}
}

// Event queues a domain event for publication after commit.
func (fx *Effects) Event(name string, payload interface{}) {
	fx.events = append(fx.events, pendingEvent{name: name, payload: payload})
}

// After queues an arbitrary post-commit callback (notification dispatch).
func (fx *Effects) After(fn func()) {
	fx.after = append(fx.after, fn)
}

// Flush publishes everything collected. Call it exactly once, after the
// transaction has committed; never call it on the failure path.
func (fx *Effects) Flush() {
	for _, e := range fx.events {
		event.Fire(e.name, e.payload)
	}
	for _, fn := range fx.after {
		fn()
	}
	fx.events = nil
	fx.after = nil
}
