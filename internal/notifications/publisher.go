package notifications

import "context"

// Publisher delivers an event to every connected client.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Dispatcher publishes through Redis when it is configured, so every API
// instance relays the event, and straight into the local hub otherwise.
type Dispatcher struct {
	hub      *Hub
	notifier *Notifier
}

// NewDispatcher returns a Publisher over hub and notifier. notifier may be nil.
func NewDispatcher(hub *Hub, notifier *Notifier) *Dispatcher {
	return &Dispatcher{hub: hub, notifier: notifier}
}

func (d *Dispatcher) Publish(ctx context.Context, evt Event) error {
	payload, err := evt.Encode()
	if err != nil {
		return err
	}
	if d.notifier.Enabled() {
		return d.notifier.PublishBroadcast(ctx, payload)
	}
	d.hub.BroadcastAll(payload)
	return nil
}
