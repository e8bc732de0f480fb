// Package realtime is an in-memory pub/sub hub. The file system adapter
// publishes an event after each mutation so that a listing or UI layer can
// refresh without polling the remote store.
package realtime

// Basic data events
const (
	EventCreate = "CREATED"
	EventUpdate = "UPDATED"
	EventDelete = "DELETED"
)

// Event is the basic message structure manipulated by the realtime package.
type Event struct {
	Verb    string
	GistID  string
	Name    string
	Address string
}

// Hub is an object which receives events and notifies the appropriate
// subscribers.
type Hub interface {
	// Publish is used by publishers when an event occurs.
	Publish(event *Event)

	// Subscribe adds a listener for events on a given gist.
	// It returns an EventChannel, call the EventChannel Close method
	// to unsubscribe.
	Subscribe(gistID string) EventChannel

	// SubscribeAll adds a listener for all events.
	SubscribeAll() EventChannel
}

// EventChannel is returned when subscribing to the hub.
type EventChannel interface {
	// Read returns a chan for events
	Read() <-chan *Event
	// Close closes the channel
	Close() error
}
