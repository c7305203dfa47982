package events

import (
	"github.com/kelindar/event"
)

// Bus wraps a kelindar/event dispatcher. Handlers run asynchronously on
// the dispatcher's goroutines, so publishing never blocks on a subscriber.
type Bus struct {
	dispatcher *event.Dispatcher
}

func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

func (b *Bus) Publish(ev Event) {
	switch e := ev.(type) {
	case IndicatorResolvedEvent:
		event.Publish(b.dispatcher, e)
	case BacklightChangedEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe registers handler, whose parameter type selects the events it
// receives. Unknown handler types get a no-op unsubscribe.
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(IndicatorResolvedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(BacklightChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}
