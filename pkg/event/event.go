// Package event provides a small typed publish/subscribe feed used to
// propagate add, remove, modify and select notifications between the bundle
// group and the key tree.
package event

import "fmt"

// Kind identifies the type of change carried by an Event.
type Kind int

const (
	// Added reports a new entry, key or bundle.
	Added Kind = iota
	// Removed reports an entry or key that no longer exists.
	Removed
	// Modified reports a changed value or comment flag.
	Modified
	// Selected reports a change of the selected key.
	Selected
)

func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Modified:
		return "modified"
	case Selected:
		return "selected"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Event is a single notification published on a Feed.
type Event[T any] struct {
	Kind    Kind
	Payload T
}

// Listener receives events from a Feed.
type Listener[T any] func(Event[T])

// Subscription is returned by Feed.Subscribe and detaches the listener when
// cancelled.
type Subscription struct {
	cancel func()
}

// Unsubscribe detaches the listener. It is safe to call more than once and on
// a nil subscription.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil
}

type entry[T any] struct {
	id uint64
	fn Listener[T]
}

// Feed fans events out to its listeners in subscription order.
// A Feed is not safe for concurrent use; publishers and subscribers are
// expected to run on one goroutine.
type Feed[T any] struct {
	listeners []entry[T]
	nextID    uint64
}

// Subscribe registers fn and returns its subscription.
func (f *Feed[T]) Subscribe(fn Listener[T]) *Subscription {
	if fn == nil {
		return &Subscription{}
	}
	f.nextID++
	id := f.nextID
	f.listeners = append(f.listeners, entry[T]{id: id, fn: fn})
	return &Subscription{cancel: func() { f.remove(id) }}
}

func (f *Feed[T]) remove(id uint64) {
	for i, l := range f.listeners {
		if l.id == id {
			f.listeners = append(f.listeners[:i:i], f.listeners[i+1:]...)
			return
		}
	}
}

// Publish delivers an event to every listener registered at the time of the
// call. Listeners added or removed while publishing take effect on the next
// Publish.
func (f *Feed[T]) Publish(kind Kind, payload T) {
	if len(f.listeners) == 0 {
		return
	}
	snapshot := append([]entry[T](nil), f.listeners...)
	ev := Event[T]{Kind: kind, Payload: payload}
	for _, l := range snapshot {
		l.fn(ev)
	}
}

// Len reports the number of registered listeners.
func (f *Feed[T]) Len() int {
	return len(f.listeners)
}
