// Package events implements synchronous pub/sub fan-out for state-change
// notifications and quest lifecycle events. Delivery happens in
// subscription order before the triggering call returns; there is no
// listener isolation - a panicking listener aborts the remaining fan-out.
package events

import "github.com/nathoo/arcanum/types"

// ChangeListener receives state-change notifications.
type ChangeListener func(types.Change)

// Notifier fans out state-change notifications to any number of listeners.
type Notifier struct {
	nextID    int
	order     []int
	listeners map[int]ChangeListener
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{listeners: map[int]ChangeListener{}}
}

// Subscribe registers a listener and returns an unsubscribe func.
func (n *Notifier) Subscribe(l ChangeListener) func() {
	n.nextID++
	id := n.nextID
	n.order = append(n.order, id)
	n.listeners[id] = l
	return func() { n.unsubscribe(id) }
}

func (n *Notifier) unsubscribe(id int) {
	if _, ok := n.listeners[id]; !ok {
		return
	}
	delete(n.listeners, id)
	for i, v := range n.order {
		if v == id {
			n.order = append(n.order[:i], n.order[i+1:]...)
			break
		}
	}
}

// Notify delivers the change to every listener synchronously, in
// subscription order. The order is snapshotted first so a listener that
// unsubscribes during delivery cannot shift later listeners out of, or
// twice into, the fan-out.
func (n *Notifier) Notify(change types.Change) {
	order := make([]int, len(n.order))
	copy(order, n.order)
	for _, id := range order {
		if l, ok := n.listeners[id]; ok {
			l(change)
		}
	}
}

// Len returns the number of subscribed listeners.
func (n *Notifier) Len() int {
	return len(n.listeners)
}

// QuestListener receives quest lifecycle events.
type QuestListener func(types.QuestEvent)

// Bus fans out quest lifecycle events. Same delivery contract as Notifier.
type Bus struct {
	nextID    int
	order     []int
	listeners map[int]QuestListener
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{listeners: map[int]QuestListener{}}
}

// Subscribe registers a listener and returns an unsubscribe func.
func (b *Bus) Subscribe(l QuestListener) func() {
	b.nextID++
	id := b.nextID
	b.order = append(b.order, id)
	b.listeners[id] = l
	return func() { b.unsubscribe(id) }
}

func (b *Bus) unsubscribe(id int) {
	if _, ok := b.listeners[id]; !ok {
		return
	}
	delete(b.listeners, id)
	for i, v := range b.order {
		if v == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Publish delivers the event to every listener synchronously, in
// subscription order. Same snapshot discipline as Notifier.Notify.
func (b *Bus) Publish(event types.QuestEvent) {
	order := make([]int, len(b.order))
	copy(order, b.order)
	for _, id := range order {
		if l, ok := b.listeners[id]; ok {
			l(event)
		}
	}
}
