package store

import "sync"

type Op string

const (
	OpInsert Op = "insert"
	OpPatch  Op = "patch"
	OpDelete Op = "delete"
)

// ChangeEvent describes a single committed write, scoped by record kind.
type ChangeEvent struct {
	Kind string
	ID   string
	Op   Op
}

// Subscription receives change events for the kinds it was opened with.
type Subscription struct {
	C chan ChangeEvent

	kinds    map[string]bool
	notifier *Notifier
}

// Close detaches the subscription and closes its channel.
func (s *Subscription) Close() {
	s.notifier.unsubscribe(s)
}

// Notifier fans committed writes out to subscribers. Publishing never blocks:
// a subscriber that falls behind loses events rather than stalling writers,
// which is acceptable because consumers recompute from a full snapshot.
type Notifier struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[*Subscription]struct{})}
}

// Subscribe opens a subscription for the given kinds. No kinds means all kinds.
func (n *Notifier) Subscribe(kinds ...string) *Subscription {
	sub := &Subscription{
		C:        make(chan ChangeEvent, 64),
		kinds:    make(map[string]bool, len(kinds)),
		notifier: n,
	}
	for _, k := range kinds {
		sub.kinds[k] = true
	}

	n.mu.Lock()
	n.subs[sub] = struct{}{}
	n.mu.Unlock()

	return sub
}

// Publish delivers ev to every matching subscriber.
func (n *Notifier) Publish(ev ChangeEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for sub := range n.subs {
		if len(sub.kinds) > 0 && !sub.kinds[ev.Kind] {
			continue
		}
		select {
		case sub.C <- ev:
		default:
			// Subscriber is saturated; drop rather than block the writer.
		}
	}
}

func (n *Notifier) unsubscribe(sub *Subscription) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.subs[sub]; ok {
		delete(n.subs, sub)
		close(sub.C)
	}
}
