// Package feed is a small in-process pub/sub bus carrying newly inserted
// rows to live consumers (the admin dashboard, SSE streams).
package feed

import "sync"

type Kind string

const (
	KindVisitor Kind = "visitor"
	KindClick   Kind = "whatsapp_click"
	KindQuery   Kind = "contact_query"
)

type Event struct {
	Kind    Kind
	Payload interface{}
}

type (
	Feed struct {
		mu     sync.Mutex
		subs   map[int]*Subscription
		nextID int
	}

	Subscription struct {
		id   int
		feed *Feed
		ch   chan Event
		once sync.Once
	}
)

func New() *Feed {
	return &Feed{subs: make(map[int]*Subscription)}
}

// Publish delivers evt to all subscribers. The send is non-blocking: a
// subscriber that cannot keep up misses events rather than stalling inserts.
func (f *Feed) Publish(evt Event) {
	if f == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sub := range f.subs {
		select {
		case sub.ch <- evt:
		default:
		}
	}
}

// Subscribe registers a new subscriber with a buffered delivery channel.
func (f *Feed) Subscribe(buf int) *Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	sub := &Subscription{
		id:   f.nextID,
		feed: f,
		ch:   make(chan Event, buf),
	}
	f.subs[sub.id] = sub
	return sub
}

func (f *Feed) remove(id int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subs, id)
}

func (s *Subscription) C() <-chan Event { return s.ch }

// Close unregisters the subscription and closes its channel.
// No events are delivered afterwards.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.feed.remove(s.id)
		close(s.ch)
	})
}
