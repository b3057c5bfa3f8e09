// Package store owns the in-memory todo, section and label collections and
// the derived display view over them.
//
// Store operations never fail loudly: unknown identifiers are silent
// no-ops and load failures are recorded on the store rather than returned.
package store

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/todo-way/internal/ident"
)

// ErrLoadFailed marks an error recorded by a failed snapshot load.
var ErrLoadFailed = errors.New("load failed")

// EventKind describes what changed in a store.
type EventKind string

const (
	EventTodosLoaded    EventKind = "todos_loaded"
	EventTodoCreated    EventKind = "todo_created"
	EventTodoUpdated    EventKind = "todo_updated"
	EventTodoDeleted    EventKind = "todo_deleted"
	EventViewChanged    EventKind = "view_changed"
	EventSectionsLoaded EventKind = "sections_loaded"
	EventSectionChanged EventKind = "section_changed"
	EventLabelsLoaded   EventKind = "labels_loaded"
	EventLabelChanged   EventKind = "label_changed"
)

// Event is delivered to subscribers after a state change. ID names the
// affected entity when there is exactly one.
type Event struct {
	Kind EventKind
	ID   string
}

// Option configures a store.
type Option func(*options)

type options struct {
	logger *zap.Logger
	now    func() time.Time
	ids    *ident.Generator
}

// WithLogger sets the logger used for load failures and mutations.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock sets the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator sets the identifier generator for created entities.
func WithIDGenerator(g *ident.Generator) Option {
	return func(o *options) {
		if g != nil {
			o.ids = g
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.ids == nil {
		o.ids = ident.NewGenerator(o.now)
	}
	return o
}

// notifier fans events out to subscribers in registration order.
type notifier struct {
	mu     sync.Mutex
	nextID int
	ids    []int
	subs   map[int]func(Event)
}

// Subscribe registers fn to receive every event. The returned function
// removes the subscription; calling it more than once is harmless.
func (n *notifier) Subscribe(fn func(Event)) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs == nil {
		n.subs = make(map[int]func(Event))
	}
	id := n.nextID
	n.nextID++
	n.subs[id] = fn
	n.ids = append(n.ids, id)

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
		for i, v := range n.ids {
			if v == id {
				n.ids = append(n.ids[:i], n.ids[i+1:]...)
				break
			}
		}
	}
}

// publish delivers e. It must be called without the store lock held so
// subscribers may read the store.
func (n *notifier) publish(e Event) {
	n.mu.Lock()
	fns := make([]func(Event), 0, len(n.ids))
	for _, id := range n.ids {
		fns = append(fns, n.subs[id])
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}
