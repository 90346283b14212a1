// Package form hosts a document while it is being edited and dispatches
// field-change and lifecycle events to handlers registered per doctype.
package form

import (
	"sort"
	"sync"
)

// Handler вызывается синхронно, в порядке регистрации.
type Handler func(f *Form)

type eventKey struct {
	docType string
	event   string
}

type Registry struct {
	mu       sync.RWMutex
	handlers map[eventKey][]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[eventKey][]Handler)}
}

func (r *Registry) On(docType, event string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := eventKey{docType: docType, event: event}
	r.handlers[k] = append(r.handlers[k], h)
}

func (r *Registry) handlersFor(docType, event string) []Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hs := r.handlers[eventKey{docType: docType, event: event}]
	out := make([]Handler, len(hs))
	copy(out, hs)
	return out
}

// Events возвращает список событий, на которые есть подписчики у doctype.
func (r *Registry) Events(docType string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var events []string
	for k := range r.handlers {
		if k.docType == docType {
			events = append(events, k.event)
		}
	}
	sort.Strings(events)
	return events
}
