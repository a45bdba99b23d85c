// Package reply provides optional convenience adapters around a Chart's
// reply surface: a typed dispatch registry and a log/slog diagnostic
// binding.
package reply

import "reflect"

// Router is a reply-type-keyed dispatch table: Register records handlers for
// T, Dispatch runs every handler registered for r's exact dynamic type, in
// registration order. It is the multiplexer a host plugs into
// engine.Hooks.Reply (via joinchart.Hooks) instead of writing its own type
// switch, dispatching by reply type with one or many handlers per type.
type Router struct {
	handlers map[reflect.Type][]func(any)
}

// NewRouter returns an empty Router.
func NewRouter() *Router {
	return &Router{handlers: make(map[reflect.Type][]func(any))}
}

// Register adds handler for every reply whose dynamic type exactly matches
// a zero value of T.
func Register[T any](r *Router, handler func(reply T)) {
	var zero T
	key := reflect.TypeOf(zero)
	r.handlers[key] = append(r.handlers[key], func(v any) {
		handler(v.(T))
	})
}

// Dispatch runs every handler registered for reply's exact dynamic type. It
// reports whether at least one handler ran.
func (r *Router) Dispatch(reply any) bool {
	handlers := r.handlers[reflect.TypeOf(reply)]
	for _, h := range handlers {
		h(reply)
	}
	return len(handlers) > 0
}
