package instance

import (
	"reflect"
	"strings"
	"sync"
)

// Handler is an event listener: it receives the args passed to $emit.
type Handler func(args ...any)

type handlerEntry struct {
	fn   Handler
	once bool
	// orig is the handler the caller originally passed to $once, kept
	// so $off can match by the original reference even though the
	// registered fn is a self-removing wrapper (spec.md section 4.8:
	// "comparing both direct and .fn reference for $once support").
	orig Handler
}

func identity(h Handler) uintptr {
	if h == nil {
		return 0
	}
	return reflect.ValueOf(h).Pointer()
}

// EventBus implements $on/$once/$off/$emit: a mapping from event name to
// an ordered list of handlers (spec.md section 4.8).
type EventBus struct {
	mu       sync.Mutex
	handlers map[string][]*handlerEntry
	onError  func(err error, info string)
	warn     func(string)
}

// NewEventBus constructs an empty bus. onError receives panics recovered
// from handler invocation, routed the same way a user watcher's errors
// are (spec.md section 4.8: "each is called ... via an error-trapping
// invoker"). warn receives the development-only mixed-case emit tip (may
// be nil).
func NewEventBus(onError func(err error, info string), warn func(string)) *EventBus {
	return &EventBus{handlers: make(map[string][]*handlerEntry), onError: onError, warn: warn}
}

// On registers handler for name, appending it to the existing list.
func (b *EventBus) On(name string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], &handlerEntry{fn: handler})
}

// Once registers handler for name, wrapped so it removes itself after
// its first invocation.
func (b *EventBus) Once(name string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var entry *handlerEntry
	entry = &handlerEntry{once: true, orig: handler}
	entry.fn = func(args ...any) {
		b.Off(name, handler)
		handler(args...)
	}
	b.handlers[name] = append(b.handlers[name], entry)
}

// Off removes handlers for name. With no arguments it resets every
// listener on the bus; with only a name it clears all handlers for that
// name; with both it removes the one handler matching fn (comparing
// against both the registered function and, for $once entries, the
// original handler).
func (b *EventBus) Off(name string, fn Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if name == "" {
		b.handlers = make(map[string][]*handlerEntry)
		return
	}
	if fn == nil {
		delete(b.handlers, name)
		return
	}
	target := identity(fn)
	existing := b.handlers[name]
	kept := existing[:0:0]
	for _, e := range existing {
		if identity(e.fn) == target || identity(e.orig) == target {
			continue
		}
		kept = append(kept, e)
	}
	b.handlers[name] = kept
}

// OffAll resets every listener on the bus ($off() with no arguments).
func (b *EventBus) OffAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = make(map[string][]*handlerEntry)
}

// Emit snapshots name's handler list and invokes each with args, in
// registration order, trapping panics so one bad handler doesn't break
// the rest (spec.md section 4.8).
func (b *EventBus) Emit(name string, args ...any) {
	b.mu.Lock()
	b.warnCaseIfNeeded(name)
	entries := append([]*handlerEntry(nil), b.handlers[name]...)
	b.mu.Unlock()

	for _, e := range entries {
		b.invoke(name, e.fn, args)
	}
}

func (b *EventBus) invoke(name string, fn Handler, args []any) {
	defer func() {
		if r := recover(); r != nil && b.onError != nil {
			b.onError(toHandlerError(r), "event handler for \""+name+"\"")
		}
	}()
	fn(args...)
}

// warnCaseIfNeeded is a development-only check (spec.md section 4.8: "a
// development-only tip fires when a lower-cased event has handlers but
// is emitted in mixed case"). Called from Emit with b.mu already held.
// HTML attribute binding lower-cases event names, so a mixed-case $emit
// silently misses handlers registered (as they always are, from a
// template) under the lower-cased name.
func (b *EventBus) warnCaseIfNeeded(name string) {
	lower := strings.ToLower(name)
	if lower == name || b.warn == nil {
		return
	}
	if _, ok := b.handlers[lower]; ok {
		b.warn("event \"" + name + "\" emitted in mixed case but handlers are registered under \"" + lower + "\"; HTML attribute binding lower-cases event names")
	}
}

func toHandlerError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return &handlerPanic{r}
}

type handlerPanic struct{ v any }

func (p *handlerPanic) Error() string {
	if s, ok := p.v.(string); ok {
		return s
	}
	return "event handler panic"
}
