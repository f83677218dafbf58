package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrUnknownCommand is returned when no handler is registered for a name.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrBadArgs is returned when a command's arguments cannot be decoded.
	ErrBadArgs = errors.New("invalid arguments")
)

// Handler executes one command. args is the raw JSON argument object and
// may be empty.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// Registry maps command names to handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// Register adds or replaces the handler for name.
func (r *Registry) Register(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
}

// Get returns the handler registered for name.
func (r *Registry) Get(name string) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return h, nil
}

// Names returns the registered command names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for n := range r.handlers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Dispatch looks up name and runs its handler.
func (r *Registry) Dispatch(ctx context.Context, name string, args json.RawMessage) (any, error) {
	h, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return h(ctx, args)
}

// decodeArgs unmarshals args into v. Missing or null args decode as an
// empty object.
func decodeArgs(args json.RawMessage, v any) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadArgs, err)
	}
	return nil
}
