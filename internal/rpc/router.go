package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Router maps method names to handlers. The stdio server and the HTTP
// transport share one router.
type Router struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewRouter() *Router {
	return &Router{handlers: make(map[string]Handler)}
}

func (r *Router) Register(method string, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[method] = handler
}

func (r *Router) Lookup(method string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.handlers[method]
	return handler, ok
}

func (r *Router) Methods() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	methods := make([]string, 0, len(r.handlers))
	for method := range r.handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return methods
}

// Dispatch runs one call synchronously.
func (r *Router) Dispatch(ctx context.Context, method string, params json.RawMessage) (any, *Error) {
	handler, ok := r.Lookup(method)
	if !ok {
		return nil, &Error{Message: fmt.Sprintf("method not found: %s", method)}
	}
	return handler(ctx, params)
}
