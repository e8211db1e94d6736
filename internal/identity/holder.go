// Package identity tracks which authenticated user, if any, a search session
// belongs to and tells subscribers when that changes.
package identity

import (
	"context"
	"sync"

	"github.com/nguyentranbao-ct/shopping-search/internal/models"
)

// Listener receives the new identity, or nil after sign-out.
type Listener func(ctx context.Context, id *models.Identity)

type Holder struct {
	mu        sync.RWMutex
	current   *models.Identity
	listeners map[int]Listener
	nextID    int
}

func NewHolder(initial *models.Identity) *Holder {
	h := &Holder{listeners: make(map[int]Listener)}
	if initial != nil {
		id := *initial
		h.current = &id
	}
	return h
}

func (h *Holder) CurrentUser() *models.Identity {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.current == nil {
		return nil
	}
	id := *h.current
	return &id
}

// SignIn notifies listeners only when the user actually changes.
func (h *Holder) SignIn(ctx context.Context, id models.Identity) {
	h.mu.Lock()
	changed := h.current == nil || h.current.UserID != id.UserID
	h.current = &id
	h.mu.Unlock()

	if changed {
		h.notify(ctx, &id)
	}
}

func (h *Holder) SignOut(ctx context.Context) {
	h.mu.Lock()
	changed := h.current != nil
	h.current = nil
	h.mu.Unlock()

	if changed {
		h.notify(ctx, nil)
	}
}

func (h *Holder) Subscribe(fn Listener) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
	}
}

func (h *Holder) notify(ctx context.Context, id *models.Identity) {
	h.mu.RLock()
	listeners := make([]Listener, 0, len(h.listeners))
	for _, l := range h.listeners {
		listeners = append(listeners, l)
	}
	h.mu.RUnlock()

	for _, l := range listeners {
		var arg *models.Identity
		if id != nil {
			cp := *id
			arg = &cp
		}
		l(ctx, arg)
	}
}
