package session

import (
	"context"
	"sync"
)

// View is a feed view: its items plus the scroll state that belongs to it.
type View[T any] struct {
	state *State
	mu    sync.Mutex
	items []T
}

func NewView[T any](state *State) *View[T] {
	return &View[T]{state: state}
}

// Load runs fetch and keeps its result. When the view was closed while the
// fetch was in flight the result is dropped and Load returns false.
func (v *View[T]) Load(ctx context.Context, fetch func(context.Context) []T) bool {
	items := fetch(ctx)
	if !v.state.markLoaded() {
		return false
	}

	v.mu.Lock()
	v.items = items
	v.mu.Unlock()
	return true
}

func (v *View[T]) Items() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.items
}

func (v *View[T]) State() *State {
	return v.state
}

// RestoreOffset is State.RestoreOffset with the index clamped to the last
// loaded item, so a shrunken feed never scrolls past its end.
func (v *View[T]) RestoreOffset(viewportHeight int) (int, bool) {
	offset, ok := v.state.RestoreOffset(viewportHeight)
	if !ok {
		return 0, false
	}

	n := len(v.Items())
	if n == 0 {
		return 0, false
	}
	if last := (n - 1) * viewportHeight; offset > last {
		offset = last
	}
	return offset, offset > 0
}

func (v *View[T]) Close(ctx context.Context) error {
	return v.state.Close(ctx)
}
