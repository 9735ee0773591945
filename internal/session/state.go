package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bilgisen/spacecards/internal/logger"
	"github.com/bilgisen/spacecards/internal/utils"
)

// Scroll keys for the two feeds
const (
	FeedScrollKey = "feedScrollIndex"
	MixScrollKey  = "mixScrollIndex"
)

// VisibilityThreshold is the visible fraction at which an item counts as in view
const VisibilityThreshold = 0.5

var (
	ErrClosed       = errors.New("session state is closed")
	ErrInvalidIndex = errors.New("index must be non-negative")
)

// Store persists scroll indexes for the lifetime of a session
type Store interface {
	Load(ctx context.Context, key string) (index int, ok bool, err error)
	Save(ctx context.Context, key string, index int) error
}

// Key namespaces a scroll key under a session id
func Key(sessionID, scrollKey string) string {
	return utils.ShortHash(sessionID, 16) + ":" + scrollKey
}

// State tracks the item currently centered in a feed's viewport
type State struct {
	mu       sync.Mutex
	store    Store
	key      string
	index    int
	loaded   bool
	restored bool
	closed   bool
}

// NewState seeds the index from store. A missing or unreadable value starts at zero.
func NewState(ctx context.Context, store Store, key string) *State {
	s := &State{store: store, key: key}

	index, ok, err := store.Load(ctx, key)
	switch {
	case err != nil:
		logger.Warn().Err(err).Str("key", key).Msg("Failed to load scroll index")
	case ok && index > 0:
		s.index = index
	}
	return s
}

// Index returns the current index
func (s *State) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// EnterViewport handles a visibility signal for the item at index. It
// reports whether the current index changed. Changes are saved at once.
func (s *State) EnterViewport(ctx context.Context, index int, visibleFraction float64) (bool, error) {
	if index < 0 {
		return false, ErrInvalidIndex
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrClosed
	}
	if visibleFraction < VisibilityThreshold || index == s.index {
		return false, nil
	}

	s.index = index
	if err := s.store.Save(ctx, s.key, index); err != nil {
		return true, fmt.Errorf("save scroll index: %w", err)
	}
	return true, nil
}

// RestoreOffset returns the scroll position for the restored index, once,
// after content has loaded. It reports false when there is nothing to restore.
func (s *State) RestoreOffset(viewportHeight int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded || s.restored || s.closed || s.index == 0 || viewportHeight <= 0 {
		return 0, false
	}
	s.restored = true
	return s.index * viewportHeight, true
}

// Close saves the final index and rejects further signals. Calling it
// again is a no-op.
func (s *State) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.store.Save(ctx, s.key, s.index); err != nil {
		return fmt.Errorf("save scroll index on close: %w", err)
	}
	return nil
}

// Closed reports whether the owning view has been torn down
func (s *State) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *State) markLoaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.loaded = true
	return true
}
