package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// ErrStaleCache means an update succeeded on the server for an item the
// local collection does not hold. The store refetches when it happens.
var ErrStaleCache = errors.New("stale cache: updated item missing from local collection")

// Item constrains a model pointer that exposes its primary key.
type Item[T any] interface {
	*T
	GetID() uint
}

// API is the remote side of a Store. *Resource and *BlogResource satisfy it.
type API[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, p Payload) (*T, error)
	Update(ctx context.Context, id uint, p Payload) (*T, error)
	Delete(ctx context.Context, id uint) error
}

// State is a point-in-time copy of a store.
type State[T any] struct {
	Items     []T
	IsLoading bool
	IsError   bool
	Message   string
}

// Store keeps a local copy of one content collection in step with the
// server. Every operation moves through pending, then fulfilled or rejected.
// The network call never runs under the lock.
type Store[T any, P Item[T]] struct {
	mu     sync.Mutex
	state  State[T]
	api    API[T]
	logger *slog.Logger
}

// StoreOption customizes a Store.
type StoreOption func(*storeOptions)

type storeOptions struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for cache warnings.
func WithLogger(l *slog.Logger) StoreOption {
	return func(o *storeOptions) {
		o.logger = l
	}
}

// NewStore returns an empty store backed by api.
func NewStore[T any, P Item[T]](api API[T], opts ...StoreOption) *Store[T, P] {
	o := storeOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[T, P]{
		state:  State[T]{Items: []T{}},
		api:    api,
		logger: o.logger,
	}
}

// Snapshot returns a copy of the current state.
func (s *Store[T, P]) Snapshot() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.state
	out.Items = slices.Clone(s.state.Items)
	return out
}

// Reset clears the error flag and message.
func (s *Store[T, P]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsLoading = false
	s.state.IsError = false
	s.state.Message = ""
}

// FetchAll replaces the collection with the server's.
func (s *Store[T, P]) FetchAll(ctx context.Context) error {
	s.pending()
	items, err := s.api.List(ctx)
	if err != nil {
		s.rejected(err)
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Items = items
	s.state.IsLoading = false
	return nil
}

// Create adds exactly one item on success.
func (s *Store[T, P]) Create(ctx context.Context, p Payload) (*T, error) {
	s.pending()
	item, err := s.api.Create(ctx, p)
	if err != nil {
		s.rejected(err)
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Items = append(s.state.Items, *item)
	s.state.IsLoading = false
	return item, nil
}

// Update replaces the item with the same id in place. If the item is not
// held locally the store reports ErrStaleCache and refetches.
func (s *Store[T, P]) Update(ctx context.Context, id uint, p Payload) (*T, error) {
	s.pending()
	item, err := s.api.Update(ctx, id, p)
	if err != nil {
		s.rejected(err)
		return nil, err
	}

	s.mu.Lock()
	replaced := s.replace(*item)
	if replaced {
		s.state.IsLoading = false
	}
	s.mu.Unlock()
	if replaced {
		return item, nil
	}

	s.logger.Warn("updated item missing from local collection, refetching", slog.Uint64("id", uint64(id)))
	stale := fmt.Errorf("%w (id %d)", ErrStaleCache, id)
	if err := s.FetchAll(ctx); err != nil {
		return item, errors.Join(stale, err)
	}
	s.mu.Lock()
	s.state.IsError = true
	s.state.Message = stale.Error()
	s.mu.Unlock()
	return item, stale
}

// Remove deletes exactly one item on success.
func (s *Store[T, P]) Remove(ctx context.Context, id uint) error {
	s.pending()
	if err := s.api.Delete(ctx, id); err != nil {
		s.rejected(err)
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.state.Items = slices.Delete(s.state.Items, i, i+1)
	}
	s.state.IsLoading = false
	return nil
}

func (s *Store[T, P]) pending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsLoading = true
	s.state.IsError = false
	s.state.Message = ""
}

func (s *Store[T, P]) rejected(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsLoading = false
	s.state.IsError = true
	s.state.Message = errorMessage(err)
}

// replace swaps in item by id. Caller holds the lock.
func (s *Store[T, P]) replace(item T) bool {
	i := s.indexOf(P(&item).GetID())
	if i < 0 {
		return false
	}
	s.state.Items[i] = item
	return true
}

// indexOf finds id in the collection. Caller holds the lock.
func (s *Store[T, P]) indexOf(id uint) int {
	return slices.IndexFunc(s.state.Items, func(v T) bool {
		return P(&v).GetID() == id
	})
}

func errorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
