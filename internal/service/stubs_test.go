package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sync"
	"testing"

	"folio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// contentRepoStub is a stub for repository.ContentRepository.
type contentRepoStub[T any] struct {
	listFn    func(context.Context) ([]T, error)
	getByIDFn func(context.Context, uint) (*T, error)
	createFn  func(context.Context, *T) error
	updateFn  func(context.Context, *T) error
	deleteFn  func(context.Context, uint) error
}

func (s *contentRepoStub[T]) List(ctx context.Context) ([]T, error) { return s.listFn(ctx) }
func (s *contentRepoStub[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	return s.getByIDFn(ctx, id)
}
func (s *contentRepoStub[T]) Create(ctx context.Context, item *T) error { return s.createFn(ctx, item) }
func (s *contentRepoStub[T]) Update(ctx context.Context, item *T) error { return s.updateFn(ctx, item) }
func (s *contentRepoStub[T]) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }

func noopContentRepo[T any]() *contentRepoStub[T] {
	return &contentRepoStub[T]{
		listFn:    func(_ context.Context) ([]T, error) { return []T{}, nil },
		getByIDFn: func(_ context.Context, _ uint) (*T, error) { return nil, models.NewNotFoundError("Item") },
		createFn:  func(_ context.Context, _ *T) error { return nil },
		updateFn:  func(_ context.Context, _ *T) error { return nil },
		deleteFn:  func(_ context.Context, _ uint) error { return nil },
	}
}

// blogRepoStub is a stub for repository.BlogRepository.
type blogRepoStub struct {
	*contentRepoStub[models.Blog]
	incrementViewsFn func(context.Context, uint) error
	incrementLikesFn func(context.Context, uint) error
	addCommentFn     func(context.Context, uint, *models.BlogComment) error
	listRelatedFn    func(context.Context, *models.Blog, int) ([]models.Blog, error)
}

func (s *blogRepoStub) IncrementViews(ctx context.Context, id uint) error {
	return s.incrementViewsFn(ctx, id)
}
func (s *blogRepoStub) IncrementLikes(ctx context.Context, id uint) error {
	return s.incrementLikesFn(ctx, id)
}
func (s *blogRepoStub) AddComment(ctx context.Context, id uint, c *models.BlogComment) error {
	return s.addCommentFn(ctx, id, c)
}
func (s *blogRepoStub) ListRelated(ctx context.Context, b *models.Blog, limit int) ([]models.Blog, error) {
	return s.listRelatedFn(ctx, b, limit)
}

func noopBlogRepo() *blogRepoStub {
	return &blogRepoStub{
		contentRepoStub:  noopContentRepo[models.Blog](),
		incrementViewsFn: func(_ context.Context, _ uint) error { return nil },
		incrementLikesFn: func(_ context.Context, _ uint) error { return nil },
		addCommentFn:     func(_ context.Context, _ uint, _ *models.BlogComment) error { return nil },
		listRelatedFn: func(_ context.Context, _ *models.Blog, _ int) ([]models.Blog, error) {
			return []models.Blog{}, nil
		},
	}
}

// fileStoreStub records saves and removals in call order.
type fileStoreStub struct {
	mu      sync.Mutex
	events  []string
	saveErr error
	next    int
}

func (s *fileStoreStub) Save(_ context.Context, in UploadInput) (*StoredFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	s.next++
	p := path.Join(PublicUploadPrefix, DirForField(in.Field), fmt.Sprintf("%s-%d.png", in.Field, s.next))
	s.events = append(s.events, "save "+p)
	return &StoredFile{Path: p, SizeBytes: int64(len(in.Content)), MimeType: in.ContentType}, nil
}

func (s *fileStoreStub) Remove(_ context.Context, p string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, "remove "+p)
	return nil
}

func (s *fileStoreStub) Events() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.events...)
}

// assertCode asserts that err is an AppError with the given code.
func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

// imageIndexStub is a stub for ImageIndex backed by a set of used references.
type imageIndexStub struct {
	used  map[string]bool
	calls []string
}

func (s *imageIndexStub) InUse(_ context.Context, ref string) (bool, error) {
	s.calls = append(s.calls, ref)
	return s.used[ref], nil
}
