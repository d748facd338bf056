package client

import (
	"context"
	"slices"
)

// BlogAPI is the remote side of a BlogStore.
type BlogAPI interface {
	API[Blog]
	Get(ctx context.Context, id uint) (*Blog, error)
	Like(ctx context.Context, id uint) (*Blog, error)
	Comment(ctx context.Context, id uint, author, content string) (*Blog, error)
}

// BlogStore is a Store for blog posts that also tracks the post being read.
type BlogStore struct {
	*Store[Blog, *Blog]
	blogs   BlogAPI
	current *Blog
	related []Blog
}

// NewBlogStore returns an empty BlogStore backed by api.
func NewBlogStore(api BlogAPI, opts ...StoreOption) *BlogStore {
	return &BlogStore{
		Store:   NewStore[Blog, *Blog](api, opts...),
		blogs:   api,
		related: []Blog{},
	}
}

// Current returns a copy of the post last opened, liked or commented on.
func (b *BlogStore) Current() *Blog {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return nil
	}
	out := *b.current
	out.Comments = slices.Clone(b.current.Comments)
	return &out
}

// Related returns the cached posts sharing the current post's category.
func (b *BlogStore) Related() []Blog {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.related)
}

// Get opens a post. The server counts the view, so the returned post and
// its list entry carry the new view count.
func (b *BlogStore) Get(ctx context.Context, id uint) (*Blog, error) {
	b.pending()
	blog, err := b.blogs.Get(ctx, id)
	if err != nil {
		b.rejected(err)
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setCurrent(*blog)
	b.related = b.relatedTo(*blog)
	b.state.IsLoading = false
	return blog, nil
}

// Like adds a like and patches both the current post and the list entry.
func (b *BlogStore) Like(ctx context.Context, id uint) (*Blog, error) {
	b.pending()
	blog, err := b.blogs.Like(ctx, id)
	if err != nil {
		b.rejected(err)
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setCurrent(*blog)
	b.state.IsLoading = false
	return blog, nil
}

// Comment posts a comment and patches both the current post and the list entry.
func (b *BlogStore) Comment(ctx context.Context, id uint, author, content string) (*Blog, error) {
	b.pending()
	blog, err := b.blogs.Comment(ctx, id, author, content)
	if err != nil {
		b.rejected(err)
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setCurrent(*blog)
	b.state.IsLoading = false
	return blog, nil
}

// Remove deletes a post and forgets it if it is the current one.
func (b *BlogStore) Remove(ctx context.Context, id uint) error {
	if err := b.Store.Remove(ctx, id); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current != nil && b.current.ID == id {
		b.current = nil
		b.related = []Blog{}
	}
	return nil
}

// setCurrent stores blog as current and patches its list entry. Caller
// holds the lock.
func (b *BlogStore) setCurrent(blog Blog) {
	b.current = &blog
	b.replace(blog)
}

// relatedTo filters the cached list. Caller holds the lock.
func (b *BlogStore) relatedTo(blog Blog) []Blog {
	out := []Blog{}
	for _, other := range b.state.Items {
		if other.ID != blog.ID && other.Category == blog.Category {
			out = append(out, other)
		}
	}
	return out
}
