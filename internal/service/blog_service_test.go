package service

import (
	"context"
	"errors"
	"testing"

	"folio/internal/models"
	"folio/internal/notifications"
	"folio/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlogService_Get_IncrementsViewsBeforeLoad(t *testing.T) {
	t.Parallel()

	views := 0
	repo := noopBlogRepo()
	repo.incrementViewsFn = func(_ context.Context, _ uint) error {
		views++
		return nil
	}
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Blog, error) {
		return &models.Blog{ID: id, Views: views}, nil
	}
	svc := NewBlogService(repo, nil, nil, "")

	first, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	second, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, first.Views)
	assert.Equal(t, 2, second.Views)
}

func TestBlogService_Get_NotFound(t *testing.T) {
	t.Parallel()

	repo := noopBlogRepo()
	repo.incrementViewsFn = func(_ context.Context, _ uint) error {
		return models.NewNotFoundError("Blog post")
	}
	svc := NewBlogService(repo, nil, nil, "")

	_, err := svc.Get(context.Background(), 404)
	assertCode(t, err, models.CodeNotFound)
}

func TestBlogService_Like(t *testing.T) {
	t.Parallel()

	likes := 0
	repo := noopBlogRepo()
	repo.incrementLikesFn = func(_ context.Context, _ uint) error {
		likes++
		return nil
	}
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Blog, error) {
		return &models.Blog{ID: id, Likes: likes}, nil
	}
	svc := NewBlogService(repo, nil, nil, "")

	blog, err := svc.Like(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 1, blog.Likes)
}

func TestBlogService_AddComment(t *testing.T) {
	t.Parallel()

	t.Run("requires author and content", func(t *testing.T) {
		t.Parallel()
		svc := NewBlogService(noopBlogRepo(), nil, nil, "")
		_, err := svc.AddComment(context.Background(), 1, CommentInput{Author: " ", Content: "hi"})
		assertCode(t, err, models.CodeValidation)
	})

	t.Run("missing blog persists nothing", func(t *testing.T) {
		t.Parallel()
		repo := noopBlogRepo()
		repo.addCommentFn = func(_ context.Context, _ uint, _ *models.BlogComment) error {
			return models.NewNotFoundError("Blog post")
		}
		notifier := &testutil.NotifierStub{}
		svc := NewBlogService(repo, nil, notifier, "owner@example.com")

		_, err := svc.AddComment(context.Background(), 1, CommentInput{Author: "Ada", Content: "hi"})
		assertCode(t, err, models.CodeNotFound)
		assert.Empty(t, notifier.Messages())
	})

	t.Run("notifies owner", func(t *testing.T) {
		t.Parallel()
		var comments []models.BlogComment
		repo := noopBlogRepo()
		repo.addCommentFn = func(_ context.Context, id uint, c *models.BlogComment) error {
			c.BlogID = id
			comments = append(comments, *c)
			return nil
		}
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Blog, error) {
			return &models.Blog{ID: id, Title: "Hello", Comments: comments}, nil
		}
		notifier := &testutil.NotifierStub{}
		svc := NewBlogService(repo, nil, notifier, "owner@example.com")

		blog, err := svc.AddComment(context.Background(), 4, CommentInput{Author: "Ada", Content: "Nice"})
		require.NoError(t, err)
		require.Len(t, blog.Comments, 1)
		assert.Equal(t, "Ada", blog.Comments[0].Author)

		sent := notifier.Messages()
		require.Len(t, sent, 1)
		assert.Equal(t, "owner@example.com", sent[0].To)
		assert.Equal(t, notifications.KindComment, sent[0].Kind)
	})

	t.Run("delivery failure is swallowed", func(t *testing.T) {
		t.Parallel()
		repo := noopBlogRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Blog, error) {
			return &models.Blog{ID: id, Title: "Hello"}, nil
		}
		notifier := &testutil.NotifierStub{Err: errors.New("smtp down")}
		svc := NewBlogService(repo, nil, notifier, "owner@example.com")

		blog, err := svc.AddComment(context.Background(), 4, CommentInput{Author: "Ada", Content: "Nice"})
		require.NoError(t, err)
		assert.Equal(t, uint(4), blog.ID)
	})
}

func TestBlogService_Related(t *testing.T) {
	t.Parallel()

	repo := noopBlogRepo()
	repo.incrementViewsFn = func(_ context.Context, _ uint) error {
		t.Fatal("related must not count a view")
		return nil
	}
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Blog, error) {
		return &models.Blog{ID: id, Category: "go"}, nil
	}
	var gotLimit int
	repo.listRelatedFn = func(_ context.Context, b *models.Blog, limit int) ([]models.Blog, error) {
		gotLimit = limit
		assert.Equal(t, "go", b.Category)
		return []models.Blog{{ID: 2, Category: "go"}}, nil
	}
	svc := NewBlogService(repo, nil, nil, "")

	related, err := svc.Related(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, related, 1)
	assert.Equal(t, RelatedBlogLimit, gotLimit)
}
