package service

import (
	"context"
	"log/slog"
	"strings"

	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/notifications"
	"folio/internal/repository"
)

// RelatedBlogLimit caps the related posts returned for a blog.
const RelatedBlogLimit = 3

// CommentInput is a public comment on a blog post.
type CommentInput struct {
	Author  string
	Content string
}

// BlogService adds counters, comments and related posts to the content flow.
type BlogService struct {
	*ContentService[models.Blog, *models.Blog]
	blogs      repository.BlogRepository
	notifier   notifications.Notifier
	adminEmail string
}

// NewBlogService returns a BlogService. Comment alerts go to adminEmail.
func NewBlogService(blogs repository.BlogRepository, files FileStore, notifier notifications.Notifier, adminEmail string) *BlogService {
	return &BlogService{
		ContentService: NewContentService[models.Blog, *models.Blog](blogs, files),
		blogs:          blogs,
		notifier:       notifier,
		adminEmail:     adminEmail,
	}
}

// Get counts a view and returns the post with the new count.
func (s *BlogService) Get(ctx context.Context, id uint) (*models.Blog, error) {
	if err := s.blogs.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	return s.blogs.GetByID(ctx, id)
}

// Like adds one like and returns the updated post.
func (s *BlogService) Like(ctx context.Context, id uint) (*models.Blog, error) {
	if err := s.blogs.IncrementLikes(ctx, id); err != nil {
		return nil, err
	}
	return s.blogs.GetByID(ctx, id)
}

// AddComment appends a comment and alerts the site owner. The alert is best
// effort; a delivery failure does not fail the comment.
func (s *BlogService) AddComment(ctx context.Context, id uint, in CommentInput) (*models.Blog, error) {
	comment := &models.BlogComment{
		Author:  strings.TrimSpace(in.Author),
		Content: strings.TrimSpace(in.Content),
	}
	if comment.Author == "" || comment.Content == "" {
		return nil, models.NewValidationError("Author and content are required")
	}

	if err := s.blogs.AddComment(ctx, id, comment); err != nil {
		return nil, err
	}

	blog, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notifyComment(ctx, blog, comment)
	return blog, nil
}

func (s *BlogService) notifyComment(ctx context.Context, blog *models.Blog, comment *models.BlogComment) {
	if s.notifier == nil || s.adminEmail == "" {
		return
	}
	msg, err := notifications.CommentAlert(s.adminEmail, blog, comment)
	if err == nil {
		err = s.notifier.Notify(ctx, msg)
	}
	if err != nil {
		middleware.Logger.WarnContext(ctx, "comment notification failed",
			slog.Uint64("blog_id", uint64(blog.ID)),
			slog.String("error", err.Error()),
		)
	}
}

// Related returns up to RelatedBlogLimit other posts from the same category.
// It does not count a view.
func (s *BlogService) Related(ctx context.Context, id uint) ([]models.Blog, error) {
	blog, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.blogs.ListRelated(ctx, blog, RelatedBlogLimit)
}
