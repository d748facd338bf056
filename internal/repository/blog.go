package repository

import (
	"context"

	"folio/internal/models"

	"gorm.io/gorm"
)

const blogResource = "Blog post"

// BlogRepository adds the blog counters and comments to the content contract.
type BlogRepository interface {
	ContentRepository[models.Blog]
	IncrementViews(ctx context.Context, id uint) error
	IncrementLikes(ctx context.Context, id uint) error
	AddComment(ctx context.Context, blogID uint, comment *models.BlogComment) error
	ListRelated(ctx context.Context, blog *models.Blog, limit int) ([]models.Blog, error)
}

type blogRepository struct {
	ContentRepository[models.Blog]
	db *gorm.DB
}

// NewBlogRepository returns a BlogRepository listing newest posts first with
// their comments preloaded oldest first.
func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{
		ContentRepository: NewContentRepository[models.Blog](db, ContentOptions{
			Resource: blogResource,
			Order:    "created_at DESC, id DESC",
			Scope:    withComments,
			BeforeDelete: func(tx *gorm.DB, id uint) error {
				return tx.Where("blog_id = ?", id).Delete(&models.BlogComment{}).Error
			},
		}),
		db: db,
	}
}

func withComments(db *gorm.DB) *gorm.DB {
	return db.Preload("Comments", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("created_at ASC, id ASC")
	})
}

func (r *blogRepository) IncrementViews(ctx context.Context, id uint) error {
	return r.increment(ctx, id, "views")
}

func (r *blogRepository) IncrementLikes(ctx context.Context, id uint) error {
	return r.increment(ctx, id, "likes")
}

// increment bumps a counter in SQL so concurrent requests never lose updates.
func (r *blogRepository) increment(ctx context.Context, id uint, column string) error {
	res := r.db.WithContext(ctx).Model(&models.Blog{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError(blogResource)
	}
	return nil
}

// AddComment stores the comment only if the blog exists.
func (r *blogRepository) AddComment(ctx context.Context, blogID uint, comment *models.BlogComment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Blog{}).Where("id = ?", blogID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		comment.BlogID = blogID
		return tx.Create(comment).Error
	})
	if err != nil {
		return lookupError(err, blogResource)
	}
	return nil
}

func (r *blogRepository) ListRelated(ctx context.Context, blog *models.Blog, limit int) ([]models.Blog, error) {
	if limit <= 0 {
		limit = 3
	}
	related := []models.Blog{}
	err := r.db.WithContext(ctx).
		Where("category = ? AND id <> ?", blog.Category, blog.ID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&related).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return related, nil
}
