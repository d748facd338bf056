package repository

import (
	"context"

	"folio/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContentRepository is the CRUD contract shared by every portfolio content type.
type ContentRepository[T any] interface {
	List(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id uint) error
}

// ContentOptions holds the per-type differences of a content repository.
type ContentOptions struct {
	// Resource names the type in NotFound messages.
	Resource string
	// Order is the list ordering; insertion order when empty.
	Order string
	// Scope is applied to every read, e.g. to preload associations.
	Scope func(*gorm.DB) *gorm.DB
	// BeforeDelete runs in the delete transaction before the row is removed.
	BeforeDelete func(tx *gorm.DB, id uint) error
}

type contentRepository[T any] struct {
	db   *gorm.DB
	opts ContentOptions
}

// NewContentRepository returns a gorm backed ContentRepository for T.
func NewContentRepository[T any](db *gorm.DB, opts ContentOptions) ContentRepository[T] {
	if opts.Order == "" {
		opts.Order = "id ASC"
	}
	if opts.Resource == "" {
		opts.Resource = "Item"
	}
	return &contentRepository[T]{db: db, opts: opts}
}

func (r *contentRepository[T]) read(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	if r.opts.Scope != nil {
		q = r.opts.Scope(q)
	}
	return q
}

func (r *contentRepository[T]) List(ctx context.Context) ([]T, error) {
	items := []T{}
	if err := r.read(ctx).Order(r.opts.Order).Find(&items).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return items, nil
}

func (r *contentRepository[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	var item T
	if err := r.read(ctx).First(&item, id).Error; err != nil {
		return nil, lookupError(err, r.opts.Resource)
	}
	return &item, nil
}

func (r *contentRepository[T]) Create(ctx context.Context, item *T) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *contentRepository[T]) Update(ctx context.Context, item *T) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(item).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *contentRepository[T]) Delete(ctx context.Context, id uint) error {
	remove := func(tx *gorm.DB) error {
		if r.opts.BeforeDelete != nil {
			if err := r.opts.BeforeDelete(tx, id); err != nil {
				return err
			}
		}
		res := tx.Delete(new(T), id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}

	var err error
	if r.opts.BeforeDelete != nil {
		err = r.db.WithContext(ctx).Transaction(remove)
	} else {
		err = remove(r.db.WithContext(ctx))
	}
	if err != nil {
		return lookupError(err, r.opts.Resource)
	}
	return nil
}

// NewProjectRepository returns the repository for projects.
func NewProjectRepository(db *gorm.DB) ContentRepository[models.Project] {
	return NewContentRepository[models.Project](db, ContentOptions{Resource: "Project"})
}

// NewTestimonialRepository returns the repository for testimonials.
func NewTestimonialRepository(db *gorm.DB) ContentRepository[models.Testimonial] {
	return NewContentRepository[models.Testimonial](db, ContentOptions{Resource: "Testimonial"})
}

// NewTimelineRepository returns the repository for timeline items.
func NewTimelineRepository(db *gorm.DB) ContentRepository[models.TimelineItem] {
	return NewContentRepository[models.TimelineItem](db, ContentOptions{Resource: "Timeline item"})
}
