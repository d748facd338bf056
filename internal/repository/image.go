package repository

import (
	"context"

	"folio/internal/models"

	"gorm.io/gorm"
)

// ImageRepository looks up stored image references across every content
// table that carries one.
type ImageRepository interface {
	InUse(ctx context.Context, ref string) (bool, error)
}

type imageRepository struct {
	db *gorm.DB
}

// NewImageRepository returns a gorm backed ImageRepository.
func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) InUse(ctx context.Context, ref string) (bool, error) {
	for _, model := range []any{&models.Project{}, &models.Testimonial{}, &models.Blog{}} {
		var count int64
		if err := r.db.WithContext(ctx).Model(model).Where("image = ?", ref).Count(&count).Error; err != nil {
			return false, models.NewInternalError(err)
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}
