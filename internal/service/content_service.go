package service

import (
	"context"
	"log/slog"

	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/observability"
	"folio/internal/repository"
)

// ContentPtr constrains P to a pointer to T implementing models.ContentItem.
type ContentPtr[T any] interface {
	*T
	models.ContentItem
}

// Messages for image references sent as text instead of a file.
const (
	MsgImageNotUploaded = "Image must reference an uploaded file"
	MsgImageInUse       = "Image is already used by another item"
)

// ImageIndex reports whether a stored file is referenced by any record.
type ImageIndex interface {
	InUse(ctx context.Context, ref string) (bool, error)
}

// ContentService implements the admin CRUD flow shared by all content types.
// Image handling follows one rule: a new file is stored before the record
// references it, and an old file is removed only after the record no longer does.
type ContentService[T any, P ContentPtr[T]] struct {
	repo   repository.ContentRepository[T]
	files  FileStore
	images ImageIndex
}

// NewContentService returns a ContentService. files may be nil for types
// without images.
func NewContentService[T any, P ContentPtr[T]](repo repository.ContentRepository[T], files FileStore) *ContentService[T, P] {
	return &ContentService[T, P]{repo: repo, files: files}
}

// UseImageIndex turns on the check that an image reference sent as text is
// not already owned by another record. Deleting either record would
// otherwise remove the file under the other.
func (s *ContentService[T, P]) UseImageIndex(idx ImageIndex) {
	s.images = idx
}

func resourceOf[T any, P ContentPtr[T]]() string {
	return P(new(T)).ResourceName()
}

func (s *ContentService[T, P]) List(ctx context.Context) ([]T, error) {
	return s.repo.List(ctx)
}

func (s *ContentService[T, P]) Get(ctx context.Context, id uint) (*T, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates item, stores the optional upload and persists the record.
func (s *ContentService[T, P]) Create(ctx context.Context, item P, upload *UploadInput) (*T, error) {
	item.ApplyDefaults()
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if item.ImageRequired() && item.ImageRef() == "" && upload == nil {
		return nil, models.NewValidationError("Image is required")
	}
	if upload == nil {
		if err := s.checkImageRef(ctx, item.ImageRef()); err != nil {
			return nil, err
		}
	}

	stored, err := s.store(ctx, upload)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		item.SetImageRef(stored.Path)
	}

	if err := s.repo.Create(ctx, (*T)(item)); err != nil {
		s.discard(ctx, stored)
		return nil, err
	}
	observability.ContentWritesTotal.WithLabelValues(item.ResourceName(), "create").Inc()
	return (*T)(item), nil
}

// Update loads the record, applies the partial change and saves it. Fields
// apply does not touch keep their stored values.
func (s *ContentService[T, P]) Update(ctx context.Context, id uint, apply func(P) error, upload *UploadInput) (*T, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	item := P(current)
	oldRef := item.ImageRef()

	if apply != nil {
		if err := apply(item); err != nil {
			return nil, err
		}
	}
	item.ApplyDefaults()
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if item.ImageRequired() && item.ImageRef() == "" && upload == nil {
		return nil, models.NewValidationError("Image is required")
	}
	if upload == nil && item.ImageRef() != oldRef {
		if err := s.checkImageRef(ctx, item.ImageRef()); err != nil {
			return nil, err
		}
	}

	stored, err := s.store(ctx, upload)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		item.SetImageRef(stored.Path)
	}

	if err := s.repo.Update(ctx, current); err != nil {
		s.discard(ctx, stored)
		return nil, err
	}
	observability.ContentWritesTotal.WithLabelValues(item.ResourceName(), "update").Inc()

	if oldRef != "" && oldRef != item.ImageRef() {
		s.removeFile(ctx, oldRef)
	}
	return current, nil
}

// Delete removes the record and then its stored file.
func (s *ContentService[T, P]) Delete(ctx context.Context, id uint) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	observability.ContentWritesTotal.WithLabelValues(resourceOf[T, P](), "delete").Inc()

	if ref := P(current).ImageRef(); ref != "" {
		s.removeFile(ctx, ref)
	}
	return nil
}

func (s *ContentService[T, P]) store(ctx context.Context, upload *UploadInput) (*StoredFile, error) {
	if upload == nil {
		return nil, nil
	}
	if s.files == nil {
		return nil, models.NewValidationError("Unexpected field name for file upload.")
	}
	return s.files.Save(ctx, *upload)
}

// checkImageRef accepts an empty reference or a path to an uploaded file
// that no record uses yet.
func (s *ContentService[T, P]) checkImageRef(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	if !IsUploadRef(ref) {
		return models.NewValidationError(MsgImageNotUploaded)
	}
	if s.images == nil {
		return nil
	}
	inUse, err := s.images.InUse(ctx, ref)
	if err != nil {
		return err
	}
	if inUse {
		return models.NewValidationError(MsgImageInUse)
	}
	return nil
}

// discard removes a file stored for a write that did not commit.
func (s *ContentService[T, P]) discard(ctx context.Context, stored *StoredFile) {
	if stored != nil {
		s.removeFile(ctx, stored.Path)
	}
}

// removeFile never fails the request; an orphaned file is only logged.
func (s *ContentService[T, P]) removeFile(ctx context.Context, ref string) {
	if s.files == nil {
		return
	}
	if err := s.files.Remove(ctx, ref); err != nil {
		middleware.Logger.WarnContext(ctx, "stored file left behind",
			slog.String("resource", resourceOf[T, P]()),
			slog.String("path", ref),
			slog.String("error", err.Error()),
		)
	}
}

// ProjectService manages portfolio projects.
type ProjectService = ContentService[models.Project, *models.Project]

// TestimonialService manages testimonials.
type TestimonialService = ContentService[models.Testimonial, *models.Testimonial]

// TimelineService manages timeline entries.
type TimelineService = ContentService[models.TimelineItem, *models.TimelineItem]

// NewProjectService returns the project service.
func NewProjectService(repo repository.ContentRepository[models.Project], files FileStore) *ProjectService {
	return NewContentService[models.Project, *models.Project](repo, files)
}

// NewTestimonialService returns the testimonial service.
func NewTestimonialService(repo repository.ContentRepository[models.Testimonial], files FileStore) *TestimonialService {
	return NewContentService[models.Testimonial, *models.Testimonial](repo, files)
}

// NewTimelineService returns the timeline service. Timeline entries have no image.
func NewTimelineService(repo repository.ContentRepository[models.TimelineItem]) *TimelineService {
	return NewContentService[models.TimelineItem, *models.TimelineItem](repo, nil)
}
