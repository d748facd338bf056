package server

import (
	"context"

	"folio/internal/models"
	"folio/internal/service"

	"github.com/gofiber/fiber/v2"
)

// contentAPI is the service surface the generic content routes need.
// *service.ContentService and *service.BlogService both satisfy it.
type contentAPI[T any, P service.ContentPtr[T]] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, item P, upload *service.UploadInput) (*T, error)
	Update(ctx context.Context, id uint, apply func(P) error, upload *service.UploadInput) (*T, error)
	Delete(ctx context.Context, id uint) error
}

// contentHandler serves list, read, create, update and delete for one content type.
type contentHandler[T any, P service.ContentPtr[T]] struct {
	svc contentAPI[T, P]
	// bind copies the fields present in the payload onto the item.
	bind func(p *payload, item P) error
	// fileFields are the multipart fields an image may be sent under.
	fileFields []string
}

func registerContent[T any, P service.ContentPtr[T]](api fiber.Router, protect fiber.Handler, prefix string, h *contentHandler[T, P]) {
	group := api.Group(prefix)
	group.Get("/", h.list)
	group.Get("/:id", h.get)
	group.Post("/", protect, h.create)
	group.Put("/:id", protect, h.update)
	group.Delete("/:id", protect, h.remove)
}

func (h *contentHandler[T, P]) list(c *fiber.Ctx) error {
	items, err := h.svc.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (h *contentHandler[T, P]) get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	item, err := h.svc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(item)
}

func (h *contentHandler[T, P]) create(c *fiber.Ctx) error {
	p, upload, err := h.read(c)
	if err != nil {
		return err
	}

	item := P(new(T))
	if err := h.bind(p, item); err != nil {
		return err
	}

	created, err := h.svc.Create(c.UserContext(), item, upload)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *contentHandler[T, P]) update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	p, upload, err := h.read(c)
	if err != nil {
		return err
	}

	updated, err := h.svc.Update(c.UserContext(), id, func(item P) error {
		return h.bind(p, item)
	}, upload)
	if err != nil {
		return err
	}
	return c.JSON(updated)
}

func (h *contentHandler[T, P]) remove(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": P(new(T)).ResourceName() + " removed"})
}

// read decodes the body and the optional image. Routes without image fields
// reject any file.
func (h *contentHandler[T, P]) read(c *fiber.Ctx) (*payload, *service.UploadInput, error) {
	p, err := readPayload(c)
	if err != nil {
		return nil, nil, err
	}

	if len(h.fileFields) == 0 {
		if err := rejectFiles(c); err != nil {
			return nil, nil, err
		}
		return p, nil, nil
	}

	upload, err := fileUpload(c, h.fileFields...)
	if err != nil {
		return nil, nil, err
	}
	return p, upload, nil
}

func bindProject(p *payload, item *models.Project) error {
	p.setString("title", &item.Title)
	p.setString("description", &item.Description)
	p.setString("category", &item.Category)
	p.setString("liveUrl", &item.LiveURL)
	p.setString("githubUrl", &item.GithubURL)
	p.setString("image", &item.Image)
	if p.Has("tags") {
		p.setList("tags", &item.Tags)
	} else {
		p.setList("technologies", &item.Tags)
	}
	return nil
}

func bindTestimonial(p *payload, item *models.Testimonial) error {
	p.setString("name", &item.Name)
	p.setString("company", &item.Company)
	p.setString("quote", &item.Quote)
	p.setString("image", &item.Image)
	return p.setInt("rating", &item.Rating)
}

// bindBlog leaves the public counters and comments alone; they only change
// through their own routes.
func bindBlog(p *payload, item *models.Blog) error {
	p.setString("title", &item.Title)
	p.setString("content", &item.Content)
	p.setString("author", &item.Author)
	p.setString("image", &item.Image)
	p.setString("category", &item.Category)
	p.setList("tags", &item.Tags)
	p.setBool("featured", &item.Featured)
	p.setBool("trending", &item.Trending)
	return p.setInt("readTime", &item.ReadTime)
}

func bindTimelineItem(p *payload, item *models.TimelineItem) error {
	p.setString("title", &item.Title)
	p.setString("company", &item.Company)
	p.setString("year", &item.Year)
	p.setString("description", &item.Description)
	p.setString("type", &item.Type)
	p.setList("achievements", &item.Achievements)
	return nil
}
