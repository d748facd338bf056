package server

import (
	"folio/internal/service"

	"github.com/gofiber/fiber/v2"
)

// LikeBlog handles PUT /api/blogs/:id/like
// @Summary Like a blog post
// @Tags blogs
// @Produce json
// @Param id path int true "Blog ID"
// @Success 200 {object} models.Blog
// @Failure 404 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /blogs/{id}/like [put]
func (s *Server) LikeBlog(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	blog, err := s.blogService.Like(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(blog)
}

// AddBlogComment handles POST /api/blogs/:id/comments
// @Summary Comment on a blog post
// @Tags blogs
// @Accept json
// @Produce json
// @Param id path int true "Blog ID"
// @Param request body object{author=string,content=string} true "Comment"
// @Success 201 {object} models.Blog
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /blogs/{id}/comments [post]
func (s *Server) AddBlogComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	p, err := readPayload(c)
	if err != nil {
		return err
	}

	var in service.CommentInput
	p.setString("author", &in.Author)
	p.setString("content", &in.Content)

	blog, err := s.blogService.AddComment(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(blog)
}

// RelatedBlogs handles GET /api/blogs/:id/related
// @Summary Related blog posts
// @Description Up to three other posts from the same category, newest first
// @Tags blogs
// @Produce json
// @Param id path int true "Blog ID"
// @Success 200 {array} models.Blog
// @Failure 404 {object} models.ErrorResponse
// @Router /blogs/{id}/related [get]
func (s *Server) RelatedBlogs(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	related, err := s.blogService.Related(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(related)
}
