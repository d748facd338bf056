package server

import (
	"folio/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Upload handles POST /api/upload
// @Summary Upload an image
// @Description Stores one image; the field name selects the directory
// @Tags uploads
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image"
// @Success 201 {object} object{path=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /upload [post]
func (s *Server) Upload(c *fiber.Ctx) error {
	upload, err := fileUpload(c)
	if err != nil {
		return err
	}
	if upload == nil {
		return models.NewValidationError("No file uploaded")
	}

	stored, err := s.uploadService.Save(c.UserContext(), *upload)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"path": stored.Path})
}
