package server

import (
	"folio/internal/service"

	"github.com/gofiber/fiber/v2"
)

// MsgSubscribed is the body of a successful subscription.
const MsgSubscribed = "Subscription successful! Please check your email for confirmation."

// SubmitContact handles POST /api/contact
// @Summary Send a contact message
// @Tags contact
// @Accept json
// @Produce json
// @Param request body object{name=string,email=string,subject=string,message=string} true "Contact form"
// @Success 201 {object} models.Contact
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /contact [post]
func (s *Server) SubmitContact(c *fiber.Ctx) error {
	p, err := readPayload(c)
	if err != nil {
		return err
	}

	var in service.ContactInput
	p.setString("name", &in.Name)
	p.setString("email", &in.Email)
	p.setString("subject", &in.Subject)
	p.setString("message", &in.Message)

	contact, err := s.contactService.Submit(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(contact)
}

// ListContacts handles GET /api/contact
// @Summary List contact messages
// @Tags contact
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Contact
// @Router /contact [get]
func (s *Server) ListContacts(c *fiber.Ctx) error {
	contacts, err := s.contactService.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(contacts)
}

// DeleteContact handles DELETE /api/contact/:id
// @Summary Delete a contact message
// @Tags contact
// @Produce json
// @Security BearerAuth
// @Param id path int true "Contact ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /contact/{id} [delete]
func (s *Server) DeleteContact(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := s.contactService.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Message removed"})
}

// Subscribe handles POST /api/subscribe
// @Summary Subscribe to the newsletter
// @Tags contact
// @Accept json
// @Produce json
// @Param request body object{email=string} true "Subscriber"
// @Success 201 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /subscribe [post]
func (s *Server) Subscribe(c *fiber.Ctx) error {
	p, err := readPayload(c)
	if err != nil {
		return err
	}
	email, _ := p.String("email")

	if _, err := s.subscribeService.Subscribe(c.UserContext(), email); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": MsgSubscribed})
}
