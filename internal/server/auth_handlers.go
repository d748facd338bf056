package server

import (
	"log/slog"

	"folio/internal/middleware"
	"folio/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Login handles POST /api/auth/login
// @Summary Admin login
// @Description Authenticate an admin account and return a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Login credentials"
// @Success 200 {object} object{token=string,user=models.Account}
// @Failure 401 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	p, err := readPayload(c)
	if err != nil {
		return models.NewInvalidCredentialsError()
	}
	email, _ := p.String("email")
	password, _ := p.String("password")

	token, account, err := s.authService.Login(c.UserContext(), email, password)
	if err != nil {
		if models.HasCode(err, models.CodeInvalidCredentials) {
			middleware.Logger.WarnContext(c.UserContext(), "failed login attempt",
				slog.String("ip", c.IP()),
			)
		}
		return err
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  account,
	})
}

// Me handles GET /api/auth/me
// @Summary Current account
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Account
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/me [get]
func (s *Server) Me(c *fiber.Ctx) error {
	account := middleware.CurrentAccount(c)
	if account == nil {
		return models.NewUnauthorizedError(middleware.MsgNoToken)
	}
	return c.JSON(account)
}
