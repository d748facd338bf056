package middleware

import (
	"context"
	"log/slog"
	"strings"

	"folio/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Guard failure messages.
const (
	MsgNoToken      = "Not authorized, no token"
	MsgTokenFailed  = "Not authorized, token failed"
	MsgUserNotFound = "User not found"
)

// TokenVerifier resolves a bearer token to an account ID.
type TokenVerifier interface {
	Verify(token string) (uint, error)
}

// AccountLookup loads the account behind a verified token.
type AccountLookup interface {
	GetByID(ctx context.Context, id uint) (*models.Account, error)
}

// Protect rejects requests without a valid bearer token for an existing
// account. On success the account is stored in c.Locals("account") and its
// ID in c.Locals("userID") and the user context.
func Protect(verifier TokenVerifier, accounts AccountLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return models.NewUnauthorizedError(MsgNoToken)
		}

		accountID, err := verifier.Verify(token)
		if err != nil {
			return models.NewUnauthorizedError(MsgTokenFailed)
		}

		account, err := accounts.GetByID(c.UserContext(), accountID)
		if err != nil {
			if models.HasCode(err, models.CodeNotFound) {
				return models.NewUnauthorizedError(MsgUserNotFound)
			}
			return err
		}

		c.Locals("account", account)
		c.Locals("userID", account.ID)
		c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, account.ID))
		return c.Next()
	}
}

// CurrentAccount returns the account attached by Protect, if any.
func CurrentAccount(c *fiber.Ctx) *models.Account {
	account, _ := c.Locals("account").(*models.Account)
	return account
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// ErrorHandler is the single place where returned errors become JSON
// responses. Stack detail is only written when verbose is set.
func ErrorHandler(verbose bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if models.StatusOf(err) >= fiber.StatusInternalServerError {
			Logger.ErrorContext(c.UserContext(), "request error",
				slog.String("path", c.Path()),
				slog.String("error", err.Error()),
			)
		}
		return models.RespondWithError(c, err, verbose)
	}
}
