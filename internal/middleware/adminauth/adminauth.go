// Package adminauth guards the admin routes with session tokens issued
// by the authenticator after OTP verification.
package adminauth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/campus-helpdesk/backend/internal/auth"
	"github.com/campus-helpdesk/backend/pkg/logger"
)

// SessionKey is the fiber locals key holding the resolved auth.Session.
const SessionKey = "admin_session"

// Middleware rejects requests without a valid session token. The token
// is read from the Authorization header as a bearer token.
func Middleware(authenticator *auth.Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		session, found, err := authenticator.Validate(c.Context(), token)
		if err != nil {
			logger.Error("Failed to validate admin session", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to validate session",
			})
		}
		if !found {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Session expired. Please login again.",
			})
		}

		c.Locals(SessionKey, session)
		return c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
