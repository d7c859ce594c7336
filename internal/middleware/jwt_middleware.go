package middleware

import (
	"log"
	"strings"

	"laundrypoint/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Principal is the authenticated identity attached to a request once its
// session token has been verified.
type Principal struct {
	UserID string
	Email  string
}

const principalKey = "principal"

// PrincipalFrom returns the authenticated identity for the request. The
// second return is false on routes outside the auth gate.
func PrincipalFrom(c *fiber.Ctx) (Principal, bool) {
	principal, ok := c.Locals(principalKey).(Principal)
	return principal, ok
}

// AuthRequired is a Fiber middleware that gates order, payment, profile,
// and location routes behind a valid session token. On success the
// verified identity is available through PrincipalFrom.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get("Authorization"))
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		userID, _ := claims["user_id"].(string)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Token carries no user identity",
			})
		}
		email, _ := claims["email"].(string)
		c.Locals(principalKey, Principal{UserID: userID, Email: email})

		return c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
