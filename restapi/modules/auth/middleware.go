package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

type contextKey string

// UserKey carries the authenticated user id on a context.Context, used by
// resolvers running outside the Fiber request scope.
const UserKey contextKey = "user_sub"

// VerifyResult is the identity contract consumed by authenticated endpoints
type VerifyResult struct {
	Authorized bool
	Sub        string
	Error      string
}

// Verify checks the request's JWT from the auth cookie or the Authorization
// bearer header and resolves the caller's identity.
func Verify(c *fiber.Ctx) VerifyResult {
	token := c.Cookies("auth_token")
	if token == "" {
		header := c.Get(fiber.HeaderAuthorization)
		if strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimPrefix(header, "Bearer ")
		}
	}
	if token == "" {
		return VerifyResult{Error: "Authentication required"}
	}

	claims, err := ValidateJWT(token)
	if err != nil {
		return VerifyResult{Error: "Invalid or expired session"}
	}

	return VerifyResult{Authorized: true, Sub: claims.Subject}
}

// RequireAuth middleware validates the JWT and blocks guests. Unauthorized
// requests short-circuit to a standardized 401 body before any handler
// logic runs; authorized ones get the user id stored in Locals("user_sub").
func RequireAuth(c *fiber.Ctx) error {
	result := Verify(c)
	if !result.Authorized {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": result.Error,
		})
	}

	c.Locals("user_sub", result.Sub)

	return c.Next()
}

// UserID returns the authenticated caller's id set by RequireAuth
func UserID(c *fiber.Ctx) string {
	sub, _ := c.Locals("user_sub").(string)
	return sub
}
