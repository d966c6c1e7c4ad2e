// Package auth provides authentication handlers for Fiber.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/gofiber/fiber/v2"

	"github.com/chainguardia/chainguardia-backend/database"
	"github.com/chainguardia/chainguardia-backend/model"
)

// SignupRequest is the registration payload
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the login payload
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SetAuthCookie writes the JWT session cookie
func SetAuthCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     "auth_token",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
		Path:     "/",
	})
}

func getUserByUsername(ctx context.Context, db database.DBConnection, username string) (*model.User, error) {
	query := `
		FOR u IN user
			FILTER LOWER(u.username) == LOWER(@username)
			LIMIT 1
			RETURN u
	`
	cursor, err := db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"username": username,
		},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	if !cursor.HasMore() {
		return nil, fmt.Errorf("user %q not found", username)
	}

	var user model.User
	if _, err := cursor.ReadDocument(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Signup handles public user registration
func Signup(db database.DBConnection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req SignupRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
		}

		if req.Username == "" || req.Email == "" || req.Password == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Username, email and password are required"})
		}

		if err := ValidatePasswordStrength(req.Password); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}

		ctx := c.Context()
		if _, err := getUserByUsername(ctx, db, req.Username); err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Username is already in use"})
		}

		hash, err := HashPassword(req.Password)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to create account"})
		}

		user := model.NewUser(req.Username, req.Email)
		user.PasswordHash = hash

		// The unique username index rejects a concurrent signup racing on
		// the same name.
		if _, err := db.Collections["user"].CreateDocument(ctx, user); err != nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Username is already in use"})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":  "Account created",
			"username": user.Username,
		})
	}
}

// Login authenticates a user and issues a JWT session
func Login(db database.DBConnection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
		}

		if req.Username == "" || req.Password == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Username and password are required"})
		}

		ctx := c.Context()
		user, err := getUserByUsername(ctx, db, req.Username)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid credentials"})
		}

		if !user.IsActive {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Account is inactive"})
		}

		if !CheckPasswordHash(req.Password, user.PasswordHash) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid credentials"})
		}

		token, err := GenerateJWT(user.Username)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to generate token"})
		}

		SetAuthCookie(c, token)

		return c.JSON(fiber.Map{
			"message":  "Login successful",
			"token":    token,
			"username": user.Username,
			"email":    user.Email,
		})
	}
}

// Logout clears the auth cookie
func Logout() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Cookie(&fiber.Cookie{
			Name:     "auth_token",
			Value:    "",
			Expires:  time.Now().Add(-1 * time.Hour),
			MaxAge:   -1,
			HTTPOnly: true,
			Secure:   false,
			SameSite: "Lax",
			Path:     "/",
		})
		return c.JSON(fiber.Map{"message": "Logged out successfully"})
	}
}

// Me returns current authenticated user info
func Me(db database.DBConnection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username := UserID(c)

		ctx := c.Context()
		user, err := getUserByUsername(ctx, db, username)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch user profile"})
		}

		return c.JSON(fiber.Map{
			"username":   user.Username,
			"email":      user.Email,
			"created_at": user.CreatedAt,
		})
	}
}
