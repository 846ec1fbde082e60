package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/reflectionapp/reflection/api/internal/domain"
)

// ContextKey type for context keys
type ContextKey string

const (
	// Context keys
	ContextKeyEmail  ContextKey = "email"
	ContextKeyUserID ContextKey = "userID"
	ContextKeyClaims ContextKey = "claims"
)

// TokenValidator validates bearer tokens
type TokenValidator interface {
	ValidateJWT(ctx context.Context, tokenString string) (*domain.JWTClaims, error)
}

// AuthMiddleware handles authentication
type AuthMiddleware struct {
	validator TokenValidator
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(validator TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		validator: validator,
	}
}

// RequireJWT validates JWT authentication and stores the caller's email
func (m *AuthMiddleware) RequireJWT() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "Unauthorized",
				"message": "Authorization header required",
			})
		}

		claims, err := m.validator.ValidateJWT(c.UserContext(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "Unauthorized",
				"message": "Invalid or expired token",
			})
		}

		c.Locals(string(ContextKeyEmail), claims.Email)
		c.Locals(string(ContextKeyUserID), claims.UserID)
		c.Locals(string(ContextKeyClaims), claims)

		return c.Next()
	}
}

// extractBearerToken extracts JWT from Authorization header
func extractBearerToken(c *fiber.Ctx) string {
	auth := c.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

// GetEmail gets the authenticated user's email from context
func GetEmail(c *fiber.Ctx) (string, bool) {
	email, ok := c.Locals(string(ContextKeyEmail)).(string)
	return email, ok && email != ""
}

// GetUserID gets the user ID claim from context
func GetUserID(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals(string(ContextKeyUserID)).(string)
	return userID, ok && userID != ""
}

// GetClaims gets the validated token claims from context
func GetClaims(c *fiber.Ctx) (*domain.JWTClaims, bool) {
	claims, ok := c.Locals(string(ContextKeyClaims)).(*domain.JWTClaims)
	return claims, ok
}
