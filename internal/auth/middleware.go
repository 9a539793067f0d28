package auth

import (
	"context"
	"log"
	"net/http"
	"strings"

	"contesto/internal/apperr"
	"contesto/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	contextKeyEmail = "user_email"
	contextKeyUID   = "user_uid"
	contextKeyRole  = "user_role"
)

// Identity is the verified caller behind a bearer token
type Identity struct {
	UID   string
	Email string
}

// Verifier validates bearer tokens issued by the identity provider
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// RoleLookup resolves the stored role of a user by email
type RoleLookup interface {
	RoleOf(ctx context.Context, email string) (models.Role, error)
}

func unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"error": "unauthorized access",
	})
	c.Abort()
}

// AuthMiddleware verifies the bearer token and stores the caller identity
func AuthMiddleware(verifier Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c)
			return
		}

		// Extract token from "Bearer <token>" format
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			unauthorized(c)
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			log.Printf("[Auth] token verification failed: %v", err)
			unauthorized(c)
			return
		}

		c.Set(contextKeyEmail, identity.Email)
		c.Set(contextKeyUID, identity.UID)

		c.Next()
	}
}

// RequireRole allows the request only when the caller's stored role is one of roles
func RequireRole(lookup RoleLookup, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := GetEmail(c)
		if !ok {
			unauthorized(c)
			return
		}

		role, err := lookup.RoleOf(c.Request.Context(), email)
		if err != nil && !apperr.Is(err, apperr.KindNotFound) {
			log.Printf("[Auth] role lookup failed for %s: %v", email, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "internal server error",
			})
			c.Abort()
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Set(contextKeyRole, role)
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"error": "forbidden access",
		})
		c.Abort()
	}
}

// GetEmail retrieves the verified caller email from the context
func GetEmail(c *gin.Context) (string, bool) {
	value, exists := c.Get(contextKeyEmail)
	if !exists {
		return "", false
	}

	email, ok := value.(string)
	return email, ok && email != ""
}

// GetUID retrieves the identity provider subject from the context
func GetUID(c *gin.Context) (string, bool) {
	value, exists := c.Get(contextKeyUID)
	if !exists {
		return "", false
	}

	uid, ok := value.(string)
	return uid, ok
}

// GetRole retrieves the role resolved by RequireRole
func GetRole(c *gin.Context) (models.Role, bool) {
	value, exists := c.Get(contextKeyRole)
	if !exists {
		return "", false
	}

	role, ok := value.(models.Role)
	return role, ok
}
