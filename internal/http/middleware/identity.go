// Package middleware carries the gin middleware shared by every router.
package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"progpath.app/api-server/internal/model"
	"progpath.app/api-server/internal/service"
)

const identityKey = "identity"

// Identity validates the bearer token and stores the caller's identity in the
// request context. Requests without a valid token are rejected before any
// handler runs.
func Identity(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		identity, err := parseToken(token, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		SetIdentity(c, identity)
		c.Next()
	}
}

// RequireTeamlead rejects callers without the teamlead role claim. It must
// run after Identity.
func RequireTeamlead() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok || identity.Role != model.RoleTeamlead {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "teamlead role required"})
			return
		}
		c.Next()
	}
}

// SetIdentity stores the caller's identity on the request context.
func SetIdentity(c *gin.Context, identity service.Identity) {
	c.Set(identityKey, identity)
}

// GetIdentity returns the authenticated caller stored by Identity.
func GetIdentity(c *gin.Context) (service.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return service.Identity{}, false
	}
	identity, ok := v.(service.Identity)
	return identity, ok
}

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func parseToken(token, secret string) (service.Identity, error) {
	var cl claims
	parsed, err := jwt.ParseWithClaims(token, &cl, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(secret), nil
	})
	if err != nil {
		return service.Identity{}, fmt.Errorf("parsing token: %w", err)
	}
	if !parsed.Valid {
		return service.Identity{}, fmt.Errorf("token is not valid")
	}

	userID, err := strconv.ParseInt(cl.Subject, 10, 64)
	if err != nil {
		return service.Identity{}, fmt.Errorf("parsing subject: %w", err)
	}

	return service.Identity{
		UserID: userID,
		Role:   model.Role(cl.Role),
	}, nil
}
