package handlers

import (
	"net/http"
	"strings"

	"github.com/VedantNarayan/champaran-meat-house/internal/access"
	"github.com/VedantNarayan/champaran-meat-house/internal/auth"
	"github.com/VedantNarayan/champaran-meat-house/internal/models"
	"github.com/VedantNarayan/champaran-meat-house/internal/services"
	"github.com/gin-gonic/gin"
)

// Authenticate attaches the principal for a valid bearer token. Requests without one, or with
// a stale one, continue anonymously and are judged by Gate.
func Authenticate(users services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}
		p, err := users.Authenticate(c.Request.Context(), token)
		if err == nil {
			auth.SetPrincipal(c, p)
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if cookie, err := c.Cookie("access_token"); err == nil && cookie != "" {
		return cookie
	}
	// Browsers cannot set headers on websocket upgrades.
	if c.IsWebsocket() {
		return c.Query("token")
	}
	return ""
}

// Gate applies access.Decide to the request path. It runs at the edge for every request and
// again on each restricted route group.
func Gate() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := auth.PrincipalFrom(c)
		role := models.RoleCustomer
		if p != nil {
			role = p.Role
		}

		d := access.Decide(role, p != nil, c.Request.URL.Path)
		if d.Allow {
			c.Next()
			return
		}

		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			if d.Unauthenticated {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Redirect(http.StatusFound, d.Redirect)
		c.Abort()
	}
}

// RequireAuth rejects anonymous callers on routes open to every role.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.PrincipalFrom(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Next()
	}
}
