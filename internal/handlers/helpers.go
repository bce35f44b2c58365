package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/VedantNarayan/champaran-meat-house/internal/auth"
	"github.com/VedantNarayan/champaran-meat-house/internal/lifecycle"
	"github.com/gin-gonic/gin"
)

const (
	CartHeader     = "X-Cart-ID"
	userCartPrefix = "user:"
)

func actorFrom(c *gin.Context) lifecycle.Actor {
	p := auth.PrincipalFrom(c)
	return lifecycle.Actor{ID: p.UserID, Role: p.Role}
}

// cartID identifies the caller's cart. Signed-in callers always use their own user cart; the
// X-Cart-ID header only names guest carts and may not claim the user: namespace.
func cartID(c *gin.Context) (string, bool) {
	if p := auth.PrincipalFrom(c); p != nil {
		return userCartPrefix + p.UserID, true
	}
	id := c.GetHeader(CartHeader)
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": CartHeader + " header is required"})
		return "", false
	}
	if strings.HasPrefix(id, userCartPrefix) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + CartHeader})
		return "", false
	}
	return id, true
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(v), true
}
