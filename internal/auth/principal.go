package auth

import (
	"github.com/VedantNarayan/champaran-meat-house/internal/models"
	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID    string      `json:"id"`
	SessionID string      `json:"-"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
}

func SetPrincipal(c *gin.Context, p *Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the request's principal, or nil for anonymous callers.
func PrincipalFrom(c *gin.Context) *Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*Principal)
	return p
}
