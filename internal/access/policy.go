// Package access decides which principal may reach which route prefix. The edge middleware and
// the per-group guard both call Decide so the rules live in one place.
package access

import (
	"strings"

	"github.com/VedantNarayan/champaran-meat-house/internal/models"
)

const LoginPath = "/login"

// Decision is the outcome for one request.
type Decision struct {
	Allow bool
	// Redirect is where a page request should be sent when Allow is false.
	Redirect string
	// Unauthenticated distinguishes "log in first" from "wrong role".
	Unauthenticated bool
}

// restricted maps a guarded prefix to the only role that may use it.
var restricted = []struct {
	prefix string
	role   models.Role
}{
	{"/api/admin", models.RoleAdmin},
	{"/api/driver", models.RoleDriver},
	{"/admin", models.RoleAdmin},
	{"/driver", models.RoleDriver},
}

// Home returns the landing surface for a role.
func Home(role models.Role) string {
	switch role {
	case models.RoleDriver:
		return "/driver"
	case models.RoleAdmin:
		return "/admin/dashboard"
	default:
		return "/"
	}
}

// Decide applies the routing policy. Drivers and admins are confined to their own surface for
// page routes; system paths (API, static assets, uploads) are exempt from confinement but not
// from the restricted prefixes.
func Decide(role models.Role, authenticated bool, path string) Decision {
	owner, guarded := ownerOf(path)

	if !authenticated {
		if guarded {
			return Decision{Redirect: LoginPath, Unauthenticated: true}
		}
		return Decision{Allow: true}
	}

	if !role.Valid() {
		role = models.RoleCustomer
	}

	if guarded {
		if owner != role {
			return Decision{Redirect: Home(role)}
		}
		return Decision{Allow: true}
	}

	if role != models.RoleCustomer && !IsSystemPath(path) {
		return Decision{Redirect: Home(role)}
	}
	return Decision{Allow: true}
}

// IsSystemPath reports paths that never take part in surface confinement.
func IsSystemPath(path string) bool {
	return strings.HasPrefix(path, "/api") ||
		strings.HasPrefix(path, "/static") ||
		strings.HasPrefix(path, "/uploads") ||
		strings.Contains(path, ".") ||
		path == "/favicon.ico"
}

func ownerOf(path string) (models.Role, bool) {
	for _, r := range restricted {
		if path == r.prefix || strings.HasPrefix(path, r.prefix+"/") {
			return r.role, true
		}
	}
	return "", false
}
