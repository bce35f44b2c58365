package access

import (
	"testing"

	"github.com/VedantNarayan/champaran-meat-house/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name          string
		role          models.Role
		authenticated bool
		path          string
		want          Decision
	}{
		{"guest on menu", "", false, "/menu", Decision{Allow: true}},
		{"guest on admin page", "", false, "/admin/orders", Decision{Redirect: "/login", Unauthenticated: true}},
		{"guest on driver api", "", false, "/api/driver/orders", Decision{Redirect: "/login", Unauthenticated: true}},
		{"guest on public api", "", false, "/api/menu-items", Decision{Allow: true}},

		{"customer on home", models.RoleCustomer, true, "/", Decision{Allow: true}},
		{"customer on admin", models.RoleCustomer, true, "/admin", Decision{Redirect: "/"}},
		{"customer on driver api", models.RoleCustomer, true, "/api/driver/orders", Decision{Redirect: "/"}},

		{"driver on driver page", models.RoleDriver, true, "/driver/profile", Decision{Allow: true}},
		{"driver on home page", models.RoleDriver, true, "/", Decision{Redirect: "/driver"}},
		{"driver on admin api", models.RoleDriver, true, "/api/admin/orders", Decision{Redirect: "/driver"}},
		{"driver on shared api", models.RoleDriver, true, "/api/orders/abc", Decision{Allow: true}},
		{"driver on asset", models.RoleDriver, true, "/logo.png", Decision{Allow: true}},

		{"admin on dashboard", models.RoleAdmin, true, "/admin/dashboard", Decision{Allow: true}},
		{"admin on cart page", models.RoleAdmin, true, "/cart", Decision{Redirect: "/admin/dashboard"}},
		{"admin on driver page", models.RoleAdmin, true, "/driver", Decision{Redirect: "/admin/dashboard"}},
		{"admin on uploads", models.RoleAdmin, true, "/uploads/a", Decision{Allow: true}},

		{"unknown role treated as customer", "chef", true, "/admin", Decision{Redirect: "/"}},
		{"prefix must end at segment", models.RoleCustomer, true, "/administer", Decision{Allow: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.role, tt.authenticated, tt.path))
		})
	}
}

func TestHome(t *testing.T) {
	assert.Equal(t, "/", Home(models.RoleCustomer))
	assert.Equal(t, "/driver", Home(models.RoleDriver))
	assert.Equal(t, "/admin/dashboard", Home(models.RoleAdmin))
}
