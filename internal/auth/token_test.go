package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/VedantNarayan/champaran-meat-house/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	token, exp, err := m.Issue("user-1", "sess-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "sess-1", claims.SessionID)
}

func TestParse_Rejects(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	token, _, err := m.Issue("user-1", "sess-1")
	require.NoError(t, err)

	_, err = NewTokenManager("other", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenManager("secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, _, err := expired.Issue("user-1", "sess-1")
	require.NoError(t, err)
	_, err = m.Parse(old)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPrincipalContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, PrincipalFrom(c))

	SetPrincipal(c, &Principal{UserID: "u1", Role: models.RoleDriver})
	p := PrincipalFrom(c)
	require.NotNil(t, p)
	assert.Equal(t, models.RoleDriver, p.Role)
}
