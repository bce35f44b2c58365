package services

import (
	"context"
	"testing"
	"time"

	"github.com/VedantNarayan/champaran-meat-house/internal/auth"
	"github.com/VedantNarayan/champaran-meat-house/internal/logger"
	"github.com/VedantNarayan/champaran-meat-house/internal/models"
	"github.com/VedantNarayan/champaran-meat-house/internal/redis"
	"github.com/VedantNarayan/champaran-meat-house/internal/repository"
	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserFixture(t *testing.T) (UserService, *fakeProfileRepo, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	store := redis.New(rdb, time.Hour)
	repo := newFakeProfileRepo()
	svc := NewUserService(repo, store, auth.NewTokenManager("secret", time.Hour), time.Hour, time.Minute, logger.Nop())
	return svc, repo, store
}

func TestSignUpSignInAuthenticate(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	ctx := context.Background()

	profile, err := svc.SignUp(ctx, SignUpInput{Email: "Asha@Example.com", Password: "secret1", FullName: "Asha"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, profile.Role)
	assert.Equal(t, "asha@example.com", profile.Email)
	assert.NotEqual(t, "secret1", profile.PasswordHash)

	_, err = svc.SignUp(ctx, SignUpInput{Email: "asha@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.SignIn(ctx, "asha@example.com", "wrong", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	session, err := svc.SignIn(ctx, "asha@example.com", "secret1", "")
	require.NoError(t, err)

	p, err := svc.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, p.UserID)
	assert.Equal(t, models.RoleCustomer, p.Role)

	require.NoError(t, svc.SignOut(ctx, p))
	_, err = svc.Authenticate(ctx, session.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestSetRoleInvalidatesCachedRole(t *testing.T) {
	svc, _, store := newUserFixture(t)
	ctx := context.Background()

	profile, err := svc.SignUp(ctx, SignUpInput{Email: "d@example.com", Password: "secret1", FullName: "D"})
	require.NoError(t, err)
	session, err := svc.SignIn(ctx, "d@example.com", "secret1", "")
	require.NoError(t, err)

	p, err := svc.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, p.Role)
	cached, err := store.GetRole(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "customer", cached)

	_, err = svc.SetRole(ctx, profile.ID, models.RoleDriver)
	require.NoError(t, err)

	p, err = svc.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleDriver, p.Role)

	_, err = svc.SetRole(ctx, profile.ID, models.Role("chef"))
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestCreateDriver(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	driver, err := svc.CreateDriver(context.Background(), SignUpInput{Email: "r@example.com", Password: "secret1", FullName: "Ravi", PhoneNumber: "9876543210"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleDriver, driver.Role)

	_, err = svc.CreateDriver(context.Background(), SignUpInput{Email: "x@example.com", Password: "123", FullName: "X"})
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestPasswordReset(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, SignUpInput{Email: "a@example.com", Password: "secret1", FullName: "A"})
	require.NoError(t, err)

	token, err := svc.RequestPasswordReset(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, token)

	token, err = svc.RequestPasswordReset(ctx, "a@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, svc.ResetPassword(ctx, token, "newsecret"))
	assert.ErrorIs(t, svc.ResetPassword(ctx, token, "another1"), ErrInvalidResetToken)

	_, err = svc.SignIn(ctx, "a@example.com", "secret1", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	session, err := svc.SignIn(ctx, "a@example.com", "newsecret", "")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(ctx, session.Profile.ID, "wrong", "third11"), ErrInvalidCredentials)
	require.NoError(t, svc.ChangePassword(ctx, session.Profile.ID, "newsecret", "third11"))
}

func strPtr(s string) *string { return &s }

func TestUpdateProfile(t *testing.T) {
	svc, repo, _ := newUserFixture(t)
	ctx := context.Background()

	profile, err := svc.SignUp(ctx, SignUpInput{Email: "m@example.com", Password: "secret1", FullName: "Meera", PhoneNumber: "111"})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, profile.ID, ProfileUpdate{
		FullName:  strPtr("  Meera K "),
		AvatarURL: strPtr("http://localhost/uploads/avatars/m.png"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Meera K", updated.FullName)
	assert.Equal(t, "111", updated.PhoneNumber)
	assert.Equal(t, "http://localhost/uploads/avatars/m.png", updated.AvatarURL)

	stored, err := repo.GetByID(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "Meera K", stored.FullName)
	assert.Equal(t, models.RoleCustomer, stored.Role)
	assert.Equal(t, profile.PasswordHash, stored.PasswordHash)

	_, err = svc.UpdateProfile(ctx, profile.ID, ProfileUpdate{PhoneNumber: strPtr("222")})
	require.NoError(t, err)
	stored, err = repo.GetByID(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "222", stored.PhoneNumber)
	assert.Equal(t, "Meera K", stored.FullName)

	_, err = svc.UpdateProfile(ctx, profile.ID, ProfileUpdate{FullName: strPtr("   ")})
	assert.ErrorIs(t, err, ErrInvalidProfile)

	_, err = svc.UpdateProfile(ctx, "missing", ProfileUpdate{FullName: strPtr("X")})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMFAEnrollmentGatesSignIn(t *testing.T) {
	svc, repo, _ := newUserFixture(t)
	ctx := context.Background()

	profile, err := svc.SignUp(ctx, SignUpInput{Email: "admin@example.com", Password: "secret1", FullName: "Admin"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ConfirmMFA(ctx, profile.ID, "123456"), ErrMFANotEnrolled)

	enrollment, err := svc.EnrollMFA(ctx, profile.ID)
	require.NoError(t, err)
	require.NotEmpty(t, enrollment.Secret)
	assert.Contains(t, enrollment.URL, "otpauth://totp/")

	// Pending enrollment does not affect sign in.
	_, err = svc.SignIn(ctx, "admin@example.com", "secret1", "")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ConfirmMFA(ctx, profile.ID, "12345"), ErrInvalidMFACode)

	code, err := totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.ConfirmMFA(ctx, profile.ID, code))

	stored, err := repo.GetByID(ctx, profile.ID)
	require.NoError(t, err)
	assert.True(t, stored.MFAEnabled)
	assert.Equal(t, enrollment.Secret, stored.MFASecret)

	_, err = svc.SignIn(ctx, "admin@example.com", "secret1", "")
	assert.ErrorIs(t, err, ErrMFARequired)
	_, err = svc.SignIn(ctx, "admin@example.com", "secret1", "12345")
	assert.ErrorIs(t, err, ErrInvalidMFACode)
	_, err = svc.SignIn(ctx, "admin@example.com", "wrong", code)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	session, err := svc.SignIn(ctx, "admin@example.com", "secret1", code)
	require.NoError(t, err)
	assert.True(t, session.Profile.MFAEnabled)

	assert.ErrorIs(t, svc.DisableMFA(ctx, profile.ID, "12345"), ErrInvalidMFACode)
	require.NoError(t, svc.DisableMFA(ctx, profile.ID, code))
	assert.ErrorIs(t, svc.DisableMFA(ctx, profile.ID, code), ErrMFANotEnrolled)

	_, err = svc.SignIn(ctx, "admin@example.com", "secret1", "")
	require.NoError(t, err)
}
