package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/VedantNarayan/champaran-meat-house/internal/auth"
	"github.com/VedantNarayan/champaran-meat-house/internal/logger"
	"github.com/VedantNarayan/champaran-meat-house/internal/models"
	"github.com/VedantNarayan/champaran-meat-house/internal/redis"
	"github.com/VedantNarayan/champaran-meat-house/internal/repository"
	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	resetTokenTTL     = time.Hour
	resetKeyPrefix    = "password_reset:"
	mfaEnrollTTL      = 10 * time.Minute
	mfaEnrollPrefix   = "mfa_enroll:"
	mfaIssuer         = "Champaran Meat House"
)

// SessionStore is the redis-backed session, role cache and temp data store.
type SessionStore interface {
	SetSession(ctx context.Context, data *redis.SessionData, ttl time.Duration) error
	GetSession(ctx context.Context, sessionID string) (*redis.SessionData, error)
	DeleteSession(ctx context.Context, sessionID string) error
	SetRole(ctx context.Context, userID, role string, ttl time.Duration) error
	GetRole(ctx context.Context, userID string) (string, error)
	InvalidateRole(ctx context.Context, userID string) error
	SetTempData(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetTempData(ctx context.Context, key string, dest interface{}) error
	DeleteTempData(ctx context.Context, key string) error
}

type SignUpInput struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	FullName    string `json:"full_name" binding:"required"`
	PhoneNumber string `json:"phone_number"`
}

// ProfileUpdate carries the self-service fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	FullName    *string `json:"full_name"`
	PhoneNumber *string `json:"phone_number"`
	AvatarURL   *string `json:"avatar_url"`
}

// MFAEnrollment is a pending authenticator secret. It is not enforced until a code confirms it.
type MFAEnrollment struct {
	Secret string `json:"secret"`
	URL    string `json:"otpauth_url"`
}

// Session is returned on sign in.
type Session struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Profile   *models.Profile `json:"profile"`
}

type UserService interface {
	SignUp(ctx context.Context, in SignUpInput) (*models.Profile, error)
	// SignIn checks the password and, for accounts with an authenticator, the TOTP code.
	SignIn(ctx context.Context, email, password, code string) (*Session, error)
	SignOut(ctx context.Context, p *auth.Principal) error
	Authenticate(ctx context.Context, token string) (*auth.Principal, error)
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	GetAllProfiles(ctx context.Context) ([]models.Profile, error)
	UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*models.Profile, error)
	SetRole(ctx context.Context, userID string, role models.Role) (*models.Profile, error)
	CreateDriver(ctx context.Context, in SignUpInput) (*models.Profile, error)
	// RequestPasswordReset returns a one-time reset token, or "" for unknown emails.
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
	ChangePassword(ctx context.Context, userID, current, newPassword string) error
	EnrollMFA(ctx context.Context, userID string) (*MFAEnrollment, error)
	ConfirmMFA(ctx context.Context, userID, code string) error
	DisableMFA(ctx context.Context, userID, code string) error
}

type userService struct {
	profileRepo repository.ProfileRepository
	sessions    SessionStore
	tokens      *auth.TokenManager
	sessionTTL  time.Duration
	roleTTL     time.Duration
	log         *logger.Logger
}

func NewUserService(
	profileRepo repository.ProfileRepository,
	sessions SessionStore,
	tokens *auth.TokenManager,
	sessionTTL, roleTTL time.Duration,
	log *logger.Logger,
) UserService {
	return &userService{
		profileRepo: profileRepo,
		sessions:    sessions,
		tokens:      tokens,
		sessionTTL:  sessionTTL,
		roleTTL:     roleTTL,
		log:         log,
	}
}

func (s *userService) SignUp(ctx context.Context, in SignUpInput) (*models.Profile, error) {
	return s.createProfile(ctx, in, models.RoleCustomer)
}

func (s *userService) CreateDriver(ctx context.Context, in SignUpInput) (*models.Profile, error) {
	return s.createProfile(ctx, in, models.RoleDriver)
}

func (s *userService) createProfile(ctx context.Context, in SignUpInput, role models.Role) (*models.Profile, error) {
	if len(in.Password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	_, err := s.profileRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     strings.TrimSpace(in.FullName),
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
		Role:         role,
		PasswordHash: hash,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return profile, nil
}

func (s *userService) SignIn(ctx context.Context, email, password, code string) (*Session, error) {
	profile, err := s.profileRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if profile.MFAEnabled {
		if code == "" {
			return nil, ErrMFARequired
		}
		if !totp.Validate(code, profile.MFASecret) {
			return nil, ErrInvalidMFACode
		}
	}

	sessionID := uuid.NewString()
	token, expiresAt, err := s.tokens.Issue(profile.ID, sessionID)
	if err != nil {
		return nil, err
	}

	err = s.sessions.SetSession(ctx, &redis.SessionData{SessionID: sessionID, UserID: profile.ID, CreatedAt: time.Now()}, s.sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	s.invalidateRole(ctx, profile.ID)

	return &Session{Token: token, ExpiresAt: expiresAt, Profile: profile}, nil
}

func (s *userService) SignOut(ctx context.Context, p *auth.Principal) error {
	if err := s.sessions.DeleteSession(ctx, p.SessionID); err != nil {
		return err
	}
	s.invalidateRole(ctx, p.UserID)
	return nil
}

// Authenticate resolves a bearer token to a principal. The role comes from the cache when
// present, otherwise from the profile row.
func (s *userService) Authenticate(ctx context.Context, token string) (*auth.Principal, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.GetSession(ctx, claims.SessionID)
	if errors.Is(err, redis.ErrSessionNotFound) {
		return nil, ErrSessionExpired
	}
	if err != nil {
		return nil, err
	}
	if session.UserID != claims.Subject {
		return nil, auth.ErrInvalidToken
	}

	p := &auth.Principal{UserID: claims.Subject, SessionID: claims.SessionID}

	role, err := s.sessions.GetRole(ctx, claims.Subject)
	if err == nil && models.Role(role).Valid() {
		p.Role = models.Role(role)
		return p, nil
	}

	profile, err := s.profileRepo.GetByID(ctx, claims.Subject)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSessionExpired
	}
	if err != nil {
		return nil, err
	}
	p.Role = profile.Role
	p.Email = profile.Email

	if err := s.sessions.SetRole(ctx, profile.ID, string(profile.Role), s.roleTTL); err != nil {
		s.log.Warn("failed to cache role", "user_id", profile.ID, "error", err)
	}
	return p, nil
}

func (s *userService) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	return s.profileRepo.GetByID(ctx, id)
}

func (s *userService) GetAllProfiles(ctx context.Context) ([]models.Profile, error) {
	return s.profileRepo.GetAll(ctx)
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if name == "" {
			return nil, ErrInvalidProfile
		}
		profile.FullName = name
	}
	if in.PhoneNumber != nil {
		profile.PhoneNumber = strings.TrimSpace(*in.PhoneNumber)
	}
	if in.AvatarURL != nil {
		profile.AvatarURL = strings.TrimSpace(*in.AvatarURL)
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

func (s *userService) SetRole(ctx context.Context, userID string, role models.Role) (*models.Profile, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	if err := s.profileRepo.UpdateRole(ctx, userID, role); err != nil {
		return nil, err
	}
	s.invalidateRole(ctx, userID)
	return s.profileRepo.GetByID(ctx, userID)
}

func (s *userService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	profile, err := s.profileRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	token := uuid.NewString()
	if err := s.sessions.SetTempData(ctx, resetKeyPrefix+token, profile.ID, resetTokenTTL); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}
	return token, nil
}

func (s *userService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return ErrWeakPassword
	}

	var userID string
	err := s.sessions.GetTempData(ctx, resetKeyPrefix+token, &userID)
	if errors.Is(err, redis.ErrTempDataNotFound) {
		return ErrInvalidResetToken
	}
	if err != nil {
		return err
	}

	if err := s.setPassword(ctx, userID, newPassword); err != nil {
		return err
	}
	return s.sessions.DeleteTempData(ctx, resetKeyPrefix+token)
}

func (s *userService) ChangePassword(ctx context.Context, userID, current, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return ErrWeakPassword
	}
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCredentials
	}
	return s.setPassword(ctx, userID, newPassword)
}

func (s *userService) EnrollMFA(ctx context.Context, userID string) (*MFAEnrollment, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	key, err := totp.Generate(totp.GenerateOpts{Issuer: mfaIssuer, AccountName: profile.Email})
	if err != nil {
		return nil, fmt.Errorf("failed to generate authenticator secret: %w", err)
	}
	if err := s.sessions.SetTempData(ctx, mfaEnrollPrefix+userID, key.Secret(), mfaEnrollTTL); err != nil {
		return nil, fmt.Errorf("failed to store enrollment: %w", err)
	}
	return &MFAEnrollment{Secret: key.Secret(), URL: key.URL()}, nil
}

// ConfirmMFA activates the pending enrollment once the user proves they can produce a code.
func (s *userService) ConfirmMFA(ctx context.Context, userID, code string) error {
	var secret string
	err := s.sessions.GetTempData(ctx, mfaEnrollPrefix+userID, &secret)
	if errors.Is(err, redis.ErrTempDataNotFound) {
		return ErrMFANotEnrolled
	}
	if err != nil {
		return err
	}
	if !totp.Validate(code, secret) {
		return ErrInvalidMFACode
	}

	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	profile.MFASecret = secret
	profile.MFAEnabled = true
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return fmt.Errorf("failed to enable authenticator: %w", err)
	}
	return s.sessions.DeleteTempData(ctx, mfaEnrollPrefix+userID)
}

func (s *userService) DisableMFA(ctx context.Context, userID, code string) error {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !profile.MFAEnabled {
		return ErrMFANotEnrolled
	}
	if !totp.Validate(code, profile.MFASecret) {
		return ErrInvalidMFACode
	}

	profile.MFASecret = ""
	profile.MFAEnabled = false
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return fmt.Errorf("failed to disable authenticator: %w", err)
	}
	return nil
}

func (s *userService) setPassword(ctx context.Context, userID, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	return s.profileRepo.UpdatePasswordHash(ctx, userID, hash)
}

func (s *userService) invalidateRole(ctx context.Context, userID string) {
	if err := s.sessions.InvalidateRole(ctx, userID); err != nil {
		s.log.Warn("failed to invalidate cached role", "user_id", userID, "error", err)
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
