package handlers

import (
	"errors"
	"net/http"

	"github.com/VedantNarayan/champaran-meat-house/internal/access"
	"github.com/VedantNarayan/champaran-meat-house/internal/auth"
	"github.com/VedantNarayan/champaran-meat-house/internal/logger"
	"github.com/VedantNarayan/champaran-meat-house/internal/models"
	"github.com/VedantNarayan/champaran-meat-house/internal/services"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userService services.UserService
	devMode     bool
	log         *logger.Logger
}

func NewAuthHandler(userService services.UserService, devMode bool, log *logger.Logger) *AuthHandler {
	return &AuthHandler{userService: userService, devMode: devMode, log: log}
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req services.SignUpInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	profile, err := h.userService.SignUp(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		Code     string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	session, err := h.userService.SignIn(c.Request.Context(), req.Email, req.Password, req.Code)
	if errors.Is(err, services.ErrMFARequired) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "mfa_required": true})
		return
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":      session.Token,
		"expires_at": session.ExpiresAt,
		"profile":    session.Profile,
		"redirect":   access.Home(session.Profile.Role),
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.userService.SignOut(c.Request.Context(), auth.PrincipalFrom(c)); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "signed_out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	profile, err := h.userService.GetProfile(c.Request.Context(), auth.PrincipalFrom(c).UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *AuthHandler) UpdateMe(c *gin.Context) {
	var req services.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), auth.PrincipalFrom(c).UserID, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	token, err := h.userService.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := gin.H{"message": "If that email is registered, a reset link has been sent"}
	if token != "" {
		h.log.Info("password reset requested", "email", req.Email)
		if h.devMode {
			resp["reset_token"] = token
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.userService.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "password_updated"})
}

func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		Password        string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	p := auth.PrincipalFrom(c)
	if err := h.userService.ChangePassword(c.Request.Context(), p.UserID, req.CurrentPassword, req.Password); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "password_updated"})
}

// SwitchRole lets a signed-in user change their own role. It answers 404 unless dev mode is on.
func (h *AuthHandler) SwitchRole(c *gin.Context) {
	if !h.devMode {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	var req struct {
		Role models.Role `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	profile, err := h.userService.SetRole(c.Request.Context(), auth.PrincipalFrom(c).UserID, req.Role)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile, "redirect": access.Home(profile.Role)})
}

// EnrollMFA starts authenticator enrollment and returns the secret for the QR code.
func (h *AuthHandler) EnrollMFA(c *gin.Context) {
	enrollment, err := h.userService.EnrollMFA(c.Request.Context(), auth.PrincipalFrom(c).UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

func (h *AuthHandler) ConfirmMFA(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.userService.ConfirmMFA(c.Request.Context(), auth.PrincipalFrom(c).UserID, req.Code); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "mfa_enabled"})
}

func (h *AuthHandler) DisableMFA(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.userService.DisableMFA(c.Request.Context(), auth.PrincipalFrom(c).UserID, req.Code); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "mfa_disabled"})
}
