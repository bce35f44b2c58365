package handlers

import (
	"errors"
	"net/http"

	"github.com/VedantNarayan/champaran-meat-house/internal/lifecycle"
	"github.com/VedantNarayan/champaran-meat-house/internal/logger"
	"github.com/VedantNarayan/champaran-meat-house/internal/repository"
	"github.com/VedantNarayan/champaran-meat-house/internal/services"
	"github.com/VedantNarayan/champaran-meat-house/internal/storage"
	"github.com/gin-gonic/gin"
)

// respondError maps service errors to a status and a client-facing message.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	status, msg := http.StatusInternalServerError, "Internal server error"

	switch {
	case errors.Is(err, repository.ErrNotFound):
		status, msg = http.StatusNotFound, "Not found"
	case errors.Is(err, repository.ErrStaleSortOrder):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, lifecycle.ErrForbiddenTransition), errors.Is(err, lifecycle.ErrNotOrderOwner):
		status, msg = http.StatusForbidden, err.Error()
	case errors.Is(err, lifecycle.ErrConfirmationRequired), errors.Is(err, lifecycle.ErrUnknownStatus):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrPaymentAlreadyUsed), errors.Is(err, services.ErrPaymentMismatch):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, services.ErrPaymentRejected):
		status, msg = http.StatusBadRequest, "Transaction not legit!"
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrItemUnavailable),
		errors.Is(err, services.ErrWeakPassword),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrInvalidProfile),
		errors.Is(err, services.ErrInvalidResetToken),
		errors.Is(err, services.ErrMFANotEnrolled),
		errors.Is(err, storage.ErrUnsupportedType),
		errors.Is(err, storage.ErrInvalidFolder):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrSessionExpired),
		errors.Is(err, services.ErrMFARequired),
		errors.Is(err, services.ErrInvalidMFACode):
		status, msg = http.StatusUnauthorized, err.Error()
	case errors.Is(err, services.ErrEmailTaken):
		status, msg = http.StatusConflict, err.Error()
	}

	if status == http.StatusInternalServerError {
		log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": msg})
}
