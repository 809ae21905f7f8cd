package handlers

import (
	"errors"
	"net/http"

	"schooltrip/middleware"
	"schooltrip/models"
	"schooltrip/services/booking"
	"schooltrip/services/catalog"
	"schooltrip/services/intelligence"
	"schooltrip/services/user"
	"schooltrip/services/wizard"
	"schooltrip/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusFor maps a domain error onto an HTTP status.
func statusFor(err error) int {
	var verr *booking.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, catalog.ErrInvalidTourInput),
		errors.Is(err, wizard.ErrIncomplete),
		errors.Is(err, wizard.ErrBusTooSmall),
		errors.Is(err, intelligence.ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.Is(err, booking.ErrSignInRequired),
		errors.Is(err, user.ErrInvalidIdentity):
		return http.StatusUnauthorized
	case errors.Is(err, booking.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, booking.ErrNotFound),
		errors.Is(err, catalog.ErrTourNotFound),
		errors.Is(err, catalog.ErrBusNotFound),
		errors.Is(err, wizard.ErrSessionNotFound),
		errors.Is(err, user.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, wizard.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, catalog.ErrStorageDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError writes err to the client. Downstream failures are logged and
// replaced by fallback.
func respondError(c *gin.Context, log *zap.Logger, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error(fallback, zap.Error(err))
		utils.JSONError(c, status, fallback, "")
		return
	}
	log.Debug("Request rejected", zap.Int("status", status), zap.Error(err))
	utils.JSONError(c, status, http.StatusText(status), err.Error())
}

func badRequest(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
}

// actorFrom reads the caller set by middleware.RequireUser.
func actorFrom(c *gin.Context) booking.Actor {
	return booking.Actor{
		UserID: c.GetString(middleware.ContextUserID),
		Admin:  c.GetString(middleware.ContextUserRole) == models.RoleAdmin,
	}
}
