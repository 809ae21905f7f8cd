package handlers

import (
	"net/http"

	"schooltrip/models"
	"schooltrip/services/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	Users  user.UserService
	Logger *zap.Logger
}

func NewAuthHandler(users user.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{Users: users, Logger: logger}
}

// GoogleSignInHandler upserts the signed-in Google identity and returns
// the stored user with a session token.
func (h *AuthHandler) GoogleSignInHandler(c *gin.Context) {
	log := requestLogger(c, h.Logger)
	var payload models.GoogleSignIn
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.Users.SignInWithGoogle(c.Request.Context(), payload)
	if err != nil {
		respondError(c, log, err, "Failed to sign in")
		return
	}
	c.JSON(http.StatusOK, resp)
}
