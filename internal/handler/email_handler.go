package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"critique/internal/domain"
	"critique/internal/model"
	"critique/pkg/logger"
)

type EmailVerifier interface {
	VerifyEmail(ctx context.Context, token string) (*model.User, error)
}

type EmailHandler struct {
	verifier EmailVerifier
	logger   *zap.Logger
}

func NewEmailHandler(verifier EmailVerifier, logger *zap.Logger) *EmailHandler {
	return &EmailHandler{verifier: verifier, logger: logger}
}

// VerifyEmail handles GET /verify-email?token=
func (h *EmailHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	ctx := c.Request.Context()
	_, err := h.verifier.VerifyEmail(ctx, token)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
	case errors.Is(err, domain.ErrInvalidToken):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired token"})
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found. Please signup again"})
	default:
		logger.WithTrace(ctx, h.logger).Error("Email verification failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong"})
	}
}
