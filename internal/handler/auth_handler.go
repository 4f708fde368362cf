package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"critique/internal/domain"
	"critique/internal/model"
	"critique/internal/service/auth"
	"critique/internal/util"
	"critique/pkg/logger"
)

// ContextUserID 鉴权中间件写入的用户 ID key
const ContextUserID = "user_id"

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	CurrentUser(ctx context.Context, id int) (*model.User, error)
}

type AuthHandler struct {
	svc          AuthService
	secureCookie bool
	logger       *zap.Logger
}

// NewAuthHandler; secureCookie should be true whenever the API is served over https.
func NewAuthHandler(svc AuthService, secureCookie bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, secureCookie: secureCookie, logger: logger}
}

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type signinRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Signup handles POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid Input"})
		return
	}

	ctx := c.Request.Context()
	_, err := h.svc.Register(ctx, strings.TrimSpace(req.Name), req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"message": "User already exists with this email"})
		return
	default:
		logger.WithTrace(ctx, h.logger).Error("Signup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User registered successfully! Please check your inbox to verify your email",
	})
}

// Signin handles POST /api/v1/auth/signin and sets the session cookie.
func (h *AuthHandler) Signin(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid Input"})
		return
	}

	ctx := c.Request.Context()
	token, err := h.svc.Login(ctx, req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Invalid credentials"})
		return
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusForbidden, gin.H{"message": "Invalid credentials"})
		return
	default:
		logger.WithTrace(ctx, h.logger).Error("Signin failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong"})
		return
	}

	h.setSessionCookie(c, token, int(auth.SessionTTL.Seconds()))
	c.JSON(http.StatusOK, gin.H{"message": "Signin successful!"})
}

// Me handles GET /api/v1/auth/
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetInt(ContextUserID)

	u, err := h.svc.CurrentUser(c.Request.Context(), userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	if err != nil {
		logger.WithTrace(c.Request.Context(), h.logger).Error("Load current user failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong"})
		return
	}

	c.JSON(http.StatusOK, u.Response())
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "logout successfully"})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(util.SessionCookie, value, maxAge, "/", "", h.secureCookie, true)
}
