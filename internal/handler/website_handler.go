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
	"critique/pkg/logger"
)

type WebsiteService interface {
	Add(ctx context.Context, w *model.Website) error
	List(ctx context.Context) ([]model.Website, error)
	Get(ctx context.Context, id string) (*model.Website, error)
	Leaderboard(ctx context.Context) ([]model.LeaderboardEntry, error)
}

type WebsiteHandler struct {
	svc    WebsiteService
	logger *zap.Logger
}

func NewWebsiteHandler(svc WebsiteService, logger *zap.Logger) *WebsiteHandler {
	return &WebsiteHandler{svc: svc, logger: logger}
}

type addWebsiteRequest struct {
	Name        string  `json:"name" binding:"required"`
	WebsiteURL  string  `json:"websiteUrl" binding:"required,url"`
	IconURL     *string `json:"iconUrl"`
	Description string  `json:"description" binding:"required,min=20"`
	Category    string  `json:"category" binding:"required,oneof=PRODUCTIVITY DEV_TOOL DESIGN MARKETING EDUCATION FINANCE HEALTH AI ECOMMERCE SOCIAL ENTERTAINMENT OTHER"`
}

// Add handles POST /api/v1/website/add
func (h *WebsiteHandler) Add(c *gin.Context) {
	var req addWebsiteRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid Input"})
		return
	}

	w := &model.Website{
		Name:        strings.TrimSpace(req.Name),
		WebsiteURL:  req.WebsiteURL,
		IconURL:     req.IconURL,
		Description: req.Description,
		Category:    model.Category(req.Category),
	}
	ctx := c.Request.Context()
	if err := h.svc.Add(ctx, w); err != nil {
		logger.WithTrace(ctx, h.logger).Error("Add website failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong"})
		return
	}
	c.JSON(http.StatusOK, w)
}

// List handles GET /api/v1/website/
func (h *WebsiteHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	websites, err := h.svc.List(ctx)
	if err != nil {
		logger.WithTrace(ctx, h.logger).Error("List websites failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong"})
		return
	}
	c.JSON(http.StatusOK, websites)
}

// Get handles GET /api/v1/website/:id
func (h *WebsiteHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	w, err := h.svc.Get(ctx, c.Param("id"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, w)
	case errors.Is(err, domain.ErrWebsiteNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Website not found"})
	default:
		logger.WithTrace(ctx, h.logger).Error("Get website failed", zap.String("website_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong"})
	}
}

// Leaderboard handles GET /api/v1/leaderboard/
func (h *WebsiteHandler) Leaderboard(c *gin.Context) {
	ctx := c.Request.Context()
	entries, err := h.svc.Leaderboard(ctx)
	if err != nil {
		logger.WithTrace(ctx, h.logger).Error("Leaderboard failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong"})
		return
	}
	c.JSON(http.StatusOK, entries)
}
