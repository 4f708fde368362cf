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

type ReviewService interface {
	Add(ctx context.Context, r *model.Review) (*model.ReviewDetail, error)
	List(ctx context.Context, websiteID string) ([]model.ReviewDetail, error)
	Upvote(ctx context.Context, reviewID string, userID int) error
}

type ReviewHandler struct {
	svc    ReviewService
	logger *zap.Logger
}

func NewReviewHandler(svc ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{svc: svc, logger: logger}
}

type createReviewRequest struct {
	Content  string  `json:"content" binding:"required"`
	Rating   int     `json:"rating" binding:"required,min=1,max=5"`
	VideoURL *string `json:"videoUrl" binding:"omitempty,url"`
}

// Create handles POST /api/v1/review/create/:id where :id is the website.
func (h *ReviewHandler) Create(c *gin.Context) {
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid Input"})
		return
	}

	ctx := c.Request.Context()
	detail, err := h.svc.Add(ctx, &model.Review{
		Content:   strings.TrimSpace(req.Content),
		Rating:    req.Rating,
		VideoURL:  req.VideoURL,
		UserID:    c.GetInt(ContextUserID),
		WebsiteID: c.Param("id"),
	})
	switch {
	case err == nil:
		c.JSON(http.StatusOK, detail)
	case errors.Is(err, domain.ErrAlreadyReviewed):
		c.JSON(http.StatusConflict, gin.H{"message": "You already submitted on this website"})
	case errors.Is(err, domain.ErrWebsiteNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Website not found"})
	default:
		logger.WithTrace(ctx, h.logger).Error("Create review failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}

// List handles GET /api/v1/review/:id
func (h *ReviewHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	reviews, err := h.svc.List(ctx, c.Param("id"))
	if err != nil {
		logger.WithTrace(ctx, h.logger).Error("List reviews failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong"})
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// Upvote handles POST /api/v1/upvote/:id where :id is the review.
func (h *ReviewHandler) Upvote(c *gin.Context) {
	ctx := c.Request.Context()
	err := h.svc.Upvote(ctx, c.Param("id"), c.GetInt(ContextUserID))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Review upvote successfully!"})
	case errors.Is(err, domain.ErrAlreadyUpvoted):
		c.JSON(http.StatusConflict, gin.H{"message": "You already upvote this review"})
	case errors.Is(err, domain.ErrReviewNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Review not found"})
	default:
		logger.WithTrace(ctx, h.logger).Error("Upvote failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong!"})
	}
}
