package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"critique/internal/storage"
	"critique/pkg/logger"
)

type URLPresigner interface {
	UploadKey(prefix string, userID int, fileName string) string
	PresignPut(ctx context.Context, key, contentType string) (string, error)
}

// 允许上传的图标类型
var iconContentTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
}

type UploadHandler struct {
	presigner URLPresigner
	logger    *zap.Logger
}

func NewUploadHandler(presigner URLPresigner, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{presigner: presigner, logger: logger}
}

type iconUploadRequest struct {
	ImageName string `json:"imageName" binding:"required"`
	ImageType string `json:"imageType" binding:"required"`
}

type videoUploadRequest struct {
	VideoName string `json:"videoName" binding:"required"`
}

// WebsiteIconURL handles POST /api/v1/website/icon/upload-url
func (h *UploadHandler) WebsiteIconURL(c *gin.Context) {
	var req iconUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid Input"})
		return
	}

	contentType, ok := iconContentTypes[strings.ToLower(strings.TrimPrefix(req.ImageType, "image/"))]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid image type"})
		return
	}

	h.presign(c, storage.WebsiteIconPrefix, req.ImageName, contentType)
}

// ReviewVideoURL handles POST /api/v1/review/video/upload-url
func (h *UploadHandler) ReviewVideoURL(c *gin.Context) {
	var req videoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid Input"})
		return
	}

	h.presign(c, storage.ReviewVideoPrefix, req.VideoName, "")
}

func (h *UploadHandler) presign(c *gin.Context, prefix, fileName, contentType string) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid Input"})
		return
	}

	key := h.presigner.UploadKey(prefix, c.GetInt(ContextUserID), fileName)
	url, err := h.presigner.PresignPut(c.Request.Context(), key, contentType)
	if err != nil {
		logger.WithTrace(c.Request.Context(), h.logger).Error("Presign upload failed", zap.String("key", key), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong!"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url, "key": key})
}
