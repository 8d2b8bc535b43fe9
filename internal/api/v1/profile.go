package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MaxiE97/homologation-vehicle/internal/model"
	"github.com/MaxiE97/homologation-vehicle/internal/store"
)

// GetProfile 用户资料与下载历史
// GET /api/v1/profile
func (h *Handler) GetProfile(c *gin.Context) {
	user := currentUser(c)

	downloads, err := h.store.ListDownloads(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load download history"})
		return
	}
	if downloads == nil {
		downloads = []model.DownloadRecord{}
	}

	c.JSON(http.StatusOK, model.UserProfile{
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		Downloads: downloads,
	})
}

// UpdateDownloadStatusRequest 下载状态更新请求
type UpdateDownloadStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateDownloadStatus 更新一条下载记录的状态，仅限记录属主
// PATCH /api/v1/downloads/:id/status
func (h *Handler) UpdateDownloadStatus(c *gin.Context) {
	user := currentUser(c)
	downloadID := c.Param("id")

	var req UpdateDownloadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}
	if req.Status != model.DownloadStatusOk && req.Status != model.DownloadStatusUnderReview {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid download status: " + req.Status})
		return
	}

	if err := h.store.SetDownloadStatus(user.ID, downloadID, req.Status); err != nil {
		if errors.Is(err, store.ErrDownloadNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "download record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update download status"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
