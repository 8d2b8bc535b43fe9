// Package v1 同源 HTTP API：认证、表单操作、视图投影与文档导出。
package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/MaxiE97/homologation-vehicle/internal/config"
	"github.com/MaxiE97/homologation-vehicle/internal/controller"
	"github.com/MaxiE97/homologation-vehicle/internal/store"
)

// Handler V1 API 处理器
type Handler struct {
	store    *store.Store
	registry *controller.Registry
	cfg      *config.AppConfig
}

// NewHandler 创建 V1 API 处理器
func NewHandler(st *store.Store, registry *controller.Registry, cfg *config.AppConfig) *Handler {
	return &Handler{
		store:    st,
		registry: registry,
		cfg:      cfg,
	}
}

// RegisterRoutes 注册 V1 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 登录不要求会话
	router.POST("/auth/login", h.Login)

	auth := router.Group("")
	auth.Use(h.RequireAuth())

	// 认证与账号
	auth.POST("/auth/logout", h.Logout)
	auth.GET("/auth/me", h.Me)
	auth.GET("/profile", h.GetProfile)
	auth.PATCH("/downloads/:id/status", h.UpdateDownloadStatus)

	// 表单操作
	auth.POST("/process-vehicle", h.ProcessVehicle)
	auth.GET("/form", h.GetForm)
	auth.PATCH("/form/fields/:key", h.UpdateFinalValue)
	auth.PATCH("/form/sources/:key", h.UpdateSourceValue)
	auth.POST("/form/translate", h.TranslateForm)
	auth.POST("/form/reset", h.ResetForm)

	// 视图投影
	auth.GET("/views/comparison", h.ComparisonView)
	auth.GET("/views/sections", h.SectionedView)
	auth.GET("/views/unified", h.UnifiedView)

	// 导出与状态
	auth.POST("/export-document", h.ExportDocument)
	auth.GET("/status", h.GetStatus)
}
