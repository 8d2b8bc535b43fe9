package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MaxiE97/homologation-vehicle/internal/controller"
	"github.com/MaxiE97/homologation-vehicle/internal/ingest"
	"github.com/MaxiE97/homologation-vehicle/internal/model"
	"github.com/MaxiE97/homologation-vehicle/internal/schema"
)

func (h *Handler) formController(c *gin.Context) (*controller.FormController, bool) {
	user := currentUser(c)
	fc, err := h.registry.ForUser(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load form session"})
		return nil, false
	}
	return fc, true
}

// writeControllerError 控制器错误到 HTTP 状态码的统一映射
func writeControllerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, controller.ErrIngestBusy), errors.Is(err, controller.ErrExportBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, controller.ErrEmptyForm):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, controller.ErrUnsupportedLocale):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, controller.ErrDownloadLimit):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}

// ProcessVehicle 抓取三个来源站点并填充表单
// POST /api/v1/process-vehicle
func (h *Handler) ProcessVehicle(c *gin.Context) {
	fc, ok := h.formController(c)
	if !ok {
		return
	}

	var req model.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := fc.Ingest(c.Request.Context(), req, h.cfg.Ingest.AllowedHosts); err != nil {
		switch {
		case errors.Is(err, controller.ErrIngestBusy), errors.Is(err, controller.ErrExportBusy):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, ingest.ErrNoURLs), errors.Is(err, ingest.ErrInvalidURL), errors.Is(err, ingest.ErrHostNotAllowed):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, fc.Status())
}

// FormResponse 表单全量状态
type FormResponse struct {
	Status   controller.Status   `json:"status"`
	Request  model.IngestRequest `json:"request"`
	Snapshot map[string]string   `json:"snapshot"`
}

// GetForm 当前表单快照与抓取回显
// GET /api/v1/form
func (h *Handler) GetForm(c *gin.Context) {
	fc, ok := h.formController(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, FormResponse{
		Status:   fc.Status(),
		Request:  fc.Request(),
		Snapshot: fc.Recon().Snapshot(),
	})
}

// UpdateFieldRequest 单字段更新请求
type UpdateFieldRequest struct {
	Value string `json:"value"`
	Site  string `json:"site"`
}

// UpdateFinalValue 人工编辑最终值
// PATCH /api/v1/form/fields/:key
func (h *Handler) UpdateFinalValue(c *gin.Context) {
	fc, ok := h.formController(c)
	if !ok {
		return
	}

	key := c.Param("key")
	if _, ok := schema.FieldByKey(key); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown field key: " + key})
		return
	}

	var req UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := fc.SetFinalValue(key, req.Value); err != nil {
		writeControllerError(c, err)
		return
	}
	c.JSON(http.StatusOK, fc.Status())
}

// UpdateSourceValue 人工修正来源观测值
// PATCH /api/v1/form/sources/:key
func (h *Handler) UpdateSourceValue(c *gin.Context) {
	fc, ok := h.formController(c)
	if !ok {
		return
	}

	key := c.Param("key")
	var req UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Site == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "site and value are required"})
		return
	}

	if err := fc.SetSourceValue(key, req.Site, req.Value); err != nil {
		if errors.Is(err, controller.ErrEmptyForm) {
			writeControllerError(c, err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, fc.Status())
}

// TranslateRequest 表单翻译请求
type TranslateRequest struct {
	Language string `json:"language" binding:"required"`
}

// TranslateForm 把表单翻译到目标语言
// POST /api/v1/form/translate
func (h *Handler) TranslateForm(c *gin.Context) {
	fc, ok := h.formController(c)
	if !ok {
		return
	}

	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "language is required"})
		return
	}

	changed, err := fc.Translate(req.Language)
	if err != nil {
		writeControllerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"language": fc.Locale(),
		"changed":  changed,
		"snapshot": fc.Recon().Snapshot(),
	})
}

// ResetForm 清空表单会话
// POST /api/v1/form/reset
func (h *Handler) ResetForm(c *gin.Context) {
	fc, ok := h.formController(c)
	if !ok {
		return
	}
	if err := fc.Reset(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset form"})
		return
	}
	c.JSON(http.StatusOK, fc.Status())
}

// GetStatus 会话阶段与完成度
// GET /api/v1/status
func (h *Handler) GetStatus(c *gin.Context) {
	fc, ok := h.formController(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, fc.Status())
}
