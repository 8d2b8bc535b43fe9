package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MaxiE97/homologation-vehicle/internal/projector"
	"github.com/MaxiE97/homologation-vehicle/internal/schema"
)

// ComparisonView 三来源对照视图：每字段一行，三来源加最终值
// GET /api/v1/views/comparison
func (h *Handler) ComparisonView(c *gin.Context) {
	fc, ok := h.formController(c)
	if !ok {
		return
	}
	rows := projector.Comparison(schema.AllFields(), fc.Recon().Snapshot(), fc.Recon().Observations())
	c.JSON(http.StatusOK, gin.H{
		"language": fc.Locale(),
		"rows":     rows,
	})
}

// SectionedView 分区视图：表格组拆出，附每区完成度
// GET /api/v1/views/sections
func (h *Handler) SectionedView(c *gin.Context) {
	fc, ok := h.formController(c)
	if !ok {
		return
	}
	sections := projector.Sectioned(schema.SectionLayout(), fc.Recon().Snapshot())
	c.JSON(http.StatusOK, gin.H{
		"language": fc.Locale(),
		"sections": sections,
	})
}

// UnifiedView 统一视图：与分区视图相同的拆分，不折叠
// GET /api/v1/views/unified
func (h *Handler) UnifiedView(c *gin.Context) {
	fc, ok := h.formController(c)
	if !ok {
		return
	}
	sections := projector.Unified(schema.SectionLayout(), fc.Recon().Snapshot())
	c.JSON(http.StatusOK, gin.H{
		"language": fc.Locale(),
		"sections": sections,
	})
}
