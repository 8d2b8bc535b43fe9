package v1

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportDocument 生成证书文档并下发 xlsx
// POST /api/v1/export-document
func (h *Handler) ExportDocument(c *gin.Context) {
	fc, ok := h.formController(c)
	if !ok {
		return
	}
	user := currentUser(c)

	res, err := fc.Export(user.Role)
	if err != nil {
		writeControllerError(c, err)
		return
	}
	defer res.File.Close()

	var buf bytes.Buffer
	if err := res.File.Write(&buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to serialize document"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
