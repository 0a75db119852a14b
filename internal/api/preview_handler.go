package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"agentConsole/internal/preview"
)

// PreviewHandler 提供预览产物的内联访问。
type PreviewHandler struct {
	renderer *preview.Renderer
}

// NewPreviewHandler 构造预览处理器。
func NewPreviewHandler(renderer *preview.Renderer) *PreviewHandler {
	return &PreviewHandler{renderer: renderer}
}

// Serve 按句柄返回预览字节；句柄已释放或不存在时返回 404。
func (h *PreviewHandler) Serve(c *gin.Context) {
	id := c.Param("id")
	data, ok := h.renderer.Get(id)
	if !ok {
		NotFound(c, "preview not found")
		return
	}

	c.Header("Content-Disposition", "inline")
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", data)
}
