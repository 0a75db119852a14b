package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"agentConsole/internal/api/middleware"
	"agentConsole/internal/platform"
)

// CatalogHandler 提供产品目录与导航菜单的只读代理。
type CatalogHandler struct {
	platform *platform.Client
	logger   *slog.Logger
}

// NewCatalogHandler 构造目录处理器。
func NewCatalogHandler(platformClient *platform.Client, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		platform: platformClient,
		logger:   logger,
	}
}

// Products 返回按业务线分组的产品目录。
func (h *CatalogHandler) Products(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	groups, err := h.platform.ListProducts(c.Request.Context(), sess)
	if err != nil {
		respondPlatformError(c, middleware.LoggerFromContext(c), "list products", err)
		return
	}
	if groups == nil {
		groups = []platform.ProductGroup{}
	}
	c.JSON(http.StatusOK, gin.H{"data": groups})
}

// Menu 返回当前用户类型对应的导航菜单。
func (h *CatalogHandler) Menu(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	options, err := h.platform.LeftMenu(c.Request.Context(), sess, sess.User.UserType)
	if err != nil {
		respondPlatformError(c, middleware.LoggerFromContext(c), "left menu", err)
		return
	}
	if options == nil {
		options = []platform.MenuOption{}
	}
	c.JSON(http.StatusOK, gin.H{"menuOptions": options})
}
