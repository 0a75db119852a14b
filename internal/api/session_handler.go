package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"agentConsole/internal/api/middleware"
	"agentConsole/internal/platform"
	"agentConsole/internal/session"
)

// SessionHandler 处理登录、注销与会话查询。
type SessionHandler struct {
	platform *platform.Client
	manager  *session.Manager
	logger   *slog.Logger
}

// NewSessionHandler 构造会话处理器。
func NewSessionHandler(platformClient *platform.Client, manager *session.Manager, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		platform: platformClient,
		manager:  manager,
		logger:   logger,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login 把凭证转交平台换取会话，成功后持有会话并返回用户资料。
func (h *SessionHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	logger := middleware.LoggerFromContext(c).With(slog.String("email", req.Email))

	sess, err := h.platform.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondPlatformError(c, logger, "login", err)
		return
	}

	h.manager.Set(sess)
	logger.Info("session established", slog.String("user_type", sess.User.UserType))

	c.JSON(http.StatusOK, gin.H{"user": sess.User})
}

// Logout 注销当前会话。
func (h *SessionHandler) Logout(c *gin.Context) {
	h.manager.Clear()
	middleware.LoggerFromContext(c).Info("session cleared")
	c.Status(http.StatusNoContent)
}

// Current 返回当前会话的用户资料。
func (h *SessionHandler) Current(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": sess.User})
}
