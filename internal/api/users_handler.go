package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"agentConsole/internal/api/middleware"
	"agentConsole/internal/platform"
)

// UsersHandler 代理平台的账号管理操作。
type UsersHandler struct {
	platform *platform.Client
	logger   *slog.Logger
}

// NewUsersHandler 构造账号处理器。
func NewUsersHandler(platformClient *platform.Client, logger *slog.Logger) *UsersHandler {
	return &UsersHandler{
		platform: platformClient,
		logger:   logger,
	}
}

// List 返回全部账号。
func (h *UsersHandler) List(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	users, err := h.platform.ListUsers(c.Request.Context(), sess)
	if err != nil {
		respondPlatformError(c, middleware.LoggerFromContext(c), "list users", err)
		return
	}
	if users == nil {
		users = []platform.User{}
	}
	c.JSON(http.StatusOK, gin.H{"data": users})
}

type createUserRequest struct {
	Email    string   `json:"email" binding:"required,email"`
	FullName string   `json:"full_name" binding:"required"`
	Password string   `json:"password" binding:"required,min=8"`
	UserType string   `json:"user_type" binding:"required"`
	LOB      string   `json:"lob"`
	Products []string `json:"products"`
}

// Create 创建新账号。
func (h *UsersHandler) Create(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	logger := middleware.LoggerFromContext(c)
	err := h.platform.CreateUser(c.Request.Context(), sess, platform.NewUser{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
		UserType: req.UserType,
		LOB:      req.LOB,
		Products: req.Products,
	})
	if err != nil {
		respondPlatformError(c, logger, "create user", err)
		return
	}

	logger.Info("user created", slog.String("email", req.Email), slog.String("user_type", req.UserType))
	c.Status(http.StatusCreated)
}

// Delete 删除指定账号。
func (h *UsersHandler) Delete(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	userID := c.Param("id")
	logger := middleware.LoggerFromContext(c)

	if err := h.platform.DeleteUser(c.Request.Context(), sess, userID); err != nil {
		respondPlatformError(c, logger, "delete user", err)
		return
	}

	logger.Info("user deleted", slog.String("user_id", userID))
	c.Status(http.StatusNoContent)
}
