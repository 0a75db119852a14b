package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"agentConsole/internal/errcode"
	"agentConsole/internal/platform"
)

// respondPlatformError 把平台调用错误映射为对前端的统一响应。
// 网络失败是可恢复错误：只报告，不改动任何本地状态。
func respondPlatformError(c *gin.Context, logger *slog.Logger, op string, err error) {
	var reqErr *platform.RequestError

	switch {
	case errors.Is(err, platform.ErrUnauthorized):
		logger.Warn("platform rejected credentials", slog.String("op", op))
		ErrorWithCode(c, http.StatusUnauthorized, errcode.AuthFailed, "unauthorized")
	case errors.Is(err, platform.ErrNotFound):
		ErrorWithCode(c, http.StatusNotFound, errcode.PreferenceMissing, "not found")
	case errors.As(err, &reqErr):
		logger.Error("platform unreachable", slog.String("op", op), slog.Any("error", err))
		BadGateway(c, "platform unreachable")
	default:
		logger.Error("platform call failed", slog.String("op", op), slog.Any("error", err))
		ErrorWithCode(c, http.StatusInternalServerError, errcode.SystemError, "internal error")
	}
}
