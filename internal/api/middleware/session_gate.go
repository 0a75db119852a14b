package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"agentConsole/internal/session"
)

const sessionKey = "session"

// SessionGateMiddleware 把当前会话注入上下文；没有可用会话时一律 401，
// 由前端跳转回登录页。
func SessionGateMiddleware(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := manager.Current()
		if sess == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// SessionFromContext 取出注入的会话；经过 SessionGateMiddleware 的路由必有值。
func SessionFromContext(c *gin.Context) (*session.Session, bool) {
	value, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := value.(*session.Session)
	return sess, ok
}
