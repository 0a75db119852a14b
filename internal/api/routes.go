package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"agentConsole/internal/api/middleware"
	"agentConsole/internal/personalize"
	"agentConsole/internal/platform"
	"agentConsole/internal/preview"
	"agentConsole/internal/session"
)

// RegisterRoutes 注册 API 路由。
func RegisterRoutes(
	router *gin.Engine,
	platformClient *platform.Client,
	manager *session.Manager,
	controller *personalize.Controller,
	renderer *preview.Renderer,
	hub *preview.Hub,
	logger *slog.Logger,
	clamdAddr string,
	allowedOrigins []string,
) {
	sessionHandler := NewSessionHandler(platformClient, manager, logger)
	personalizationHandler := NewPersonalizationHandler(platformClient, controller, logger)
	previewHandler := NewPreviewHandler(renderer)
	catalogHandler := NewCatalogHandler(platformClient, logger)
	usersHandler := NewUsersHandler(platformClient, logger)
	collateralHandler := NewCollateralHandler(platformClient, logger, clamdAddr)
	wsHandler := NewWsHandler(hub, manager, logger, allowedOrigins)
	sessionGate := middleware.SessionGateMiddleware(manager)

	v1 := router.Group("/v1")
	{
		v1.GET("/ws", wsHandler.HandleConnection)

		sessionGroup := v1.Group("/session")
		{
			sessionGroup.POST("/login", sessionHandler.Login)
			sessionGroup.POST("/logout", sessionHandler.Logout)
			sessionGroup.GET("", sessionGate, sessionHandler.Current)
		}

		// 预览端点不走会话门：URL 含不可猜测的句柄，且 iframe/对象标签
		// 无法附带自定义头。
		v1.GET("/preview/:id", previewHandler.Serve)

		personalizeGroup := v1.Group("/personalize")
		personalizeGroup.Use(sessionGate)
		{
			personalizeGroup.GET("", personalizationHandler.State)
			personalizeGroup.PUT("/type", personalizationHandler.SetDocumentType)
			personalizeGroup.PUT("/branding", personalizationHandler.SetBranding)
			personalizeGroup.PUT("/fields/:field", personalizationHandler.UpdateField)
			personalizeGroup.POST("/save", personalizationHandler.Save)
		}

		authed := v1.Group("")
		authed.Use(sessionGate)
		{
			authed.GET("/products", catalogHandler.Products)
			authed.GET("/menu", catalogHandler.Menu)

			authed.GET("/users", usersHandler.List)
			authed.POST("/users", usersHandler.Create)
			authed.DELETE("/users/:id", usersHandler.Delete)

			authed.GET("/collateral", collateralHandler.List)
			authed.POST("/collateral/upload", collateralHandler.Upload)
		}
	}
}
