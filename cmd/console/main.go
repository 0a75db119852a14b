package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"agentConsole/internal/api"
	"agentConsole/internal/config"
	"agentConsole/internal/personalize"
	"agentConsole/internal/platform"
	"agentConsole/internal/preview"
	"agentConsole/internal/session"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	logger.Info("console bootstrapped",
		slog.Int("port", cfg.Console.Port),
		slog.String("platform_base_url", cfg.Platform.BaseURL),
	)

	platformClient := platform.NewClient(cfg.Platform.BaseURL, cfg.Platform.Timeout(), logger)
	manager := session.NewManager()

	store := personalize.NewStore()
	compositor := personalize.NewCompositor(nil)
	renderer := preview.NewRenderer()
	hub := preview.NewHub(logger)
	controller := personalize.NewController(store, compositor, renderer, hub, logger)
	defer controller.Close()

	router := api.NewRouter(cfg, logger)
	api.RegisterRoutes(
		router,
		platformClient,
		manager,
		controller,
		renderer,
		hub,
		logger,
		cfg.Clamd.Addr,
		cfg.Console.AllowedOrigins,
	)

	// 只在回环地址上监听，配合中间件的回环守卫双保险。
	address := fmt.Sprintf("127.0.0.1:%d", cfg.Console.Port)
	logger.Info("console listening", slog.String("address", address))

	if err := router.Run(address); err != nil {
		log.Fatalf("failed to start console server: %v", err)
	}
}
