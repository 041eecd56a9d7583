package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/gostremiord/internal/config"
	"github.com/amaumene/gostremiord/internal/handlers"
	"github.com/amaumene/gostremiord/internal/middleware"
	"github.com/amaumene/gostremiord/pkg/logger"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[App] failed to load configuration: %v", err)
	}

	app, err := newApp(cfg, log)
	if err != nil {
		log.Fatalf("[App] failed to initialize: %v", err)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.Start(ctx)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS())
	r.Use(middleware.Gzip())

	handlers.New(app.Services, cfg).RegisterRoutes(r)

	log.Infof("[App] starting HTTP server on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("[App] server error: %v", err)
	}
}
