package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/suraj371k/trello/config"
	"github.com/suraj371k/trello/middleware"
	"github.com/suraj371k/trello/routes"
	"github.com/suraj371k/trello/services"
	"github.com/suraj371k/trello/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	if err := config.InitLogger(); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer config.Logger.Sync()

	conf, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	utils.InitJWT(conf.JWTSecret)

	if err := config.InitDB(conf); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	if err := config.InitRedis(conf); err != nil {
		log.Fatalf("failed to initialize redis: %v", err)
	}

	// Board room broker: starts with the process, drains on shutdown
	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()
	hub := services.NewBroadcaster(config.Logger, config.RedisClient)
	hub.Start(hubCtx)

	if conf.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	middleware.SetupMiddleware(r)
	r.Use(middleware.RequestLogger())

	routes.RegisterRoutes(r, hub)

	srv := &http.Server{
		Addr:    ":" + conf.ServerPort,
		Handler: r,
	}

	go func() {
		config.Logger.Infow("server listening", "port", conf.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	config.Logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}

	// Stop the broker after the HTTP server so in-flight mutations can
	// still publish their events
	hubCancel()
	hub.Stop()

	config.Logger.Info("server stopped")
}
