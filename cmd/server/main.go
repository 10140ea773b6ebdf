package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go-gin-guestlist/config"
	"go-gin-guestlist/internal/auth"
	"go-gin-guestlist/internal/cache"
	"go-gin-guestlist/internal/database"
	"go-gin-guestlist/internal/handler"
	"go-gin-guestlist/internal/queue"
	"go-gin-guestlist/internal/realtime"
	"go-gin-guestlist/internal/repository"
	"go-gin-guestlist/internal/service"
	"go-gin-guestlist/internal/worker"
	"go-gin-guestlist/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	log := logger.WithComponent("main")
	cfg := config.LoadConfig()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	defer rdb.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// presence 與事件中繼的後端：單機 memory，多實例 redis
	var presence realtime.PresenceStore
	if cfg.Realtime.PresenceBackend == "redis" {
		presence = cache.NewRedisPresenceStore(rdb)
	} else {
		presence = realtime.NewMemoryPresenceStore()
	}

	var events queue.EventQueue
	if cfg.Realtime.QueueBackend == "redis" {
		events, err = queue.NewRedisStreamEventQueue(rdb, cfg.Realtime.InstanceID, nil)
		if err != nil {
			log.Fatal("Failed to initialize event queue", zap.Error(err))
		}
	} else {
		events = queue.NewEventQueue(256)
	}

	ticketRepo := repository.NewTicketRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	tokens := auth.NewTokenManager(cfg.Auth.AccessSecret, cfg.Auth.RefreshSecret, cfg.Auth.AccessTTLMin)

	admissionService := service.NewAdmissionService(ticketRepo)
	notificationService := service.NewNotificationService(notificationRepo, presence, events)
	chatService := service.NewChatService(messageRepo, events)

	hub := realtime.NewHub()
	gateway := realtime.NewGateway(hub, presence, userRepo, chatService, events, tokens, cfg.Server.AllowedOrigin)

	fanout := worker.NewFanoutWorker(hub, events)
	if err := fanout.Start(ctx); err != nil {
		log.Fatal("Failed to start fanout worker", zap.Error(err))
	}

	router := gin.Default()
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	handler.NewQRHandler(admissionService).RegisterRoutes(router)
	handler.NewNotificationHandler(notificationService).RegisterRoutes(router)
	handler.NewMessageHandler(chatService).RegisterRoutes(router, handler.AuthRequired(tokens))
	gateway.RegisterRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info("listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Shutdown failed", zap.Error(err))
	}
}
