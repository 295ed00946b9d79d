package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"messenger-service/internal/auth"
	"messenger-service/internal/config"
	"messenger-service/internal/db"
	"messenger-service/internal/handlers"
	"messenger-service/internal/membership"
	"messenger-service/internal/middleware"
	"messenger-service/internal/observability"
	"messenger-service/internal/rabbitmq"
	"messenger-service/internal/repositories"
	"messenger-service/internal/telemetry"
	"messenger-service/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	database, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	shutdownTracing, err := observability.SetupTracing(context.Background(), cfg.OTLPEndpoint, cfg.Environment)
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()

	audit := telemetry.NewAuditEmitter(publisher, "audit.messenger", "messenger-service", cfg.Environment)
	socketEvents := telemetry.NewEventEmitter(publisher, "ws_events.messenger")

	userRepo := repositories.NewUserRepo(database)
	groupRepo := repositories.NewGroupRepo(database)
	membershipRepo := repositories.NewMembershipRepo(database)
	messageRepo := repositories.NewMessageRepo(database)

	verifier := auth.NewVerifier(cfg.JWTSecret, cfg.TokenTTL)

	hub := ws.NewHub()
	router := ws.NewRouter(hub, messageRepo)
	membershipSvc := membership.NewService(membershipRepo, hub)
	socket := ws.NewSocketHandler(hub, router, verifier, membershipRepo, membershipSvc, socketEvents)

	authHandler := handlers.NewAuthHandler(userRepo, verifier, audit)
	chatHandler := handlers.NewChatHandler(messageRepo, groupRepo, userRepo, audit)
	adminHandler := handlers.NewAdminHandler(membershipRepo, membershipSvc, groupRepo, userRepo, audit)

	engine := gin.Default()
	engine.Use(gin.Recovery())
	engine.Use(otelgin.Middleware("messenger-service"))
	engine.Use(observability.HTTPMetricsMiddleware())

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	engine.POST("/auth/register", authHandler.Register)
	engine.POST("/auth/login", authHandler.Login)

	authMiddleware := middleware.AuthMiddleware(verifier)

	chat := engine.Group("/chat", authMiddleware)
	chat.GET("/messages", chatHandler.GetMessages)
	chat.GET("/my-groups", chatHandler.MyGroups)
	chat.POST("/create-group", chatHandler.CreateGroup)
	chat.GET("/groups", chatHandler.ListGroups)
	chat.GET("/users", chatHandler.ListUsers)

	admin := engine.Group("/admin", authMiddleware, middleware.RequireOwner())
	admin.GET("/pending-memberships", adminHandler.PendingMemberships)
	admin.POST("/approve-membership", adminHandler.ApproveMembership)
	admin.POST("/reject-membership", adminHandler.RejectMembership)
	admin.POST("/delete-group", adminHandler.DeleteGroup)
	admin.POST("/delete-user", adminHandler.DeleteUser)

	engine.GET("/ws", socket.Handle)

	handlers.RegisterDebugRoutes(engine, audit, cfg.DebugRoutes)

	if err := engine.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
