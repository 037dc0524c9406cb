// Package main runs the gig staffing HTTP server with WebSocket live updates
// and graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/corourke/Gigmanagerfigmamake-sub000/config"
	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/analytics"
	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/auth"
	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/gigs"
	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/invitations"
	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/kits"
	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/middleware"
	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/organizations"
	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/places"
	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/realtime"
	"github.com/corourke/Gigmanagerfigmamake-sub000/pkg/database"
	"github.com/corourke/Gigmanagerfigmamake-sub000/pkg/queue"
	"github.com/corourke/Gigmanagerfigmamake-sub000/pkg/redis"
	"github.com/corourke/Gigmanagerfigmamake-sub000/pkg/response"
	"github.com/corourke/Gigmanagerfigmamake-sub000/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			AttachmentsBucket:    cfg.AWS.AttachmentsBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	redisPubSub := realtime.NewRedisPubSub(rdb.Client, logger)
	hub := realtime.NewHub(logger, redisPubSub, redisPubSub)
	jobQueue := queue.NewQueue(rdb.Client, logger)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Organizations
	orgRepo := organizations.NewRepository(pool)
	orgHandler := organizations.NewHandler(orgRepo)

	// Gigs: composite writer over the pgx repository
	gigRepo := gigs.NewRepository(pool)
	gigWriter := gigs.NewCompositeWriter(gigRepo, gigRepo, gigRepo, gigRepo, gigRepo, logger)
	gigHandler := gigs.NewHandler(gigRepo, orgRepo, gigWriter, hub, logger)

	// Kits and attachments
	kitRepo := kits.NewRepository(pool)
	kitHandler := kits.NewHandler(kitRepo, orgRepo, s3Client, logger)

	// Invitations
	invRepo := invitations.NewRepository(pool)
	invHandler := invitations.NewHandler(invRepo, authRepo, orgRepo, jwtService, jobQueue, logger)

	// Places (venue lookup)
	placesClient := places.NewClient(cfg.Places.BaseURL, cfg.Places.APIKey,
		time.Duration(cfg.Places.TimeoutSec)*time.Second, logger)
	placesHandler := places.NewHandler(placesClient, logger)

	// Analytics
	analyticsHandler := analytics.NewHandler(pool, orgRepo, logger)

	jwtValidate := func(token string) (uuid.UUID, error) {
		claims, err := jwtService.Validate(token)
		if err != nil {
			return uuid.Nil, err
		}
		return claims.UserID, nil
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
	}

	// Invitation accept (public; the token is the credential)
	router.POST("/invitations/:token/accept", invHandler.Accept)

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		// Users
		api.GET("/users", middleware.RequireRole("admin"), authHandler.List)
		api.GET("/users/:id", authHandler.GetUser)
		api.PUT("/users/:id", authHandler.UpdateUser)

		// Organizations
		api.GET("/organizations", orgHandler.ListMine)
		api.POST("/organizations", orgHandler.CreateOrganization)
		api.POST("/organizations/:id/join", orgHandler.Join)
		api.GET("/organizations/:id/members", orgHandler.ListMembers)
		api.GET("/organizations/:id/roles", orgHandler.ListStaffRoles)
		api.POST("/organizations/:id/roles", orgHandler.CreateStaffRole)
		api.GET("/organizations/:id/summary", analyticsHandler.OrgSummary)

		// Invitations
		api.POST("/organizations/:id/invitations", invHandler.Create)
		api.GET("/organizations/:id/invitations", invHandler.List)

		// Gigs: list/create are org-scoped by parameter, the rest by the gig row
		api.GET("/gigs", gigHandler.List)
		api.POST("/gigs", gigHandler.Create)
		api.GET("/gigs/:id", gigs.RequireAccess(gigRepo, orgRepo, false), gigHandler.Get)
		api.PUT("/gigs/:id", gigs.RequireAccess(gigRepo, orgRepo, true), gigHandler.Save)
		api.DELETE("/gigs/:id", gigs.RequireAccess(gigRepo, orgRepo, true), gigHandler.Delete)
		api.DELETE("/gigs/:id/bids/:bidId", gigs.RequireAccess(gigRepo, orgRepo, true), gigHandler.DeleteBid)
		api.DELETE("/gigs/:id/kit-assignments/:assignmentId", gigs.RequireAccess(gigRepo, orgRepo, true), gigHandler.DeleteKitAssignment)
		api.POST("/gigs/:id/accept", gigHandler.Accept)
		api.POST("/gigs/:id/decline", gigHandler.Decline)

		// Kits
		api.GET("/organizations/:id/kits", kitHandler.List)
		api.POST("/organizations/:id/kits", kitHandler.Create)
		api.POST("/kits/:id/attachments/upload-url", kitHandler.CreateUploadURL)
		api.GET("/kits/:id/attachments", kitHandler.ListAttachments)
		api.GET("/attachments/:id/download-url", kitHandler.DownloadURL)
		api.DELETE("/attachments/:id", kitHandler.DeleteAttachment)

		// Places (venue lookup proxy)
		api.GET("/places/search", placesHandler.Search)
		api.GET("/places/:placeId", placesHandler.Details)
	}

	// WebSocket (token in query; no Authorization header required)
	router.GET("/ws", realtime.ServeWs(hub, orgRepo, logger, jwtValidate))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
