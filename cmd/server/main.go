package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/murmur-social/murmur/internal/config"
	"github.com/murmur-social/murmur/internal/feed"
	"github.com/murmur-social/murmur/internal/handlers"
	"github.com/murmur-social/murmur/internal/identity"
	"github.com/murmur-social/murmur/internal/logger"
	"github.com/murmur-social/murmur/internal/storage"
	"github.com/murmur-social/murmur/internal/store"
)

func main() {
	if err := config.Load(); err != nil {
		panic(err)
	}
	if err := logger.Initialize(config.Get("LOG_LEVEL", "info"), config.Get("LOG_FILE", "server.log")); err != nil {
		panic(err)
	}
	defer logger.Close()
	log := logger.Log

	log.Info("Murmur server starting")

	// Document store: postgres when configured, in-memory otherwise.
	// The in-memory store is fine for local development, it holds nothing
	// across restarts.
	var st store.Store
	if dsn := config.Get("DATABASE_URL", ""); dsn != "" {
		pg, err := store.NewPostgresStore(dsn, config.Get("GIN_MODE", "") != "release")
		if err != nil {
			log.Fatal("Failed to connect to postgres", zap.Error(err))
		}
		defer pg.Close()
		st = pg
		log.Info("Using postgres document store")
	} else {
		st = store.NewMemoryStore()
		log.Warn("DATABASE_URL not set, using in-memory store")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     config.Get("REDIS_ADDR", "localhost:6379"),
		Password: config.Get("REDIS_PASSWORD", ""),
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	jwtSecret, ok := config.Require("JWT_SECRET")
	if !ok {
		log.Fatal("JWT_SECRET environment variable is required")
	}
	provider := identity.NewService(st, rdb, []byte(jwtSecret))
	sessions := identity.NewSessionHolder()

	svc := feed.NewService(st, log)
	svc.SetPageSize(config.GetInt("FEED_PAGE_SIZE", feed.DefaultPageSize))
	lifecycle := feed.NewLifecycle(svc, log)
	unbind := lifecycle.Bind(sessions)
	defer unbind()

	var uploader storage.Uploader
	if bucket := config.Get("AWS_BUCKET", ""); bucket != "" {
		s3, err := storage.NewS3Uploader(
			config.Get("AWS_REGION", "us-east-1"),
			bucket,
			config.Get("CDN_BASE_URL", ""),
		)
		if err != nil {
			log.Fatal("Failed to initialize S3 uploader", zap.Error(err))
		}
		if err := s3.CheckBucketAccess(context.Background()); err != nil {
			log.Warn("S3 bucket access check failed, uploads may fail", zap.Error(err))
		}
		uploader = s3
	} else {
		log.Warn("AWS_BUCKET not set, using in-memory uploader")
		uploader = storage.NewMockUploader()
	}

	if config.Get("GIN_MODE", "") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.Get("CORS_ORIGIN", "*")}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "murmur",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := handlers.NewHandlers(svc, lifecycle, provider, sessions, uploader, log)
	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              ":" + config.Get("PORT", "8787"),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
}
