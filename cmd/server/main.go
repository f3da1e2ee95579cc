package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"bazaar_back_end/internal/auth"
	"bazaar_back_end/internal/cache"
	"bazaar_back_end/internal/config"
	"bazaar_back_end/internal/database"
	"bazaar_back_end/internal/messaging"
	"bazaar_back_end/internal/middleware"
	"bazaar_back_end/internal/routes"
	"bazaar_back_end/internal/services"
	"bazaar_back_end/internal/timeline"
	"bazaar_back_end/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database.ConnectDatabases(cfg)
	defer database.Close()

	if err := database.Migrate(database.Postgres); err != nil {
		log.Fatalf("❌ %v", err)
	}
	log.Println("✅ Schema migrated")

	deps, cleanup := buildDependencies(ctx, cfg)
	defer cleanup()

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 Bazaar API listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Forced shutdown: %v", err)
	}
}

// buildDependencies wires the services to whichever backends are configured.
func buildDependencies(ctx context.Context, cfg *config.Config) (routes.Dependencies, func()) {
	var closers []func()

	store := cache.NewStore(database.Redis)
	productCache := cache.NewProductCache(database.Redis)
	notifier := messaging.NewRedisNotifier(database.Redis)

	catalogOpts := services.CatalogOptions{Cache: productCache}
	if database.Elastic != nil {
		catalogOpts.Index = services.NewElasticIndex(database.Elastic, cfg.ElasticIndex)
	}
	if database.MinIO != nil {
		catalogOpts.Images = services.NewMinioImageStore(database.MinIO, cfg.MinIOEndpoint, cfg.MinIOBucket, cfg.MinIOUseSSL)
	}

	dispatch := messaging.DispatcherOptions{Topic: cfg.KafkaOrderTopic, Notifier: notifier}
	orderOpts := services.OrderOptions{Cache: productCache, RequireTrackingMatch: cfg.RequireTrackingMatch}

	if database.Scylla != nil {
		events := timeline.NewStore(database.Scylla)
		if err := events.EnsureSchema(ctx); err != nil {
			log.Printf("⚠️ Order timeline disabled: %v", err)
		} else {
			dispatch.Timeline = events
			orderOpts.Timeline = events
			log.Println("✅ Order timeline ready")
		}
	}

	if len(cfg.KafkaBrokers) > 0 {
		publisher := messaging.NewKafkaPublisher(cfg.KafkaBrokers)
		dispatch.Publisher = publisher
		closers = append(closers, func() {
			if err := publisher.Close(); err != nil {
				log.Printf("⚠️ Kafka writer close: %v", err)
			}
		})
		log.Printf("✅ Kafka publishing to %s", cfg.KafkaOrderTopic)
	} else {
		log.Println("⚠️ KAFKA_BROKERS not set, order events stay local")
	}
	orderOpts.Events = messaging.NewDispatcher(dispatch)

	if cfg.SMTPHost != "" {
		orderOpts.Receipts = utils.NewMailer(utils.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
		log.Println("✅ Payment confirmation emails enabled")
	} else {
		log.Println("⚠️ SMTP_HOST not set, payment emails disabled")
	}

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	users := services.NewUserService(database.Postgres)

	deps := routes.Dependencies{
		Auth:         services.NewAuthService(database.Postgres, tokens, store),
		Users:        users,
		Catalog:      services.NewCatalogService(database.Postgres, catalogOpts),
		Cart:         services.NewCartService(database.Postgres),
		Orders:       services.NewOrderService(database.Postgres, orderOpts),
		Reviews:      services.NewReviewService(database.Postgres, productCache),
		Sales:        services.NewSalesService(database.Postgres),
		Limiter:      middleware.NewRateLimiter(store),
		Events:       notifier,
		PDF:          utils.NewPDFRenderer(cfg.InvoiceTimeout),
		OAuthEnabled: auth.InitProviders(cfg),
	}

	return deps, func() {
		for _, c := range closers {
			c()
		}
	}
}
