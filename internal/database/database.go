package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"bazaar_back_end/internal/config"
	"bazaar_back_end/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Shared clients, set once by ConnectDatabases. Optional backends stay nil when not configured.
var (
	Postgres *gorm.DB
	Redis    *redis.Client
	Elastic  *elasticsearch.Client
	MinIO    *minio.Client
)

// ConnectDatabases opens every backend. Postgres and Redis are mandatory.
func ConnectDatabases(cfg *config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := OpenPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Postgres connection failed: %v", err)
	}
	Postgres = db
	log.Println("✅ Connected to Postgres")

	connectRedis(ctx, cfg)

	if cfg.ElasticURL != "" {
		connectElastic(cfg)
	} else {
		log.Println("⚠️ ELASTIC_URL not set, product search falls back to SQL")
	}

	if cfg.MinIOEndpoint != "" {
		connectMinIO(ctx, cfg)
	} else {
		log.Println("⚠️ MINIO_ENDPOINT not set, product image upload disabled")
	}

	if len(cfg.ScyllaHosts) > 0 {
		if err := InitScyllaDB(cfg); err != nil {
			log.Printf("⚠️ ScyllaDB unavailable, order timeline disabled: %v", err)
		}
	} else {
		log.Println("⚠️ SCYLLA_HOSTS not set, order timeline disabled")
	}

	log.Println("✅ Databases ready")
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// OpenPostgres opens the pool and pings it.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the relational schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Review{},
		&models.CartItem{},
		&models.WishlistItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close releases every open client.
func Close() {
	if Postgres != nil {
		if sqlDB, err := Postgres.DB(); err == nil {
			sqlDB.Close()
		}
	}
	if Redis != nil {
		Redis.Close()
	}
	CloseScylla()
	log.Println("🔌 Database connections closed")
}

func connectRedis(ctx context.Context, cfg *config.Config) {
	Redis = redis.NewClient(&redis.Options{
		Addr:         cfg.RedisHost,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	if err := Redis.Ping(ctx).Err(); err != nil {
		log.Fatal("❌ Redis connection failed: ", err)
	}
	log.Println("✅ Connected to Redis")
}

func connectElastic(cfg *config.Config) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.ElasticURL},
		Username:  cfg.ElasticUser,
		Password:  cfg.ElasticPassword,
	})
	if err != nil {
		log.Printf("⚠️ Elasticsearch client error: %v", err)
		return
	}

	res, err := client.Info()
	if err != nil {
		log.Printf("⚠️ Elasticsearch unreachable: %v", err)
		return
	}
	defer res.Body.Close()

	Elastic = client
	log.Println("✅ Connected to Elasticsearch")
}

func connectMinIO(ctx context.Context, cfg *config.Config) {
	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		log.Printf("⚠️ MinIO client error: %v", err)
		return
	}

	exists, err := client.BucketExists(ctx, cfg.MinIOBucket)
	if err != nil {
		log.Printf("⚠️ MinIO bucket check failed: %v", err)
		return
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinIOBucket, minio.MakeBucketOptions{}); err != nil {
			log.Printf("⚠️ MinIO bucket creation failed: %v", err)
			return
		}
		log.Println("🪣 Bucket created:", cfg.MinIOBucket)
	}

	MinIO = client
	log.Println("✅ Connected to MinIO:", cfg.MinIOEndpoint)
}
