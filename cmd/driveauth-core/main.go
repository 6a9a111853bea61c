package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/keepsake-labs/driveauth-core/internal/adapters/driven/auth"
	boltstore "github.com/keepsake-labs/driveauth-core/internal/adapters/driven/bolt"
	"github.com/keepsake-labs/driveauth-core/internal/adapters/driven/google"
	"github.com/keepsake-labs/driveauth-core/internal/adapters/driven/memory"
	"github.com/keepsake-labs/driveauth-core/internal/adapters/driven/notify"
	"github.com/keepsake-labs/driveauth-core/internal/adapters/driven/postgres"
	redisadapter "github.com/keepsake-labs/driveauth-core/internal/adapters/driven/redis"
	httpserver "github.com/keepsake-labs/driveauth-core/internal/adapters/driving/http"
	"github.com/keepsake-labs/driveauth-core/internal/config"
	"github.com/keepsake-labs/driveauth-core/internal/core/ports/driven"
	"github.com/keepsake-labs/driveauth-core/internal/core/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	log.Printf("driveauth-core %s starting", cfg.Version)

	creds, err := cfg.GoogleCredentials()
	if err != nil {
		log.Fatalf("Failed to load Google credentials: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutdown signal received, stopping...")
		cancel()
	}()

	// ===== Initialize Redis (optional) =====
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		log.Println("Connecting to Redis...")
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Println("Redis connected")
	}

	// ===== Token store: Postgres, then Redis, then local bolt file =====
	var (
		tokenStore driven.TokenStore
		dbPinger   httpserver.Pinger
	)
	switch {
	case cfg.DatabaseURL != "":
		log.Println("Connecting to PostgreSQL...")
		db, err := postgres.Connect(ctx, postgres.DefaultConfig(cfg.DatabaseURL))
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.InitSchema(ctx); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}

		key, err := cfg.EncryptionKey()
		if err != nil {
			log.Fatalf("Failed to load encryption key: %v", err)
		}
		encryptor, err := postgres.NewTokenEncryptor(key)
		if err != nil {
			log.Fatalf("Failed to create token encryptor: %v", err)
		}

		tokenStore = postgres.NewTokenStore(db, encryptor)
		dbPinger = db
		log.Println("PostgreSQL token store ready")

	case redisClient != nil:
		tokenStore = redisadapter.NewTokenStore(redisClient)
		log.Println("Redis token store ready")

	default:
		store, err := boltstore.Open(cfg.BoltPath)
		if err != nil {
			log.Fatalf("Failed to open token store: %v", err)
		}
		defer store.Close()
		tokenStore = store
		log.Printf("Local token store ready at %s", cfg.BoltPath)
	}

	// ===== Relay and lock: Redis when available, in-process otherwise =====
	var (
		relay       driven.MessageRelay
		lock        driven.DistributedLock
		redisPinger httpserver.Pinger
	)
	if redisClient != nil {
		relay = redisadapter.NewRelay(redisClient)
		lock = redisadapter.NewLock(redisClient)
		redisPinger = redisadapter.NewTokenStore(redisClient)
	} else {
		relay = memory.NewRelay()
		lock = memory.NewLock()
	}

	notifier := notify.NewNotifier(logger, redisClient)

	// ===== Driven adapters =====
	oauthClient := google.NewOAuthClient()
	driveClient := google.NewDriveClient()
	authAdapter := auth.NewAdapter(cfg.JWTSecret)

	// ===== Core services =====
	oauthService := services.NewOAuthService(services.OAuthServiceConfig{
		Credentials: creds,
		Exchanger:   oauthClient,
		Logger:      logger,
	})
	callbackService := services.NewCallbackService(services.CallbackServiceConfig{
		OAuth:  oauthService,
		Relay:  relay,
		Logger: logger,
	})
	authService := services.NewAuthService(services.AuthServiceConfig{
		PasswordHash: cfg.AdminPasswordHash,
		Adapter:      authAdapter,
		Logger:       logger,
	})
	tokenAdminService := services.NewTokenAdminService(services.TokenAdminServiceConfig{
		Store:  tokenStore,
		OAuth:  oauthService,
		Logger: logger,
	})
	uploadService := services.NewUploadService(services.UploadServiceConfig{
		Store:    tokenStore,
		OAuth:    oauthService,
		Uploader: driveClient,
		Logger:   logger,
	})

	// ===== Auth listener =====
	listener := services.NewAuthListener(services.AuthListenerConfig{
		Relay:    relay,
		Store:    tokenStore,
		Notifier: notifier,
		Lock:     lock,
		Logger:   logger,
	})
	if err := listener.Start(ctx); err != nil {
		log.Fatalf("Failed to start auth listener: %v", err)
	}
	defer listener.Stop()

	// ===== HTTP server =====
	server := httpserver.NewServer(
		httpserver.Config{
			Host:    cfg.Host,
			Port:    cfg.Port,
			Version: cfg.Version,
		},
		oauthService,
		callbackService,
		authService,
		tokenAdminService,
		uploadService,
		dbPinger,
		redisPinger,
	)

	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// newLogger builds the process logger: JSON in production, text
// elsewhere.
func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
