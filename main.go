package main

import (
	"time"

	api "jobtracker-backend/cmd/api"
	authdomain "jobtracker-backend/internal/auth/domain"
	authRepo "jobtracker-backend/internal/auth/repository"
	authUsecase "jobtracker-backend/internal/auth/usecase"
	"jobtracker-backend/internal/demo"
	emaildomain "jobtracker-backend/internal/email/domain"
	emailUsecase "jobtracker-backend/internal/email/usecase"
	"jobtracker-backend/pkg/config"
	"jobtracker-backend/pkg/database"
	"jobtracker-backend/pkg/gmail"
	"jobtracker-backend/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	var log *zap.Logger
	if cfg.Env == "development" {
		log = logger.NewDevelopment()
	} else {
		log = logger.New()
	}
	defer func() { _ = log.Sync() }()

	// Pick the session store: Redis when configured, otherwise Postgres.
	var sessionStore authRepo.SessionStore
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		sessionStore = authRepo.NewRedisSessionStore(client)
		log.Info("using redis session store", zap.String("addr", cfg.RedisAddr))
	} else {
		db, err := database.NewPostgresConnection(cfg.DatabaseDSN)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		if err := db.AutoMigrate(&authdomain.Session{}); err != nil {
			log.Fatal("failed to migrate database", zap.Error(err))
		}
		if err := authRepo.CleanupExpired(db); err != nil {
			log.Warn("failed to clean up expired sessions", zap.Error(err))
		}
		sessionStore = authRepo.NewGormSessionStore(db)
		log.Info("using postgres session store")
	}

	// Gmail service handles both the OAuth flow and message fetching.
	gmailService := gmail.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI, cfg.GmailScope)

	var mailProvider emaildomain.MailProvider = gmailService
	if cfg.DemoMode {
		mailProvider = demo.NewProvider(50, time.Now().UnixNano())
		log.Info("demo mode enabled, serving generated emails")
	}

	// Initialize use cases (dependency injection)
	authUc := authUsecase.NewAuthUsecase(sessionStore, gmailService, cfg, log)
	emailUc := emailUsecase.NewEmailUsecase(mailProvider, sessionStore, cfg, log)

	// Initialize HTTP handler
	handler := api.NewHandler(authUc, emailUc, cfg)

	log.Info("server starting", zap.String("port", cfg.Port))
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
