package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"bais_express/internal/config"
	"bais_express/internal/handler"
	applog "bais_express/internal/log"
	"bais_express/internal/middleware"
	"bais_express/internal/notify"
	"bais_express/internal/repository"
	"bais_express/internal/service"
	"bais_express/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLog := applog.New("development", "info")
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := applog.New(cfg.Environment, cfg.LogLevel)
	if envErr != nil {
		log.Info().Msg("no .env file found, relying on environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database ---
	dbPool, err := config.ConnectDB(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer dbPool.Close()

	if err := config.AutoMigrate(ctx, dbPool, log); err != nil {
		log.Fatal().Err(err).Msg("failed to auto-migrate database")
	}

	// --- Redis (optional, backs single-use reset links) ---
	var (
		redisClient *redis.Client
		ledger      repository.ResetTokenLedger
		redisPinger handler.Pinger
	)
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("failed to connect to redis")
		}
		redisPinger = handler.PingFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() })
		if cfg.Security.ResetSingleUse {
			ledger = repository.NewResetTokenLedger(redisClient)
		}
	}

	// --- Utilities ---
	jwtUtil := utils.NewJWTUtil(cfg.Security.JWTSecret, cfg.Security.ResetSecret,
		utils.WithSessionTTL(cfg.Security.SessionTTL),
		utils.WithResetTTL(cfg.Security.ResetTTL),
	)

	// --- Notifications ---
	mailer := newMailer(cfg, log)
	dispatcher := notify.NewDispatcher(mailer, cfg.Mail.Workers, cfg.Mail.QueueSize, cfg.Mail.SendTimeout, log)
	notifier := notify.NewNotifier(mailer, dispatcher, cfg.Mail.NotifyEmail, cfg.Security.ResetTTL, log)

	// --- Repositories ---
	userRepo := repository.NewUserRepository(dbPool)
	requestCallRepo := repository.NewRequestCallRepository(dbPool)

	// --- Services ---
	authService := service.NewAuthService(userRepo, jwtUtil, notifier, ledger, service.AuthOptions{
		FrontendURL:       cfg.FrontendURL,
		InitialAdminEmail: cfg.Security.InitialAdminEmail,
	}, log)
	requestCallService := service.NewRequestCallService(requestCallRepo, notifier, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	requestCallHandler := handler.NewRequestCallHandler(requestCallService)
	healthHandler := handler.NewHealthHandler(dbPool, redisPinger)

	// --- Router ---
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
		middleware.CORS(cfg.Server.CORSAllowedOrigins),
	)

	authHandler.RegisterAuthRoutes(router)
	requestCallHandler.RegisterRequestCallRoutes(router, middleware.JWTAuthMiddleware(jwtUtil), middleware.AdminMiddleware())
	router.GET("/health", healthHandler.Health)

	if cfg.Server.StaticDir != "" {
		serveStatic(router, cfg.Server.StaticDir, log)
	}

	// --- Server ---
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("pending notifications abandoned")
	}

	log.Info().Msg("server exiting")
}

func newMailer(cfg *config.AppConfig, log zerolog.Logger) notify.Mailer {
	if !cfg.MailEnabled() {
		log.Warn().Msg("EMAIL_USER/EMAIL_PASS not set, emails will only be logged")
		return notify.NewLogMailer(log)
	}
	mailer, err := notify.NewSMTPMailer(notify.SMTPConfig{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		FromName: cfg.Mail.FromName,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure smtp mailer")
	}
	return mailer
}

// serveStatic serves the frontend for any GET that no API route claimed
func serveStatic(router *gin.Engine, dir string, log zerolog.Logger) {
	root, err := filepath.Abs(dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", dir).Msg("invalid static directory")
	}
	fileServer := http.FileServer(http.Dir(root))
	router.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
			return
		}
		fileServer.ServeHTTP(c.Writer, c.Request)
	})
	log.Info().Str("dir", root).Msg("serving static frontend")
}
