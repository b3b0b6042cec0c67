package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/shulware/shulware/internal/app"
	"github.com/shulware/shulware/internal/auth"
	"github.com/shulware/shulware/internal/identity"
	"github.com/shulware/shulware/internal/invite"
	"github.com/shulware/shulware/internal/mail"
	"github.com/shulware/shulware/internal/members"
	"github.com/shulware/shulware/internal/org"
	"github.com/shulware/shulware/internal/platform/cache"
	"github.com/shulware/shulware/internal/platform/db"
	"github.com/shulware/shulware/internal/provision"
	"github.com/shulware/shulware/internal/session"
	"github.com/shulware/shulware/internal/tenancy"
	"github.com/shulware/shulware/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	identityRepo := identity.NewRepository(dbpool)
	identityService := identity.NewService(identityRepo)

	grantRepo := tenancy.NewRepository(dbpool)
	orgRepo := org.NewRepository(dbpool)
	memberRepo := members.NewRepository(dbpool)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	authMiddleware := auth.Middleware{
		Tokens: tokens,
		Stores: func() *session.Store {
			return session.NewStore(grantRepo, identityRepo, redisClient, cfg.GrantCacheTTL, logger)
		},
		Logger: logger,
	}
	authHandler := auth.NewHandler(logger, identityService, tokens)

	mailer := mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)

	jobsClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	provisionService := provision.NewService(identityService, orgRepo, grantRepo, jobsClient, logger)
	provisionHandler := provision.NewHandler(logger, provisionService)

	inviteService := invite.NewService(memberRepo, identityService, mailer, cfg.PortalBaseURL, logger)
	inviteHandler := invite.NewHandler(logger, inviteService, authMiddleware)

	orgHandler := org.NewHandler(logger, orgRepo, authMiddleware)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		AuthHandler:      authHandler,
		ProvisionHandler: provisionHandler,
		InviteHandler:    inviteHandler,
		OrgHandler:       orgHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
