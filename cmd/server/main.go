package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/tidylist/backend/api/handler"
	"github.com/tidylist/backend/internal/config"
	"github.com/tidylist/backend/internal/identity"
	"github.com/tidylist/backend/internal/infrastructure/monitor"
	pgInfra "github.com/tidylist/backend/internal/infrastructure/postgres"
	redisInfra "github.com/tidylist/backend/internal/infrastructure/redis"
	"github.com/tidylist/backend/internal/middleware"
	"github.com/tidylist/backend/internal/router"
	"github.com/tidylist/backend/internal/services/lifecycle"
	"github.com/tidylist/backend/internal/session"
	"github.com/tidylist/backend/pkg/httpcontext"
	"github.com/tidylist/backend/pkg/logger"
	"github.com/tidylist/backend/repository/postgres"
	redisRepo "github.com/tidylist/backend/repository/redis"
	authUC "github.com/tidylist/backend/usecase/auth"
	todoUC "github.com/tidylist/backend/usecase/todo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	appCtx, stop := manager.Notify(context.Background())
	defer stop()

	// Missing secret is fatal before any listener opens.
	codec, err := session.NewCodec(cfg.Session.Secret)
	if err != nil {
		zapLogger.Fatal("session codec init failed", zap.Error(err))
	}
	sessionStore := session.NewStore(codec, session.CookieConfig{
		Name:   cfg.Session.CookieName,
		MaxAge: cfg.Session.MaxAge,
		Secure: cfg.Session.Secure,
	}, zapLogger)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(appCtx, cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	mon := monitor.New(pool, redisClient, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := redisRepo.NewCachedUserRepository(redisClient, postgres.NewUserRepository(pool), cfg.Redis.UserTTL)
	todoRepo := postgres.NewTodoRepository(pool)

	provider := identity.New(identity.Config{
		URL:       cfg.Identity.URL,
		APIKey:    cfg.Identity.APIKey,
		JWTSecret: cfg.Identity.JWTSecret,
		Timeout:   cfg.Identity.Timeout,
	}, zapLogger)

	authUseCase := authUC.New(provider, userRepo, zapLogger)
	todoUseCase := todoUC.New(todoRepo, userRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(authUseCase, sessionStore, ctxAdapter, zapLogger),
		Todo:   apiHandler.NewTodoHandler(todoUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	guard := middleware.RequireIdentity(sessionStore, zapLogger)
	loginGuard := middleware.RedirectIfAuthenticated(sessionStore, "/dashboard")
	r := router.New(handlers, guard, loginGuard)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
