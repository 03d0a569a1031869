package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/arjuns-sics/intelligent-learning-platform/api/handler"
	"github.com/arjuns-sics/intelligent-learning-platform/internal/config"
	"github.com/arjuns-sics/intelligent-learning-platform/internal/infrastructure/monitor"
	pgInfra "github.com/arjuns-sics/intelligent-learning-platform/internal/infrastructure/postgres"
	redisInfra "github.com/arjuns-sics/intelligent-learning-platform/internal/infrastructure/redis"
	"github.com/arjuns-sics/intelligent-learning-platform/internal/middleware"
	"github.com/arjuns-sics/intelligent-learning-platform/internal/router"
	"github.com/arjuns-sics/intelligent-learning-platform/internal/services/lifecycle"
	"github.com/arjuns-sics/intelligent-learning-platform/pkg/httpcontext"
	"github.com/arjuns-sics/intelligent-learning-platform/pkg/logger"
	"github.com/arjuns-sics/intelligent-learning-platform/pkg/token"
	pgRepo "github.com/arjuns-sics/intelligent-learning-platform/repository/postgres"
	redisRepo "github.com/arjuns-sics/intelligent-learning-platform/repository/redis"
	authUC "github.com/arjuns-sics/intelligent-learning-platform/usecase/auth"
	profileUC "github.com/arjuns-sics/intelligent-learning-platform/usecase/profile"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:       cfg.Logger.Level,
		Encoding:    cfg.Logger.Encoding,
		Development: !cfg.IsProduction(),
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

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

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	mon := monitor.New(pool, redisClient, cfg.Cache.CheckInterval, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := pgRepo.NewUserRepository(pool)
	profileCache := redisRepo.NewProfileCache(redisClient, cfg.Cache.ProfileTTL)
	issuer := token.New(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiry)

	authUseCase := authUC.New(userRepo, profileCache, issuer, zapLogger)
	profileUseCase := profileUC.New(userRepo, profileCache, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)
	debug := !cfg.IsProduction()

	handlers := router.Handlers{
		Auth:    apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, debug),
		Profile: apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, zapLogger, debug),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger, debug),
		Index:   apiHandler.NewIndexHandler(cfg.AppName, ctxAdapter, zapLogger, debug),
	}

	handler := router.New(handlers, router.Options{
		Auth:   middleware.NewAuth(issuer, zapLogger),
		CORS:   middleware.CORS(cfg.CORSOrigin),
		Logger: zapLogger,
		Debug:  debug,
	})

	server := &fasthttp.Server{
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("environment", cfg.Environment))
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
