package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danuandrian/commentarium/internal/config"
	httpmiddleware "github.com/danuandrian/commentarium/internal/delivery/http/middleware"
	"github.com/danuandrian/commentarium/internal/exception"
	"github.com/danuandrian/commentarium/internal/middleware"
	"github.com/danuandrian/commentarium/internal/observability"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2/middleware/compress"
	zapLog "go.uber.org/zap"
)

func main() {
	time.Local = time.UTC
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fiber := config.NewFiber()
	zap := config.NewZap()
	koanf := config.NewKoanf(zap)

	config.RunMigration(koanf, zap)

	rds := config.NewRedisClient(koanf, zap)
	postgresql := config.NewPostgresqlPool(koanf, zap)
	minio := config.NewMinIO(koanf, zap)

	observabilityConfig := config.LoadObservabilityConfig(koanf, zap)
	var shutdownTracer func(context.Context) error
	if observabilityConfig.OtelEndpoint != "" {
		var err error
		shutdownTracer, err = observability.Init(context.Background(), observabilityConfig, zap)
		if err != nil {
			zap.Fatal("failed to initialize tracing", zapLog.Error(err))
		}
		fiber.Use(otelfiber.Middleware())
	}

	fiber.Use(exception.Recovery(zap))
	fiber.Use(middleware.TraceLoggerMiddleware(zap))
	fiber.Use(httpmiddleware.SetupCORS(koanf))
	fiber.Use(httpmiddleware.SetupRateLimiter(zap))

	fiber.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	postUsecase := config.Server(&config.ServerConfig{
		Router:  fiber,
		DB:      postgresql,
		DBCache: rds,
		Log:     zap,
		Config:  koanf,
		MinIO:   minio,
	})

	// make sure a post exists so the client always has something to comment on
	_, err := postUsecase.EnsureDemoPost(context.Background())
	if err != nil {
		zap.Fatal("failed to seed demo post", zapLog.Error(err))
	}

	GO_SERVER_PORT := koanf.String("GO_SERVER")

	zap.Info("Server is running on: " + GO_SERVER_PORT)

	go func() {
		err := fiber.Listen(GO_SERVER_PORT)
		if err != nil {
			zap.Fatal("error starting server", zapLog.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	zap.Info("got one of stop signals")

	err = fiber.ShutdownWithContext(ctx)
	if err != nil {
		zap.Warn("timeout, forced kill!", zapLog.Error(err))
		_ = zap.Sync()
		os.Exit(1)
	}

	if shutdownTracer != nil {
		_ = shutdownTracer(ctx)
	}

	zap.Info("server has shut down gracefully")
	_ = zap.Sync()
}
