package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/cache"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/configs"
	database "github.com/yourdesigncoza/wecoza-core-sub001/internals/databases"
	helper "github.com/yourdesigncoza/wecoza-core-sub001/internals/helpers"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/logger"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/middlewares"
	routes "github.com/yourdesigncoza/wecoza-core-sub001/internals/route"
)

func main() {
	configs.LoadEnv()
	cfg, err := configs.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Initialize(cfg.LogJSON); err != nil {
		panic(err)
	}
	defer logger.Sync()

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		ErrorHandler:            helper.ErrorHandler,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	middlewares.SetupMiddlewares(app, cfg)

	// DB connect + pool + warm-up
	db, err := database.ConnectDB(cfg.DB)
	if err != nil {
		logger.Logger.Fatalw("database unavailable", "error", err)
	}
	database.TunePool(db, cfg.DB)
	database.WarmUp(db)

	store, err := cache.OpenBadger(cfg.Cache.Dir)
	if err != nil {
		logger.Logger.Fatalw("cache unavailable", "dir", cfg.Cache.Dir, "error", err)
	}
	loader := cache.NewLoader(store, cfg.Cache.TTL)

	routes.SetupRoutes(app, db, loader, cfg)

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 90 * time.Second // CSV exports stream for up to a minute
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		logger.Logger.Infow("listening", "port", cfg.Port)
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			logger.Logger.Fatalw("server error", "error", err)
		}
	}()

	// graceful shutdown, then close cache and pool
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if err := store.Close(); err != nil {
		logger.Logger.Warnw("cache close failed", "error", err)
	}
	database.Close(db)
}
