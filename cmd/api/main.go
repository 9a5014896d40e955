package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"menu-planner/internal/api"
	"menu-planner/internal/core/menu"
	"menu-planner/internal/core/nutrition"
	"menu-planner/internal/core/recipe"
	"menu-planner/internal/infrastructure/config"
	"menu-planner/internal/infrastructure/store"
	"menu-planner/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// logger needs the loaded config
	if err := common.InitLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("Configuration loaded",
		zap.String("store_driver", cfg.Store.Driver),
		zap.Int("menu_window", cfg.Menu.Window),
		zap.String("date_layout", cfg.Menu.DateLayout),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	openCtx, cancelOpen := context.WithTimeout(context.Background(), 10*time.Second)
	st, err := store.Open(openCtx, cfg)
	cancelOpen()
	if err != nil {
		common.LogFatal("Failed to open store", zap.Error(err))
	}
	defer st.Close()

	cache := nutrition.NewCache(cfg.Cache)
	defer cache.Close()

	recipes := recipe.NewService(st, cache, cfg.Nutrition.Workers)

	selector := menu.NewSelector(cfg.Menu.Window, menu.NewRand(cfg.Menu.Seed))
	planner := menu.NewPlanner(st, st, selector, cfg.Menu)
	queue := menu.NewQueue(cfg.Queue.MaxSize)
	defer queue.Close()
	scheduler := menu.NewScheduler(planner, queue)

	router := api.SetupRouter(cfg, api.Deps{
		Planner:     scheduler,
		Recipes:     recipes,
		Store:       st,
		QueueStatus: scheduler.Status,
		CacheStats:  cache.Stats,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("Starting application",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	common.LogInfo("Server exited")
}
