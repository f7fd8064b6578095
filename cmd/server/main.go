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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"metagame.wtf/player_profile/internal/config"
	"metagame.wtf/player_profile/internal/handler"
	"metagame.wtf/player_profile/internal/infrastructure/metagame"
	"metagame.wtf/player_profile/internal/infrastructure/opensea"
	"metagame.wtf/player_profile/internal/infrastructure/sqlite"
	"metagame.wtf/player_profile/internal/middleware"
	"metagame.wtf/player_profile/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(cfg.Level())
	logger, err := zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 依存関係の組み立て（依存性注入）
	// 外部APIクライアントを注入することで、腐敗防止層のパターンを実現
	assets := opensea.NewOpenSeaClient(cfg.OpenSeaAPIKey, cfg.OpenSeaBaseURL) // repository.AssetRepository
	players := metagame.NewPlayerClient(cfg.GraphQLURL)                          // repository.PlayerRepository

	opts := []usecase.CollectibleOption{
		usecase.WithLogger(logger.Named("collectibles")),
		usecase.WithPageSize(cfg.OpenSeaPageSize),
	}
	checkers := map[string]middleware.HealthChecker{}
	if cfg.CachePath != "" {
		store, err := sqlite.Open(ctx, cfg.CachePath, sqlite.WithTTL(cfg.CacheTTL))
		if err != nil {
			return fmt.Errorf("open collectible cache: %w", err)
		}
		defer func() {
			_ = store.Close()
		}()
		opts = append(opts, usecase.WithCollectibleCache(store))
		checkers["cache"] = middleware.CheckFunc(store.Ping)
		logger.Info("collectible cache enabled", zap.String("path", cfg.CachePath), zap.Duration("ttl", cfg.CacheTTL))
	}

	collectibleUC := usecase.NewCollectibleUsecase(assets, opts...)
	playerUC := usecase.NewPlayerUsecase(players, usecase.SystemClock{})

	h := handler.NewProfileHandler(collectibleUC, playerUC)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      newRouter(cfg, logger, h, checkers),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("🚀 Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// シグナル待機（Ctrl+Cなど）
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("🛑 Shutting down server...")

	// グレースフルシャットダウン
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("✅ Server exited")
	return nil
}

// newRouter はミドルウェアとConnectハンドラーを組み込んだルーターを作成します
func newRouter(cfg *config.Config, logger *zap.Logger, svc handler.ProfileServiceHandler, checkers map[string]middleware.HealthChecker) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logging(logger.Named("http")))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Connect-Protocol-Version", "Connect-Timeout-Ms", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", middleware.LivenessHandler)
	r.Get("/readyz", middleware.HealthHandler(checkers))

	// Connectハンドラーの登録
	path, h := handler.NewProfileServiceHandler(svc)
	r.Mount(path, h)
	return r
}
