package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"metagame.wtf/player_profile/internal/config"
	"metagame.wtf/player_profile/internal/domain/model"
	"metagame.wtf/player_profile/internal/infrastructure/metagame"
	"metagame.wtf/player_profile/internal/infrastructure/opensea"
	"metagame.wtf/player_profile/internal/infrastructure/sqlite"
	"metagame.wtf/player_profile/internal/usecase"
)

// collectibleGetter はコレクティブル一覧を取得するユースケースです
type collectibleGetter interface {
	GetCollectibles(ctx context.Context, owner string) (*model.CollectibleSet, error)
}

// heroGetter はヒーロー欄の表示データを取得するユースケースです
type heroGetter interface {
	GetHero(ctx context.Context, key string) (*model.Hero, error)
}

// app はコマンド間で共有する依存関係です
// テストでは collectibles / heroes を事前に差し込みます
type app struct {
	out     io.Writer
	logger  *zap.Logger
	cfgPath string
	verbose bool

	collectibles collectibleGetter
	heroes       heroGetter
	closers      []func() error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{out: &syncWriter{w: os.Stdout}}
	if err := execute(ctx, a, os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

// execute はコマンドを実行し、成否にかかわらず後片付けを行います
// cobra はコマンドが失敗すると PersistentPostRun を呼ばないため、ここで閉じます
func execute(ctx context.Context, a *app, args []string) error {
	defer a.teardown()

	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "profile",
		Short:         "Player profile tools (collectibles, hero view)",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context())
		},
	}
	root.SetOut(a.out)
	root.PersistentFlags().StringVar(&a.cfgPath, "config", os.Getenv(config.ConfigPathEnv), "path to YAML config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newCollectiblesCmd(a),
		newHeroCmd(a),
		newWatchCmd(a),
	)
	return root
}

// setup は設定を読み込み、未設定の依存関係を組み立てます
func (a *app) setup(ctx context.Context) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if a.logger == nil {
		zc := zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(cfg.Level())
		if a.verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err := zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		a.logger = logger
	}

	if a.collectibles == nil {
		opts := []usecase.CollectibleOption{
			usecase.WithLogger(a.logger.Named("collectibles")),
			usecase.WithPageSize(cfg.OpenSeaPageSize),
		}
		if cfg.CachePath != "" {
			store, err := sqlite.Open(ctx, cfg.CachePath, sqlite.WithTTL(cfg.CacheTTL))
			if err != nil {
				return fmt.Errorf("open collectible cache: %w", err)
			}
			a.closers = append(a.closers, store.Close)
			opts = append(opts, usecase.WithCollectibleCache(store))
		}
		assets := opensea.NewOpenSeaClient(cfg.OpenSeaAPIKey, cfg.OpenSeaBaseURL)
		a.collectibles = usecase.NewCollectibleUsecase(assets, opts...)
	}

	if a.heroes == nil {
		a.heroes = usecase.NewPlayerUsecase(metagame.NewPlayerClient(cfg.GraphQLURL), usecase.SystemClock{})
	}
	return nil
}

func (a *app) teardown() {
	for _, c := range a.closers {
		_ = c()
	}
	a.closers = nil
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// syncWriter はタイマーのゴルーチンからの出力を直列化します
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
