package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"metagame.wtf/player_profile/internal/domain/model"
	"metagame.wtf/player_profile/internal/domain/repository"
)

// DefaultPageSize は1リクエストあたりに取得する資産の件数です
const DefaultPageSize = 50

// favoriteCount はお気に入りとして扱う先頭の件数です
const favoriteCount = 3

// DefaultFetchTimeout は同一オーナーで共有する取得処理全体の上限時間です
const DefaultFetchTimeout = 5 * time.Minute

// ErrInvalidOwner はオーナーアドレスが空の場合のエラーです
var ErrInvalidOwner = errors.New("owner address is required")

// CollectibleUsecase はオーナーが保有するコレクティブルの取得を担当します
// 外部APIクライアントはコンストラクタで注入し、グローバルな状態を持ちません
type CollectibleUsecase struct {
	repo     repository.AssetRepository
	cache    repository.CollectibleCache
	logger   *zap.Logger
	pageSize int
	timeout  time.Duration
	group    singleflight.Group
}

// CollectibleOption はCollectibleUsecaseの任意設定です
type CollectibleOption func(*CollectibleUsecase)

// WithCollectibleCache は取得結果のキャッシュを設定します
func WithCollectibleCache(cache repository.CollectibleCache) CollectibleOption {
	return func(u *CollectibleUsecase) {
		u.cache = cache
	}
}

// WithLogger はロガーを設定します
func WithLogger(logger *zap.Logger) CollectibleOption {
	return func(u *CollectibleUsecase) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// WithPageSize は1ページあたりの件数を上書きします。0以下は無視します
func WithPageSize(size int) CollectibleOption {
	return func(u *CollectibleUsecase) {
		if size > 0 {
			u.pageSize = size
		}
	}
}

// WithFetchTimeout は共有する取得処理の上限時間を上書きします。0以下は無視します
func WithFetchTimeout(d time.Duration) CollectibleOption {
	return func(u *CollectibleUsecase) {
		if d > 0 {
			u.timeout = d
		}
	}
}

// NewCollectibleUsecase は新しいCollectibleUsecaseインスタンスを作成します
func NewCollectibleUsecase(repo repository.AssetRepository, opts ...CollectibleOption) *CollectibleUsecase {
	u := &CollectibleUsecase{
		repo:     repo,
		logger:   zap.NewNop(),
		pageSize: DefaultPageSize,
		timeout:  DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// GetCollectibles はオーナーのコレクティブル一覧とお気に入りを返します
// キャッシュがあればそれを使い、同一オーナーへの同時リクエストは1回の取得にまとめます
// 1人の呼び出し元がキャンセルしても、他の呼び出し元の取得は続行されます
func (u *CollectibleUsecase) GetCollectibles(ctx context.Context, owner string) (*model.CollectibleSet, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, ErrInvalidOwner
	}
	key := strings.ToLower(owner)

	// 取得処理は合流した全員で共有するため、呼び出し元のキャンセルから切り離す
	// 各呼び出し元は自分のコンテキストが終わった時点で待つのをやめる
	ch := u.group.DoChan(key, func() (any, error) {
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), u.timeout)
		defer cancel()
		return u.loadThrough(runCtx, owner, key)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	items := res.Val.([]*model.Collectible)

	favorites := items
	if len(favorites) > favoriteCount {
		favorites = favorites[:favoriteCount]
	}
	return &model.CollectibleSet{
		Owner:     owner,
		Items:     items,
		Favorites: favorites,
	}, nil
}

func (u *CollectibleUsecase) loadThrough(ctx context.Context, owner, key string) ([]*model.Collectible, error) {
	if u.cache != nil {
		items, ok, err := u.cache.Load(ctx, key)
		switch {
		case err != nil:
			u.logger.Warn("collectible cache load failed", zap.String("owner", owner), zap.Error(err))
		case ok:
			return items, nil
		}
	}

	items, err := u.FetchAll(ctx, owner)
	if err != nil {
		return nil, err
	}

	// キャンセルで途中終了した結果はキャッシュしない
	if u.cache != nil && ctx.Err() == nil {
		if err := u.cache.Store(ctx, key, items); err != nil {
			u.logger.Warn("collectible cache store failed", zap.String("owner", owner), zap.Error(err))
		}
	}
	return items, nil
}

// FetchAll はオーナーの資産をページ単位で順番に取得し、表示可能なものだけを返します
// 表示可能な資産が1件もないページが返った時点で終了します。取得に失敗したページは空として扱うため、
// それまでに取得できた分だけが返ります
func (u *CollectibleUsecase) FetchAll(ctx context.Context, owner string) ([]*model.Collectible, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, ErrInvalidOwner
	}

	items := make([]*model.Collectible, 0)
	for offset := 0; ; offset += u.pageSize {
		assets := u.fetchPage(ctx, model.AssetQuery{Owner: owner, Offset: offset, Limit: u.pageSize})
		page := parseAssets(assets)
		if len(page) == 0 {
			break
		}
		items = append(items, page...)
	}

	u.logger.Debug("collectibles fetched", zap.String("owner", owner), zap.Int("count", len(items)))
	return items, nil
}

// fetchPage は1ページ分を取得します。エラーはログに残して空ページとして扱います
func (u *CollectibleUsecase) fetchPage(ctx context.Context, query model.AssetQuery) []*model.Asset {
	assets, err := u.repo.FetchAssets(ctx, query)
	if err != nil {
		u.logger.Error("error retrieving marketplace assets",
			zap.String("owner", query.Owner),
			zap.Int("offset", query.Offset),
			zap.Error(err),
		)
		return nil
	}
	return assets
}

// parseAssets は資産をCollectibleに変換し、タイトルか画像のないものを除外します
func parseAssets(assets []*model.Asset) []*model.Collectible {
	out := make([]*model.Collectible, 0, len(assets))
	for _, a := range assets {
		if a == nil {
			continue
		}
		c := &model.Collectible{
			Address:     a.ContractAddress,
			TokenID:     a.TokenID,
			Title:       a.Name,
			ImageURL:    a.ImageURL,
			OpenSeaLink: a.Permalink,
			PriceString: PriceString(a.LastSale),
		}
		if c.Title == "" || c.ImageURL == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}
