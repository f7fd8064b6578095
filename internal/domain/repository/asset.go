package repository

import (
	"context"

	"metagame.wtf/player_profile/internal/domain/model"
)

// AssetRepository はオーナーが保有する資産の取得方法を抽象化します。
// 実装が外部APIなのか、モックなのかはドメイン層は知りません。
// これにより、腐敗防止層（Anti-Corruption Layer）のパターンを実現します。
type AssetRepository interface {
	// FetchAssets は指定されたオーナーの資産を1ページ分取得します
	// 結果が0件の場合は空スライスを返します
	FetchAssets(ctx context.Context, query model.AssetQuery) ([]*model.Asset, error)
}

// CollectibleCache は整形済みコレクティブル一覧のキャッシュです
type CollectibleCache interface {
	// Load はキャッシュ済みの一覧を返します。ヒットしない場合は ok=false です
	Load(ctx context.Context, owner string) (items []*model.Collectible, ok bool, err error)
	// Store は一覧をキャッシュに保存します
	Store(ctx context.Context, owner string, items []*model.Collectible) error
}
