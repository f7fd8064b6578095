package repository

import (
	"context"

	"metagame.wtf/player_profile/internal/domain/model"
)

// PlayerRepository はプレイヤー情報の取得方法を抽象化します。
// 存在しない場合は model.ErrPlayerNotFound を返します。
type PlayerRepository interface {
	FetchByUsername(ctx context.Context, username string) (*model.Player, error)
	FetchByAddress(ctx context.Context, address string) (*model.Player, error)
}
