package usecase

import (
	"context"
	"errors"
	"strings"

	"metagame.wtf/player_profile/internal/domain/model"
	"metagame.wtf/player_profile/internal/domain/repository"
)

// ErrMissingLookupKey はユーザー名もアドレスも指定されていない場合のエラーです
var ErrMissingLookupKey = errors.New("username or address is required")

// PlayerUsecase はプレイヤー情報とプロフィール表示データの取得を担当します
type PlayerUsecase struct {
	repo  repository.PlayerRepository
	clock Clock
}

// NewPlayerUsecase は新しいPlayerUsecaseインスタンスを作成します
// clock がnilの場合はシステム時刻を使います
func NewPlayerUsecase(repo repository.PlayerRepository, clock Clock) *PlayerUsecase {
	if clock == nil {
		clock = SystemClock{}
	}
	return &PlayerUsecase{
		repo:  repo,
		clock: clock,
	}
}

// GetPlayer はユーザー名またはアドレスからプレイヤーを取得します
// "0x" で始まる値はアドレスとして扱います
func (u *PlayerUsecase) GetPlayer(ctx context.Context, key string) (*model.Player, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrMissingLookupKey
	}
	if IsAddress(key) {
		return u.repo.FetchByAddress(ctx, strings.ToLower(key))
	}
	return u.repo.FetchByUsername(ctx, key)
}

// GetHero はプレイヤーを取得し、ヒーロー欄の表示データを返します
func (u *PlayerUsecase) GetHero(ctx context.Context, key string) (*model.Hero, error) {
	p, err := u.GetPlayer(ctx, key)
	if err != nil {
		return nil, err
	}
	return BuildHero(p, u.clock.Now()), nil
}

// IsAddress はEthereumアドレス形式（0x + 16進数40桁）かどうかを判定します
func IsAddress(s string) bool {
	if len(s) != 42 || !strings.HasPrefix(strings.ToLower(s), "0x") {
		return false
	}
	for _, c := range s[2:] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
