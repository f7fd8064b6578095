package handler

import (
	"context"
	"errors"
	"strings"

	"connectrpc.com/connect"

	"metagame.wtf/player_profile/internal/domain/model"
	"metagame.wtf/player_profile/internal/usecase"
)

// CollectibleGetter はコレクティブル一覧を取得するユースケースです
type CollectibleGetter interface {
	GetCollectibles(ctx context.Context, owner string) (*model.CollectibleSet, error)
}

// HeroGetter はヒーロー欄の表示データを取得するユースケースです
type HeroGetter interface {
	GetHero(ctx context.Context, key string) (*model.Hero, error)
}

// ProfileHandler はConnectのハンドラー実装です
// プロトコル層（JSONメッセージ）とドメイン層（usecase）を橋渡しします
type ProfileHandler struct {
	collectibles CollectibleGetter
	heroes       HeroGetter
}

var _ ProfileServiceHandler = (*ProfileHandler)(nil)

// NewProfileHandler は新しいProfileHandlerインスタンスを作成します
func NewProfileHandler(collectibles CollectibleGetter, heroes HeroGetter) *ProfileHandler {
	return &ProfileHandler{
		collectibles: collectibles,
		heroes:       heroes,
	}
}

// ListCollectibles はオーナーのコレクティブル一覧を返すRPCハンドラーです
func (h *ProfileHandler) ListCollectibles(
	ctx context.Context,
	req *connect.Request[ListCollectiblesRequest],
) (*connect.Response[ListCollectiblesResponse], error) {
	set, err := h.collectibles.GetCollectibles(ctx, req.Msg.Owner)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &ListCollectiblesResponse{
		Owner:        set.Owner,
		Collectibles: toCollectibles(set.Items),
		Favorites:    toCollectibles(set.Favorites),
	}
	return connect.NewResponse(resp), nil
}

// GetPlayerHero はプレイヤーのヒーロー欄を返すRPCハンドラーです
// アドレスが指定されていればユーザー名より優先します
func (h *ProfileHandler) GetPlayerHero(
	ctx context.Context,
	req *connect.Request[GetPlayerHeroRequest],
) (*connect.Response[GetPlayerHeroResponse], error) {
	key := strings.TrimSpace(req.Msg.Address)
	if key == "" {
		key = strings.TrimSpace(req.Msg.Username)
	}

	hero, err := h.heroes.GetHero(ctx, key)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(toHeroResponse(hero)), nil
}

// toConnectError はドメインのエラーをConnectのエラーコードに変換します
func toConnectError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidOwner), errors.Is(err, usecase.ErrMissingLookupKey):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, model.ErrPlayerNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func toCollectibles(items []*model.Collectible) []Collectible {
	out := make([]Collectible, 0, len(items))
	for _, c := range items {
		if c == nil {
			continue
		}
		out = append(out, Collectible{
			Address:     c.Address,
			TokenID:     c.TokenID,
			Title:       c.Title,
			ImageURL:    c.ImageURL,
			OpenSeaLink: c.OpenSeaLink,
			PriceString: c.PriceString,
		})
	}
	return out
}

func toHeroResponse(hero *model.Hero) *GetPlayerHeroResponse {
	resp := &GetPlayerHeroResponse{
		Username:     hero.Username,
		Address:      hero.Address,
		Name:         hero.Name,
		Bio:          hero.Bio,
		BioTruncated: hero.BioTruncated,
		FullBio:      hero.FullBio,
		Availability: hero.Availability,
		Emoji:        hero.Emoji,
		Pronouns:     hero.Pronouns,
	}

	if tz := hero.TimeZone; tz.Specified {
		resp.TimeZone = &TimeZone{
			Name:         tz.Name,
			Abbreviation: tz.Abbreviation,
			UTCLabel:     tz.UTCLabel,
			ShortLabel:   tz.ShortLabel,
		}
	}

	if cd := hero.ColorDisposition; cd.Specified {
		resp.ColorDisposition = &ColorDisposition{
			Mask:     cd.Mask,
			Bits:     cd.Bits,
			Aspects:  cd.Aspects,
			RadarURL: cd.RadarURL,
		}
	}

	if hero.ExplorerType != nil {
		resp.ExplorerType = &ExplorerType{
			Title:       hero.ExplorerType.Title,
			Description: hero.ExplorerType.Description,
		}
	}
	return resp
}
