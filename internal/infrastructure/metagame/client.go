package metagame

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"metagame.wtf/player_profile/internal/domain/model"
	"metagame.wtf/player_profile/internal/domain/repository"
)

// DefaultGraphQLURL はプラットフォームのHasuraエンドポイントです
const DefaultGraphQLURL = "https://api.metagame.wtf/v1/graphql"

const playerFields = `
  id
  ethereumAddress
  profile {
    username
    name
    description
    emoji
    pronouns
    timeZone
    availableHours
    colorMask
    explorerType {
      title
      description
    }
  }`

const playerByUsernameQuery = `query GetPlayerByUsername($username: String!) {
  player(where: { profile: { username: { _ilike: $username } } }, limit: 1) {` + playerFields + `
  }
}`

const playerByAddressQuery = `query GetPlayerByAddress($address: String!) {
  player(where: { ethereumAddress: { _eq: $address } }, limit: 1) {` + playerFields + `
  }
}`

// playerClient はGraphQL経由でプレイヤーを取得する実装です
// 腐敗防止層として、GraphQLのレスポンス構造をドメインモデルに変換します
type playerClient struct {
	client   *http.Client
	endpoint string
}

// NewPlayerClient は新しいプレイヤークライアントを作成します
// endpoint が空の場合は DefaultGraphQLURL を使います
func NewPlayerClient(endpoint string) repository.PlayerRepository {
	if endpoint == "" {
		endpoint = DefaultGraphQLURL
	}
	return newPlayerClient(&http.Client{Timeout: 30 * time.Second}, endpoint)
}

// newPlayerClient はテスト容易性のための内部コンストラクタです
func newPlayerClient(client *http.Client, endpoint string) *playerClient {
	return &playerClient{client: client, endpoint: endpoint}
}

// FetchByUsername はユーザー名でプレイヤーを取得します
// 大文字小文字は区別しませんが、ワイルドカードは使えません
func (c *playerClient) FetchByUsername(ctx context.Context, username string) (*model.Player, error) {
	return c.fetchOne(ctx, playerByUsernameQuery, map[string]any{"username": escapeLike(username)})
}

// likeEscaper は _ilike のパターン文字をリテラルとして扱うためにエスケープします
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// FetchByAddress はイーサリアムアドレスでプレイヤーを取得します
// アドレスは小文字で保存されているため小文字に変換して検索します
func (c *playerClient) FetchByAddress(ctx context.Context, address string) (*model.Player, error) {
	return c.fetchOne(ctx, playerByAddressQuery, map[string]any{"address": strings.ToLower(address)})
}

func (c *playerClient) fetchOne(ctx context.Context, query string, vars map[string]any) (*model.Player, error) {
	var data struct {
		Player []rawPlayer `json:"player"`
	}
	if err := postGraphQL(ctx, c.client, c.endpoint, query, vars, &data); err != nil {
		return nil, err
	}
	if len(data.Player) == 0 {
		return nil, fmt.Errorf("%w: %v", model.ErrPlayerNotFound, vars)
	}
	return data.Player[0].toModel(), nil
}

type rawPlayer struct {
	ID              string      `json:"id"`
	EthereumAddress string      `json:"ethereumAddress"`
	Profile         *rawProfile `json:"profile"`
}

type rawProfile struct {
	Username       *string `json:"username"`
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	Emoji          *string `json:"emoji"`
	Pronouns       *string `json:"pronouns"`
	TimeZone       *string `json:"timeZone"`
	AvailableHours *int    `json:"availableHours"`
	ColorMask      *int    `json:"colorMask"`
	ExplorerType   *struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"explorerType"`
}

func (r rawPlayer) toModel() *model.Player {
	p := &model.Player{
		ID:              r.ID,
		EthereumAddress: r.EthereumAddress,
	}
	if r.Profile == nil {
		return p
	}

	p.Username = deref(r.Profile.Username)
	p.Profile = &model.Profile{
		Name:           deref(r.Profile.Name),
		Description:    deref(r.Profile.Description),
		Emoji:          deref(r.Profile.Emoji),
		Pronouns:       deref(r.Profile.Pronouns),
		TimeZone:       deref(r.Profile.TimeZone),
		AvailableHours: r.Profile.AvailableHours,
		ColorMask:      r.Profile.ColorMask,
	}
	if et := r.Profile.ExplorerType; et != nil {
		p.Profile.ExplorerType = &model.ExplorerType{Title: et.Title, Description: et.Description}
	}
	return p
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
