package opensea

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"metagame.wtf/player_profile/internal/domain/model"
	"metagame.wtf/player_profile/internal/domain/repository"
)

// DefaultBaseURL はOpenSea APIのベースURLです
const DefaultBaseURL = "https://api.opensea.io"

// openSeaClient はOpenSeaの資産一覧APIから資産を取得する実装です
// 腐敗防止層（Anti-Corruption Layer）として、外部APIのJSON構造を
// ドメインモデルに変換する責務を持ちます
type openSeaClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewOpenSeaClient は新しいOpenSeaクライアントを作成します
// baseURL が空の場合は DefaultBaseURL を使います
func NewOpenSeaClient(apiKey, baseURL string) repository.AssetRepository {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return newOpenSeaClient(
		&http.Client{Timeout: 30 * time.Second},
		baseURL,
		apiKey,
	)
}

// newOpenSeaClient はテスト容易性のための内部コンストラクタです。
// 本番コードは NewOpenSeaClient を利用し、テストでは http.Client/baseURL を注入します。
func newOpenSeaClient(client *http.Client, baseURL, apiKey string) *openSeaClient {
	return &openSeaClient{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// FetchAssets は指定されたオーナーの資産を1ページ分取得します
func (c *openSeaClient) FetchAssets(ctx context.Context, query model.AssetQuery) ([]*model.Asset, error) {
	u, err := url.Parse(c.baseURL + "/api/v1/assets")
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	q := u.Query()
	q.Set("owner", query.Owner)
	q.Set("offset", strconv.Itoa(query.Offset))
	q.Set("limit", strconv.Itoa(query.Limit))
	q.Set("order_direction", "desc")
	u.RawQuery = q.Encode()

	var resp assetsResponse
	if err := fetchJSON(ctx, c.client, u.String(), c.apiKey, &resp); err != nil {
		return nil, err
	}

	assets := make([]*model.Asset, 0, len(resp.Assets))
	for _, raw := range resp.Assets {
		assets = append(assets, raw.toModel())
	}
	return assets, nil
}

// assetsResponse は /api/v1/assets のレスポンスです
type assetsResponse struct {
	Assets []rawAsset `json:"assets"`
}

type rawAsset struct {
	TokenID       flexString `json:"token_id"`
	Name          string     `json:"name"`
	ImageURL      string     `json:"image_url"`
	Permalink     string     `json:"permalink"`
	AssetContract struct {
		Address string `json:"address"`
	} `json:"asset_contract"`
	LastSale *rawSale `json:"last_sale"`
}

type rawSale struct {
	TotalPrice   flexString `json:"total_price"`
	PaymentToken *struct {
		Address  string     `json:"address"`
		Symbol   string     `json:"symbol"`
		Decimals flexString `json:"decimals"`
		USDPrice flexString `json:"usd_price"`
	} `json:"payment_token"`
}

// toModel は生のJSONレコードをドメインモデルに変換します
func (r rawAsset) toModel() *model.Asset {
	a := &model.Asset{
		ContractAddress: r.AssetContract.Address,
		TokenID:         string(r.TokenID),
		Name:            r.Name,
		ImageURL:        r.ImageURL,
		Permalink:       r.Permalink,
	}

	if r.LastSale != nil {
		ev := &model.AssetEvent{TotalPrice: string(r.LastSale.TotalPrice)}
		// 桁数が分からないトークンは価格を計算できないため、支払いトークンなしとして扱う
		if pt := r.LastSale.PaymentToken; pt != nil {
			if decimals, ok := parseDecimals(pt.Decimals); ok {
				ev.PaymentToken = &model.PaymentToken{
					Address:  pt.Address,
					Symbol:   pt.Symbol,
					Decimals: decimals,
					USDPrice: string(pt.USDPrice),
				}
			}
		}
		a.LastSale = ev
	}
	return a
}
