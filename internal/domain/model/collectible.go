package model

// Collectible はマーケットプレイスに出品されたデジタル資産（NFT）の表示用モデルです
// 外部API（OpenSea）のレスポンス構造を知らない、フラットなデータ構造を定義します
type Collectible struct {
	Address     string // コントラクトアドレス
	TokenID     string
	Title       string
	ImageURL    string
	OpenSeaLink string // マーケットプレイス上の商品ページURL
	PriceString string // 直近の売買価格（例: "1.50Ξ ($2400.00)"）。売買履歴がない場合は空文字
}

// CollectibleSet はオーナー単位でまとめたコレクティブル一覧です
type CollectibleSet struct {
	Owner     string
	Items     []*Collectible
	Favorites []*Collectible // プロフィール上部に表示する先頭3件
}

// Asset は外部マーケットプレイスから取得した生の資産レコードです
// 腐敗防止層で外部JSONからこの構造に変換され、ユースケースでCollectibleに整形されます
type Asset struct {
	ContractAddress string
	TokenID         string
	Name            string
	ImageURL        string
	Permalink       string
	LastSale        *AssetEvent // 売買履歴がない場合はnil
}

// AssetEvent は資産の直近の売買イベントです
type AssetEvent struct {
	TotalPrice   string // 支払いトークンの最小単位での合計金額（10進数文字列）
	PaymentToken *PaymentToken
}

// PaymentToken は売買に使われたトークンのメタデータです
type PaymentToken struct {
	Address  string
	Symbol   string
	Decimals int32
	USDPrice string // 1トークンあたりのUSD価格。不明な場合は空文字
}

// AssetQuery は資産一覧取得のページ指定です
type AssetQuery struct {
	Owner  string
	Offset int
	Limit  int
}
