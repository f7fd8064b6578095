package handler

// ListCollectiblesRequest はオーナーのコレクティブル一覧のリクエストです
type ListCollectiblesRequest struct {
	Owner string `json:"owner"`
}

// ListCollectiblesResponse はコレクティブル一覧とお気に入りです
type ListCollectiblesResponse struct {
	Owner        string        `json:"owner"`
	Collectibles []Collectible `json:"collectibles"`
	Favorites    []Collectible `json:"favorites"`
}

// Collectible は表示用に整形されたNFTです
type Collectible struct {
	Address     string `json:"address"`
	TokenID     string `json:"tokenId"`
	Title       string `json:"title"`
	ImageURL    string `json:"imageUrl"`
	OpenSeaLink string `json:"openseaLink"`
	PriceString string `json:"priceString"`
}

// GetPlayerHeroRequest はユーザー名かアドレスのどちらかを指定します
type GetPlayerHeroRequest struct {
	Username string `json:"username,omitempty"`
	Address  string `json:"address,omitempty"`
}

// GetPlayerHeroResponse はプロフィールのヒーロー欄の表示データです
type GetPlayerHeroResponse struct {
	Username         string            `json:"username"`
	Address          string            `json:"address"`
	Name             string            `json:"name"`
	Bio              string            `json:"bio"`
	BioTruncated     bool              `json:"bioTruncated"`
	FullBio          string            `json:"fullBio"`
	Availability     string            `json:"availability"`
	TimeZone         *TimeZone         `json:"timeZone,omitempty"`
	ColorDisposition *ColorDisposition `json:"colorDisposition,omitempty"`
	ExplorerType     *ExplorerType     `json:"explorerType,omitempty"`
	Emoji            string            `json:"emoji,omitempty"`
	Pronouns         string            `json:"pronouns,omitempty"`
}

// TimeZone はタイムゾーン表示です。未設定の場合レスポンスには含めません
type TimeZone struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	UTCLabel     string `json:"utcLabel"`
	ShortLabel   string `json:"shortLabel"`
}

// ColorDisposition は5色パーソナリティの表示です
type ColorDisposition struct {
	Mask     int      `json:"mask"`
	Bits     string   `json:"bits"`
	Aspects  []string `json:"aspects"`
	RadarURL string   `json:"radarUrl"`
}

type ExplorerType struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
