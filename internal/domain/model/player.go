package model

import "errors"

// ErrPlayerNotFound は該当するプレイヤーが存在しない場合のエラーです
var ErrPlayerNotFound = errors.New("player not found")

// Player はコミュニティプラットフォーム上のプレイヤーです
type Player struct {
	ID              string
	Username        string
	EthereumAddress string
	Profile         *Profile // プロフィール未作成の場合はnil
}

// Profile はプレイヤーが編集できるプロフィール項目です
// 未設定の数値項目はnilで表します
type Profile struct {
	Name           string
	Description    string
	Emoji          string
	Pronouns       string
	TimeZone       string // IANAタイムゾーン名（例: "America/New_York"）
	AvailableHours *int   // 1週間あたりの稼働可能時間
	ColorMask      *int   // 5色パーソナリティのビットマスク（0〜31）
	ExplorerType   *ExplorerType
}

// ExplorerType はプレイヤータイプ（探索者タイプ）です
type ExplorerType struct {
	Title       string
	Description string
}
