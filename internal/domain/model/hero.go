package model

// Hero はプロフィールのヒーロー欄に表示する派生データです
// Playerから計算され、描画側はこの値をそのまま表示します
type Hero struct {
	Username         string
	Address          string
	Name             string
	Bio              string
	BioTruncated     bool
	FullBio          string
	Availability     string
	TimeZone         TimeZoneDisplay
	ColorDisposition ColorDisposition
	ExplorerType     *ExplorerType
	Emoji            string
	Pronouns         string
}

// TimeZoneDisplay はタイムゾーン表示です。Specified=false の場合は「未設定」表示になります
type TimeZoneDisplay struct {
	Specified    bool
	Name         string // IANA名
	Abbreviation string // 例: "EST"
	UTCLabel     string // 例: "(UTC-05:00)"
	ShortLabel   string // 例: "(UTC-05)"
}

// ColorDisposition は5色パーソナリティの表示です
type ColorDisposition struct {
	Specified bool
	Mask      int
	Bits      string   // 5桁の2進数表記（例: "01010"）
	Aspects   []string // マスクで選択された色名
	RadarURL  string
}
