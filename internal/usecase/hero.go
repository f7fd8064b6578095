package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"metagame.wtf/player_profile/internal/domain/model"
)

const (
	// MaxBioLength を超える自己紹介は省略表示になります
	MaxBioLength = 240
	// truncatedBioLength は省略時に残す文字数です（「続きを読む」リンク分を差し引いた長さ）
	truncatedBioLength = MaxBioLength - 9

	unspecified = "Unspecified"

	colorRadarURL = "https://dysbulic.github.io/5-color-radar/#/combos/"
)

// colorAspects は5色マスクの上位ビットから順に対応する色名です
var colorAspects = []string{"White", "Blue", "Black", "Red", "Green"}

// BuildHero はプレイヤー情報からヒーロー欄の表示データを組み立てます
func BuildHero(p *model.Player, now time.Time) *model.Hero {
	h := &model.Hero{
		Username:     p.Username,
		Address:      p.EthereumAddress,
		Name:         DisplayName(p),
		Availability: unspecified,
	}

	prof := p.Profile
	if prof == nil {
		return h
	}

	h.FullBio = plainText(prof.Description)
	h.Bio, h.BioTruncated = TruncateBio(h.FullBio)
	h.Availability = FormatAvailability(prof.AvailableHours)
	h.TimeZone = ResolveTimeZone(prof.TimeZone, now)
	if prof.ColorMask != nil {
		h.ColorDisposition = ResolveColorDisposition(*prof.ColorMask)
	}
	h.ExplorerType = prof.ExplorerType
	h.Emoji = prof.Emoji
	h.Pronouns = prof.Pronouns
	return h
}

// DisplayName はプロフィール名、ユーザー名、短縮アドレスの順で表示名を決めます
func DisplayName(p *model.Player) string {
	if p.Profile != nil && strings.TrimSpace(p.Profile.Name) != "" {
		return strings.TrimSpace(p.Profile.Name)
	}
	if p.Username != "" {
		return p.Username
	}
	return ShortAddress(p.EthereumAddress)
}

// ShortAddress は "0x1234…abcd" 形式に短縮したアドレスを返します
func ShortAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

// TruncateBio は MaxBioLength を超える自己紹介を省略します
// 省略した場合は2つ目の戻り値がtrueになります
func TruncateBio(bio string) (string, bool) {
	runes := []rune(bio)
	if len(runes) <= MaxBioLength {
		return bio, false
	}
	return string(runes[:truncatedBioLength]) + "…", true
}

// plainText は自己紹介に含まれるHTMLタグを取り除きます
func plainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	// 改行タグはテキスト上の改行として残す
	doc.Find("br").ReplaceWithHtml("\n")
	return strings.TrimSpace(doc.Text())
}

// FormatAvailability は週あたりの稼働時間を表示用に整形します
func FormatAvailability(hours *int) string {
	if hours == nil {
		return unspecified
	}
	return fmt.Sprintf("%d hr/week", *hours)
}

// ResolveTimeZone はIANAタイムゾーン名から略称とUTCオフセット表示を求めます
// 略称は夏時間を考慮して now 時点のものを使います
func ResolveTimeZone(name string, now time.Time) model.TimeZoneDisplay {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.TimeZoneDisplay{}
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return model.TimeZoneDisplay{}
	}

	abbr, offset := now.In(loc).Zone()
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	utc := fmt.Sprintf("(UTC%s%02d:%02d)", sign, offset/3600, (offset%3600)/60)

	return model.TimeZoneDisplay{
		Specified:    true,
		Name:         name,
		Abbreviation: abbr,
		UTCLabel:     utc,
		ShortLabel:   shortOffset(utc),
	}
}

// shortOffset は "(UTC-05:00)" を "(UTC-05)" のように短縮します
func shortOffset(s string) string {
	if strings.HasSuffix(s, ":00)") {
		s = strings.TrimSuffix(s, ":00)") + ")"
	}
	return strings.ReplaceAll(s, " ", "")
}

// ResolveColorDisposition は5色マスクから表示データを求めます
// 0〜31 以外は未設定として扱います
func ResolveColorDisposition(mask int) model.ColorDisposition {
	if mask < 0 || mask >= 1<<len(colorAspects) {
		return model.ColorDisposition{}
	}
	bits := fmt.Sprintf("%05b", mask)

	var aspects []string
	for i, c := range bits {
		if c == '1' {
			aspects = append(aspects, colorAspects[i])
		}
	}

	return model.ColorDisposition{
		Specified: true,
		Mask:      mask,
		Bits:      bits,
		Aspects:   aspects,
		RadarURL:  colorRadarURL + bits,
	}
}
