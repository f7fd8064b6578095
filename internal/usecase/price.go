package usecase

import (
	"strings"

	"github.com/shopspring/decimal"

	"metagame.wtf/player_profile/internal/domain/model"
)

// NativeCurrencySymbol はETH建ての価格に使う記号です
const NativeCurrencySymbol = "Ξ"

// nativeTokenAddresses はETHとして扱う支払いトークンのアドレスです
var nativeTokenAddresses = map[string]struct{}{
	"0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2": {}, // wETH
	"0x0000000000000000000000000000000000000000": {}, // ETH
}

// PriceString は直近の売買イベントから表示用の価格文字列を生成します
// 例: "1.50Ξ ($2400.00)"、売買履歴や支払いトークンがない場合は空文字を返します
func PriceString(event *model.AssetEvent) string {
	if event == nil || event.PaymentToken == nil {
		return ""
	}
	token := event.PaymentToken

	total, err := decimal.NewFromString(strings.TrimSpace(event.TotalPrice))
	if err != nil {
		return ""
	}
	amount := total.Shift(-token.Decimals)

	symbol := token.Symbol
	if _, ok := nativeTokenAddresses[strings.ToLower(token.Address)]; ok {
		symbol = NativeCurrencySymbol
	}

	var b strings.Builder
	b.WriteString(amount.StringFixed(2))
	b.WriteString(symbol)

	// USD換算はトークン単価が取得できた場合のみ付加します
	if usd, err := decimal.NewFromString(strings.TrimSpace(token.USDPrice)); err == nil && !usd.IsZero() {
		inUSD := amount.Mul(usd)
		if !inUSD.IsZero() {
			b.WriteString(" ($")
			b.WriteString(inUSD.StringFixed(2))
			b.WriteString(")")
		}
	}
	return b.String()
}
