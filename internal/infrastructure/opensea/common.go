package opensea

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// maxErrorBody はエラー時にメッセージへ含めるレスポンス本文の最大長です
const maxErrorBody = 512

// fetchJSON は指定されたURLからJSONを取得して out にデコードします
// 共通のヘッダー設定やエラーハンドリングを行います
func fetchJSON(ctx context.Context, client *http.Client, url, apiKey string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "player-profile/1.0")
	if apiKey != "" {
		req.Header.Set("X-API-KEY", apiKey)
	}

	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch assets: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return fmt.Errorf("failed to fetch assets: status %d: %s", res.StatusCode, bytes.TrimSpace(body))
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// flexString は数値と文字列のどちらでも受け付けるJSONフィールドです
// OpenSeaは total_price や decimals を文字列で返すことも数値で返すこともあります
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// parseDecimals は decimals フィールドを数値に変換します
// 欠落や不正な値の場合は ok=false を返します
func parseDecimals(s flexString) (int32, bool) {
	v, err := strconv.ParseInt(string(s), 10, 32)
	if err != nil || v < 0 {
		return 0, false
	}
	return int32(v), true
}
