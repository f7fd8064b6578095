package usecase

import "time"

// Clock は現在時刻の取得を抽象化します（テスト用）
type Clock interface {
	Now() time.Time
}

// SystemClock はtime.Nowを使うデフォルト実装です
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
