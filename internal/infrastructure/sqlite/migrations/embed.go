package migrations

import "embed"

// FS はコレクティブルキャッシュ用のSQLiteマイグレーションです
//
//go:embed *.sql
var FS embed.FS
