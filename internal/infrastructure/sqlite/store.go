// Package sqlite はコレクティブル一覧のSQLiteキャッシュを提供します
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"metagame.wtf/player_profile/internal/domain/model"
	"metagame.wtf/player_profile/internal/domain/repository"
	"metagame.wtf/player_profile/internal/infrastructure/sqlite/migrations"
)

// DefaultTTL はキャッシュの既定の有効期間です
const DefaultTTL = 10 * time.Minute

// CollectibleStore はオーナーごとのコレクティブル一覧をSQLiteに保存します
// repository.CollectibleCache を実装します
type CollectibleStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

var _ repository.CollectibleCache = (*CollectibleStore)(nil)

// Option はCollectibleStoreの任意設定です
type Option func(*CollectibleStore)

// WithTTL はキャッシュの有効期間を設定します。0以下は無視します
func WithTTL(ttl time.Duration) Option {
	return func(s *CollectibleStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithNow は現在時刻の取得関数を差し替えます
func WithNow(now func() time.Time) Option {
	return func(s *CollectibleStore) {
		if now != nil {
			s.now = now
		}
	}
}

// Open はSQLiteファイルを開き、マイグレーションを適用します
func Open(ctx context.Context, path string, opts ...Option) (*CollectibleStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("cache path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	s := &CollectibleStore{db: db, ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close はデータベースを閉じます
func (s *CollectibleStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping はデータベースへの接続を確認します
func (s *CollectibleStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Load はオーナーのキャッシュを返します。存在しないか期限切れの場合は ok=false です
func (s *CollectibleStore) Load(ctx context.Context, owner string) ([]*model.Collectible, bool, error) {
	var (
		payload   string
		fetchedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM collectible_cache WHERE owner = ?`, owner,
	).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load collectible cache: %w", err)
	}

	if s.now().Sub(time.UnixMilli(fetchedAt)) >= s.ttl {
		return nil, false, nil
	}

	var rows []cachedCollectible
	if err := json.Unmarshal([]byte(payload), &rows); err != nil {
		return nil, false, fmt.Errorf("decode collectible cache: %w", err)
	}
	items := make([]*model.Collectible, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.toModel())
	}
	return items, true, nil
}

// Store はオーナーのコレクティブル一覧を上書き保存します
func (s *CollectibleStore) Store(ctx context.Context, owner string, items []*model.Collectible) error {
	rows := make([]cachedCollectible, 0, len(items))
	for _, c := range items {
		if c != nil {
			rows = append(rows, fromModel(c))
		}
	}
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode collectible cache: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO collectible_cache (owner, payload, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(owner) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		owner, string(payload), s.now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("store collectible cache: %w", err)
	}
	return nil
}

type cachedCollectible struct {
	Address     string `json:"address"`
	TokenID     string `json:"tokenId"`
	Title       string `json:"title"`
	ImageURL    string `json:"imageUrl"`
	OpenSeaLink string `json:"openseaLink"`
	PriceString string `json:"priceString"`
}

func fromModel(c *model.Collectible) cachedCollectible {
	return cachedCollectible{
		Address:     c.Address,
		TokenID:     c.TokenID,
		Title:       c.Title,
		ImageURL:    c.ImageURL,
		OpenSeaLink: c.OpenSeaLink,
		PriceString: c.PriceString,
	}
}

func (r cachedCollectible) toModel() *model.Collectible {
	return &model.Collectible{
		Address:     r.Address,
		TokenID:     r.TokenID,
		Title:       r.Title,
		ImageURL:    r.ImageURL,
		OpenSeaLink: r.OpenSeaLink,
		PriceString: r.PriceString,
	}
}
