package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"metagame.wtf/player_profile/internal/domain/model"
)

type fakeNow struct {
	t time.Time
}

func (f *fakeNow) Now() time.Time { return f.t }

func openTempStore(t *testing.T, opts ...Option) *CollectibleStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.db")
	s, err := Open(context.Background(), path, opts...)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), " "); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestCollectibleStore_StoreLoadRoundTrip(t *testing.T) {
	t.Parallel()

	clock := &fakeNow{t: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)}
	s := openTempStore(t, WithNow(clock.Now))
	ctx := context.Background()

	items := []*model.Collectible{
		{Address: "0xaaa", TokenID: "1", Title: "One", ImageURL: "https://x/1.png", OpenSeaLink: "https://opensea.io/1", PriceString: "1.50DAI ($1.50)"},
		{Address: "0xbbb", TokenID: "2", Title: "Two", ImageURL: "https://x/2.png"},
	}
	if err := s.Store(ctx, "0xowner", items); err != nil {
		t.Fatalf("store: %v", err)
	}

	got, ok, err := s.Load(ctx, "0xowner")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got) != len(items) {
		t.Fatalf("len got %d, want %d", len(got), len(items))
	}
	for i := range items {
		if *got[i] != *items[i] {
			t.Errorf("item[%d] got %+v, want %+v", i, got[i], items[i])
		}
	}
}

func TestCollectibleStore_LoadMissing(t *testing.T) {
	t.Parallel()

	s := openTempStore(t)
	got, ok, err := s.Load(context.Background(), "0xnobody")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok || got != nil {
		t.Fatalf("got %v ok=%v, want miss", got, ok)
	}
}

func TestCollectibleStore_LoadExpired(t *testing.T) {
	t.Parallel()

	clock := &fakeNow{t: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)}
	s := openTempStore(t, WithTTL(time.Minute), WithNow(clock.Now))
	ctx := context.Background()

	if err := s.Store(ctx, "0xowner", []*model.Collectible{{Title: "One", ImageURL: "i"}}); err != nil {
		t.Fatalf("store: %v", err)
	}

	clock.t = clock.t.Add(59 * time.Second)
	if _, ok, _ := s.Load(ctx, "0xowner"); !ok {
		t.Fatal("expected hit before ttl")
	}

	clock.t = clock.t.Add(time.Second)
	if _, ok, _ := s.Load(ctx, "0xowner"); ok {
		t.Fatal("expected miss after ttl")
	}
}

func TestCollectibleStore_StoreOverwrites(t *testing.T) {
	t.Parallel()

	s := openTempStore(t)
	ctx := context.Background()

	if err := s.Store(ctx, "0xowner", []*model.Collectible{{Title: "Old", ImageURL: "i"}}); err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := s.Store(ctx, "0xowner", []*model.Collectible{}); err != nil {
		t.Fatalf("store: %v", err)
	}

	got, ok, err := s.Load(ctx, "0xowner")
	if err != nil || !ok {
		t.Fatalf("load got ok=%v err=%v", ok, err)
	}
	if len(got) != 0 {
		t.Fatalf("len got %d, want 0", len(got))
	}
}

func TestOpen_migrationsAreIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cache.db")
	for i := 0; i < 2; i++ {
		s, err := Open(context.Background(), path)
		if err != nil {
			t.Fatalf("open #%d: %v", i, err)
		}
		if err := s.Close(); err != nil {
			t.Fatalf("close #%d: %v", i, err)
		}
	}
}

func TestUpSection(t *testing.T) {
	t.Parallel()

	in := "-- +migrate Up\nCREATE TABLE a (id INTEGER);\n-- +migrate Down\nDROP TABLE a;\n"
	if got := upSection(in); got != "\nCREATE TABLE a (id INTEGER);\n" {
		t.Errorf("upSection got %q", got)
	}
	if got := upSection("SELECT 1;"); got != "SELECT 1;" {
		t.Errorf("upSection without markers got %q", got)
	}
}
