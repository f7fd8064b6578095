package opensea

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"metagame.wtf/player_profile/internal/domain/model"
	"metagame.wtf/player_profile/internal/usecase"
)

const assetsJSON = `{
  "assets": [
    {
      "token_id": "1234",
      "name": "Octo #1",
      "image_url": "https://example.com/1.png",
      "permalink": "https://opensea.io/assets/0xaaa/1234",
      "asset_contract": {"address": "0xaaa"},
      "last_sale": {
        "total_price": "1500000000000000000",
        "payment_token": {
          "address": "0x6b175474e89094c44da98b954eedeac495271d0f",
          "symbol": "DAI",
          "decimals": 18,
          "usd_price": "1.000000000000000"
        }
      }
    },
    {
      "token_id": 99,
      "name": null,
      "image_url": "",
      "permalink": "https://opensea.io/assets/0xbbb/99",
      "asset_contract": {"address": "0xbbb"},
      "last_sale": null
    }
  ]
}`

func TestOpenSeaClient_FetchAssets_buildsQueryAndMapsFields(t *testing.T) {
	t.Parallel()

	var gotPath, gotKey, gotOwner, gotOffset, gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-API-KEY")
		gotOwner = r.URL.Query().Get("owner")
		gotOffset = r.URL.Query().Get("offset")
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(assetsJSON))
	}))
	t.Cleanup(srv.Close)

	c := newOpenSeaClient(srv.Client(), srv.URL+"/", "secret")
	got, err := c.FetchAssets(context.Background(), model.AssetQuery{Owner: "0xowner", Offset: 50, Limit: 50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/api/v1/assets" {
		t.Errorf("path got %q, want %q", gotPath, "/api/v1/assets")
	}
	if gotKey != "secret" {
		t.Errorf("X-API-KEY got %q, want %q", gotKey, "secret")
	}
	if gotOwner != "0xowner" || gotOffset != "50" || gotLimit != "50" {
		t.Errorf("query got owner=%q offset=%q limit=%q", gotOwner, gotOffset, gotLimit)
	}

	if len(got) != 2 {
		t.Fatalf("len got %d, want 2", len(got))
	}

	first := got[0]
	if first.ContractAddress != "0xaaa" || first.TokenID != "1234" || first.Name != "Octo #1" {
		t.Errorf("first got %+v", first)
	}
	if first.ImageURL != "https://example.com/1.png" || first.Permalink != "https://opensea.io/assets/0xaaa/1234" {
		t.Errorf("first urls got %q %q", first.ImageURL, first.Permalink)
	}
	if first.LastSale == nil || first.LastSale.PaymentToken == nil {
		t.Fatalf("first LastSale not mapped")
	}
	if first.LastSale.TotalPrice != "1500000000000000000" {
		t.Errorf("TotalPrice got %q", first.LastSale.TotalPrice)
	}
	pt := first.LastSale.PaymentToken
	if pt.Symbol != "DAI" || pt.Decimals != 18 || pt.USDPrice != "1.000000000000000" {
		t.Errorf("PaymentToken got %+v", pt)
	}

	second := got[1]
	if second.TokenID != "99" {
		t.Errorf("numeric token id got %q, want %q", second.TokenID, "99")
	}
	if second.Name != "" || second.LastSale != nil {
		t.Errorf("second got %+v", second)
	}
}

func TestOpenSeaClient_FetchAssets_omitsEmptyAPIKey(t *testing.T) {
	t.Parallel()

	var hasKey bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasKey = r.Header["X-Api-Key"]
		_, _ = w.Write([]byte(`{"assets": []}`))
	}))
	t.Cleanup(srv.Close)

	c := newOpenSeaClient(srv.Client(), srv.URL, "")
	got, err := c.FetchAssets(context.Background(), model.AssetQuery{Owner: "0xowner", Limit: 50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("len got %d, want 0", len(got))
	}
	if hasKey {
		t.Errorf("X-API-KEY header should not be sent")
	}
}

func TestOpenSeaClient_FetchAssets_returnsErrorOnStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	c := newOpenSeaClient(srv.Client(), srv.URL, "")
	_, err := c.FetchAssets(context.Background(), model.AssetQuery{Owner: "0xowner", Limit: 50})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("error got %q", err)
	}
}

func TestOpenSeaClient_FetchAssets_returnsErrorOnInvalidJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{invalid json}`))
	}))
	t.Cleanup(srv.Close)

	c := newOpenSeaClient(srv.Client(), srv.URL, "")
	_, err := c.FetchAssets(context.Background(), model.AssetQuery{Owner: "0xowner", Limit: 50})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestOpenSeaClient_FetchAssets_honorsContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"assets": []}`))
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newOpenSeaClient(srv.Client(), srv.URL, "")
	if _, err := c.FetchAssets(ctx, model.AssetQuery{Owner: "0xowner", Limit: 50}); err == nil {
		t.Fatalf("expected error for canceled context")
	}
}

func TestParseDecimals(t *testing.T) {
	t.Parallel()

	cases := map[flexString]struct {
		want int32
		ok   bool
	}{
		"18": {18, true},
		"6":  {6, true},
		"0":  {0, true},
		"":   {0, false},
		"-1": {0, false},
		"x":  {0, false},
	}
	for in, tc := range cases {
		got, ok := parseDecimals(in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("parseDecimals(%q) got (%d, %v), want (%d, %v)", in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestOpenSeaClient_FetchAssets_invalidDecimalsLeavesPriceEmpty(t *testing.T) {
	t.Parallel()

	body := `{"assets": [
	  {"token_id": "1", "name": "Missing", "image_url": "https://x/1.png",
	   "last_sale": {"total_price": "1500000000000000000",
	     "payment_token": {"address": "0xdai", "symbol": "DAI", "usd_price": "1.0"}}},
	  {"token_id": "2", "name": "Garbage", "image_url": "https://x/2.png",
	   "last_sale": {"total_price": "1500000000000000000",
	     "payment_token": {"address": "0xdai", "symbol": "DAI", "decimals": "eighteen", "usd_price": "1.0"}}}
	]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	c := newOpenSeaClient(srv.Client(), srv.URL, "")
	got, err := c.FetchAssets(context.Background(), model.AssetQuery{Owner: "0xowner", Limit: 50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len got %d, want 2", len(got))
	}
	for _, a := range got {
		if a.LastSale == nil {
			t.Fatalf("%s: LastSale got nil", a.Name)
		}
		if a.LastSale.PaymentToken != nil {
			t.Errorf("%s: PaymentToken got %+v, want nil", a.Name, a.LastSale.PaymentToken)
		}
		if price := usecase.PriceString(a.LastSale); price != "" {
			t.Errorf("%s: PriceString got %q, want empty", a.Name, price)
		}
	}
}

func TestOpenSeaClient_FetchAssets_keepsRawNameAndImage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"assets": [{"token_id": "1", "name": " ", "image_url": " https://x/1.png"}]}`))
	}))
	t.Cleanup(srv.Close)

	c := newOpenSeaClient(srv.Client(), srv.URL, "")
	got, err := c.FetchAssets(context.Background(), model.AssetQuery{Owner: "0xowner", Limit: 50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len got %d, want 1", len(got))
	}
	if got[0].Name != " " {
		t.Errorf("Name got %q, want %q", got[0].Name, " ")
	}
	if got[0].ImageURL != " https://x/1.png" {
		t.Errorf("ImageURL got %q, want %q", got[0].ImageURL, " https://x/1.png")
	}
}
