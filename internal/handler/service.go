package handler

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const (
	// ProfileServiceName はサービスの完全修飾名です
	ProfileServiceName = "profile.v1.ProfileService"

	// ListCollectiblesProcedure はListCollectiblesのパスです
	ListCollectiblesProcedure = "/" + ProfileServiceName + "/ListCollectibles"
	// GetPlayerHeroProcedure はGetPlayerHeroのパスです
	GetPlayerHeroProcedure = "/" + ProfileServiceName + "/GetPlayerHero"
)

// ProfileServiceHandler はプロフィールサービスのRPCを実装するハンドラーです
type ProfileServiceHandler interface {
	ListCollectibles(context.Context, *connect.Request[ListCollectiblesRequest]) (*connect.Response[ListCollectiblesResponse], error)
	GetPlayerHero(context.Context, *connect.Request[GetPlayerHeroRequest]) (*connect.Response[GetPlayerHeroResponse], error)
}

// NewProfileServiceHandler はサービスのパスとHTTPハンドラーを返します
// JSONコーデックは常に登録されます
func NewProfileServiceHandler(svc ProfileServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec())}, opts...)

	mux := http.NewServeMux()
	mux.Handle(ListCollectiblesProcedure, connect.NewUnaryHandler(
		ListCollectiblesProcedure,
		svc.ListCollectibles,
		opts...,
	))
	mux.Handle(GetPlayerHeroProcedure, connect.NewUnaryHandler(
		GetPlayerHeroProcedure,
		svc.GetPlayerHero,
		opts...,
	))
	return "/" + ProfileServiceName + "/", mux
}

// ProfileServiceClient はプロフィールサービスのクライアントです
type ProfileServiceClient struct {
	listCollectibles *connect.Client[ListCollectiblesRequest, ListCollectiblesResponse]
	getPlayerHero    *connect.Client[GetPlayerHeroRequest, GetPlayerHeroResponse]
}

// NewProfileServiceClient はbaseURLのサーバーに接続するクライアントを作成します
func NewProfileServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ProfileServiceClient {
	opts = append([]connect.ClientOption{connect.WithCodec(Codec())}, opts...)
	return &ProfileServiceClient{
		listCollectibles: connect.NewClient[ListCollectiblesRequest, ListCollectiblesResponse](
			httpClient, baseURL+ListCollectiblesProcedure, opts...,
		),
		getPlayerHero: connect.NewClient[GetPlayerHeroRequest, GetPlayerHeroResponse](
			httpClient, baseURL+GetPlayerHeroProcedure, opts...,
		),
	}
}

// ListCollectibles はListCollectiblesを呼び出します
func (c *ProfileServiceClient) ListCollectibles(ctx context.Context, req *connect.Request[ListCollectiblesRequest]) (*connect.Response[ListCollectiblesResponse], error) {
	return c.listCollectibles.CallUnary(ctx, req)
}

// GetPlayerHero はGetPlayerHeroを呼び出します
func (c *ProfileServiceClient) GetPlayerHero(ctx context.Context, req *connect.Request[GetPlayerHeroRequest]) (*connect.Response[GetPlayerHeroResponse], error) {
	return c.getPlayerHero.CallUnary(ctx, req)
}
