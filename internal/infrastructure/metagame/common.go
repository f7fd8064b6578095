package metagame

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody はエラー時にメッセージへ含めるレスポンス本文の最大長です
const maxErrorBody = 512

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// postGraphQL はGraphQLエンドポイントにクエリを送信し、data を out にデコードします
// レスポンスに errors が含まれる場合はメッセージをまとめてエラーとして返します
func postGraphQL(ctx context.Context, client *http.Client, endpoint, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "player-profile/1.0")

	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to query graphql: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return fmt.Errorf("failed to query graphql: status %d: %s", res.StatusCode, bytes.TrimSpace(b))
	}

	var gr graphQLResponse
	if err := json.NewDecoder(res.Body).Decode(&gr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if len(gr.Errors) > 0 {
		errs := make([]error, 0, len(gr.Errors))
		for _, e := range gr.Errors {
			errs = append(errs, errors.New(e.Message))
		}
		return fmt.Errorf("graphql error: %w", errors.Join(errs...))
	}

	if len(gr.Data) == 0 || bytes.Equal(gr.Data, []byte("null")) {
		return errors.New("graphql response has no data")
	}
	if err := json.Unmarshal(gr.Data, out); err != nil {
		return fmt.Errorf("failed to decode data: %w", err)
	}
	return nil
}
