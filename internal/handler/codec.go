package handler

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// jsonCodec はプレーンなGo構造体をJSONでやり取りするConnectコーデックです
// Connect標準のprotojsonコーデックを "json" の名前で置き換えます
type jsonCodec struct{}

var _ connect.Codec = jsonCodec{}

// Codec はクライアントとハンドラーの両方で使うコーデックです
func Codec() connect.Codec { return jsonCodec{} }

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", msg, err)
	}
	return b, nil
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}
