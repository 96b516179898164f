// Package json 统一项目内的 JSON 编解码入口，底层基于 bytedance/sonic。
//
// 使用 sonic.ConfigStd，保证输出与 encoding/json 行为一致（map key 排序、HTML 转义等）。
package json

import (
	gojson "encoding/json"
	"io"

	"github.com/bytedance/sonic"
)

var api = sonic.ConfigStd

// RawMessage 是未解析的原始 JSON 文本，编码时原样输出（会被压缩为紧凑格式）。
type RawMessage = gojson.RawMessage

// Marshal 将 v 编码为 JSON。
func Marshal(v any) ([]byte, error) {
	return api.Marshal(v)
}

// MarshalIndent 与 Marshal 相同，但输出带缩进，主要用于命令行展示。
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return api.MarshalIndent(v, prefix, indent)
}

// Unmarshal 将 JSON 数据解码到 v。
func Unmarshal(data []byte, v any) error {
	return api.Unmarshal(data, v)
}

// Valid 判断 data 是否为合法 JSON 文本。
func Valid(data []byte) bool {
	return api.Valid(data)
}

func NewEncoder(w io.Writer) sonic.Encoder {
	return api.NewEncoder(w)
}

func NewDecoder(r io.Reader) sonic.Decoder {
	return api.NewDecoder(r)
}
