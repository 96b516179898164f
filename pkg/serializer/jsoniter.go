package serializer

import (
	jsoniter "github.com/json-iterator/go"
)

var iterAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONIterSerializer 使用 json-iterator 实现 JSON 编解码，
// 适用于 sonic 不支持的平台（非 amd64/arm64）。
type JSONIterSerializer struct{}

// 编译期断言：确保 JSONIterSerializer 实现了 Serializer 接口。
var _ Serializer = (*JSONIterSerializer)(nil)

func (JSONIterSerializer) Name() string {
	return "jsoniter"
}

func (JSONIterSerializer) Marshal(v any) ([]byte, error) {
	return iterAPI.Marshal(v)
}

func (JSONIterSerializer) Unmarshal(data []byte, v any) error {
	return iterAPI.Unmarshal(data, v)
}

func (JSONIterSerializer) Valid(data []byte) bool {
	return iterAPI.Valid(data)
}
