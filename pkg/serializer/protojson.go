package serializer

import (
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/lk2023060901/jsonzip-go/internal/json"
	"github.com/lk2023060901/jsonzip-go/pkg/util/merr"
)

// ProtoJSONSerializer 使用 protojson 将 Protobuf 消息编码为标准 JSON 映射。
//
// 注意：传入/传出的对象必须实现 proto.Message。
type ProtoJSONSerializer struct {
	// UseProtoNames 为 true 时字段名使用 .proto 中的原始名称，而非 lowerCamelCase。
	UseProtoNames bool
	// DiscardUnknown 为 true 时忽略未知字段，否则视为错误。
	DiscardUnknown bool
}

// 编译期断言：确保 ProtoJSONSerializer 实现了 Serializer 接口。
var _ Serializer = (*ProtoJSONSerializer)(nil)

func (ProtoJSONSerializer) Name() string {
	return "protojson"
}

func (s ProtoJSONSerializer) Marshal(v any) ([]byte, error) {
	msg, ok := v.(proto.Message)
	if !ok {
		return nil, merr.WrapErrParameterInvalid("proto.Message", typeName(v), "protojson marshal")
	}
	return protojson.MarshalOptions{UseProtoNames: s.UseProtoNames}.Marshal(msg)
}

func (s ProtoJSONSerializer) Unmarshal(data []byte, v any) error {
	msg, ok := v.(proto.Message)
	if !ok {
		return merr.WrapErrParameterInvalid("proto.Message", typeName(v), "protojson unmarshal")
	}
	return protojson.UnmarshalOptions{DiscardUnknown: s.DiscardUnknown}.Unmarshal(data, msg)
}

// Valid 只做 JSON 语法校验，字段层面的问题由 Unmarshal 报告。
func (ProtoJSONSerializer) Valid(data []byte) bool {
	return json.Valid(data)
}
