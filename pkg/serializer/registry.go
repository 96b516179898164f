package serializer

import (
	"fmt"
	"strings"

	"github.com/lk2023060901/jsonzip-go/pkg/util/merr"
)

// Lookup 根据名称返回内置序列化器，空字符串返回默认实现。
func Lookup(name string) (Serializer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json", "sonic":
		return JSONSerializer{}, nil
	case "jsoniter", "json-iterator":
		return JSONIterSerializer{}, nil
	case "protojson":
		return ProtoJSONSerializer{}, nil
	default:
		return nil, merr.WrapErrParameterInvalid("json|jsoniter|protojson", name, "serializer")
	}
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
