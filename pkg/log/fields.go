package log

import (
	"go.uber.org/zap"
)

// 日志中统一使用的字段名。
const (
	FieldNameModule     = "module"
	FieldNameOp         = "op"
	FieldNameCompressor = "compressor"
	FieldNamePath       = "path"
	FieldNameTraceID    = "traceID"
)

func FieldModule(module string) zap.Field {
	return zap.String(FieldNameModule, module)
}

// FieldOp 标识一次编解码调用，取值如 encode_file、decode_stream。
func FieldOp(op string) zap.Field {
	return zap.String(FieldNameOp, op)
}

func FieldCompressor(name string) zap.Field {
	return zap.String(FieldNameCompressor, name)
}

func FieldPath(path string) zap.Field {
	return zap.String(FieldNamePath, path)
}

func FieldTraceID(traceID string) zap.Field {
	return zap.String(FieldNameTraceID, traceID)
}
