package serializer

// Serializer 抽象了“对象 <-> 结构化文本”的序列化能力。
//
// 设计目标：
//   - 编码结果为 UTF-8 的结构化文本（JSON），再交给压缩阶段处理。
//   - 调用方通过接口注入具体实现，便于替换 JSON 引擎或扩展其它文本格式。
//   - 实现必须无状态，可被多个 goroutine 并发使用。
type Serializer interface {
	// Name 返回实现名称，用于日志与配置查找。
	Name() string

	// Marshal 将任意对象编码为字节序列。
	Marshal(v any) ([]byte, error)

	// Unmarshal 将字节序列解码到目标对象。
	//
	// v 通常为指针类型，用于接收解码结果。
	Unmarshal(data []byte, v any) error

	// Valid 判断 data 是否为语法合法的文本。
	//
	// 解码失败时，调用方据此区分“数据损坏”和“结构与目标类型不匹配”。
	Valid(data []byte) bool
}

// Default 返回默认序列化器（基于 sonic 的 JSON）。
func Default() Serializer {
	return JSONSerializer{}
}
