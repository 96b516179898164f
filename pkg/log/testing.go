package log

import (
	"bytes"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// InitTestLogger 创建输出到 t.Logf 的 Logger，zap 内部错误会使测试失败。
func InitTestLogger(t zaptest.TestingT, cfg *Config, opts ...zap.Option) (*zap.Logger, *ZapProperties, error) {
	opts = append([]zap.Option{zap.ErrorOutput(testSink{t: t, failOnWrite: true})}, opts...)
	return InitLoggerWithWriteSyncer(cfg, testSink{t: t}, opts...)
}

// testSink 把每条日志按行转发给 t.Logf。
type testSink struct {
	t           zaptest.TestingT
	failOnWrite bool
}

func (s testSink) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(bytes.TrimRight(p, "\n"), []byte("\n")) {
		s.t.Logf("%s", line)
	}
	if s.failOnWrite {
		s.t.Fail()
	}
	return len(p), nil
}

func (testSink) Sync() error {
	return nil
}
