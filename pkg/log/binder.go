package log

import "go.uber.org/atomic"

// Binder 嵌入到组件中，让组件持有一个可在运行时替换的 Logger。
//
// 零值可用：未绑定时使用全局 Logger，因此全局 Logger 的替换对其立即可见。
type Binder struct {
	logger atomic.Pointer[MLogger]
}

// SetLogger 绑定 logger，传入 nil 时恢复为全局 Logger。
func (b *Binder) SetLogger(logger *MLogger) {
	b.logger.Store(logger)
}

// Logger 返回当前绑定的 Logger。
func (b *Binder) Logger() *MLogger {
	if l := b.logger.Load(); l != nil {
		return l
	}
	return With()
}
