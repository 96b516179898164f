package compressor

import (
	"strings"

	"github.com/lk2023060901/jsonzip-go/pkg/util/merr"
)

// Level 表示压缩强度，在“速度”和“体积”之间取舍。
//
// 各压缩算法自行把 Level 映射为自身的原生级别；
// 不在枚举范围内的值由具体压缩器在创建过滤流时返回 merr.ErrParameterInvalid。
type Level int

const (
	// LevelOptimal 兼顾速度与压缩率，是默认级别。
	LevelOptimal Level = iota
	// LevelFastest 尽可能快地完成压缩，即使压缩率较低。
	LevelFastest
	// LevelNoCompression 不做（或尽量少做）压缩。
	LevelNoCompression
	// LevelSmallestSize 追求最小体积，不考虑耗时。
	LevelSmallestSize
)

// DefaultLevel 为未显式指定时使用的压缩级别。
const DefaultLevel = LevelOptimal

var levelNames = map[Level]string{
	LevelOptimal:       "optimal",
	LevelFastest:       "fastest",
	LevelNoCompression: "none",
	LevelSmallestSize:  "smallest",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "unknown"
}

// Valid 判断 l 是否属于已定义的枚举值。
func (l Level) Valid() bool {
	return l >= LevelOptimal && l <= LevelSmallestSize
}

// check 供各压缩器在创建写入器前调用。
func (l Level) check() error {
	if !l.Valid() {
		return merr.WrapErrParameterInvalidRange(int(LevelOptimal), int(LevelSmallestSize), int(l), "compression level")
	}
	return nil
}

// ParseLevel 将配置/命令行中的级别名称解析为 Level。
// 空字符串解析为 DefaultLevel。
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default", "optimal":
		return LevelOptimal, nil
	case "fastest", "fast", "speed":
		return LevelFastest, nil
	case "none", "nocompression", "no_compression", "store":
		return LevelNoCompression, nil
	case "smallest", "smallestsize", "smallest_size", "best":
		return LevelSmallestSize, nil
	default:
		return LevelOptimal, merr.WrapErrParameterInvalid("optimal|fastest|none|smallest", name, "compression level")
	}
}
