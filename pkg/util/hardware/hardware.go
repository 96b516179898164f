package hardware

import (
	"runtime"
	"sync"

	"github.com/shirou/gopsutil/v3/cpu"
)

var (
	cpuNumOnce sync.Once
	cpuNum     int
)

// GetCPUNum 返回当前进程可用的 CPU 核心数。
//
// 优先使用 gopsutil 探测到的逻辑核数，但不超过 GOMAXPROCS（容器环境下由 automaxprocs 调整）。
// 探测失败时退回 runtime.NumCPU()。结果只计算一次。
func GetCPUNum() int {
	cpuNumOnce.Do(func() {
		n, err := cpu.Counts(true)
		if err != nil || n <= 0 {
			n = runtime.NumCPU()
		}
		if procs := runtime.GOMAXPROCS(0); procs > 0 && procs < n {
			n = procs
		}
		cpuNum = n
	})
	return cpuNum
}
