package hardware

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetCPUNum(t *testing.T) {
	n := GetCPUNum()
	assert.Greater(t, n, 0)
	assert.LessOrEqual(t, n, runtime.GOMAXPROCS(0))
	assert.Equal(t, n, GetCPUNum())
}
