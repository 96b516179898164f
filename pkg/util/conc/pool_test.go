package conc

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lk2023060901/jsonzip-go/pkg/log"
	"github.com/lk2023060901/jsonzip-go/pkg/util/hardware"
	"github.com/lk2023060901/jsonzip-go/pkg/util/merr"
)

func TestPool(t *testing.T) {
	pool := NewDefaultPool[int]()
	defer pool.Release()

	taskNum := pool.Cap() * 2
	futures := make([]*Future[int], 0, taskNum)
	for i := 0; i < taskNum; i++ {
		res := i
		futures = append(futures, pool.Submit(func() (int, error) {
			time.Sleep(10 * time.Millisecond)
			return res, nil
		}))
	}

	assert.Greater(t, pool.Running(), 0)
	require.NoError(t, AwaitAll(futures...))
	for i, future := range futures {
		res, err := future.Await()
		assert.NoError(t, err)
		assert.Equal(t, i, res)
		assert.True(t, future.OK())
		assert.Equal(t, i, future.Value())
	}
	assert.Equal(t, hardware.GetCPUNum(), pool.Cap())
}

func TestPoolError(t *testing.T) {
	pool := NewPool[string](2)
	defer pool.Release()

	boom := errors.New("boom")
	ok := pool.Submit(func() (string, error) { return "done", nil })
	bad := pool.Submit(func() (string, error) { return "", boom })

	err := AwaitAll(ok, bad)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "done", ok.Value())
	assert.False(t, bad.OK())
	<-bad.Inner()
}

func TestPoolPreHandler(t *testing.T) {
	var called atomic.Int32
	pool := NewPool[int](1, WithPreHandler(func() { called.Inc() }))
	defer pool.Release()

	require.NoError(t, pool.Submit(func() (int, error) { return 1, nil }).Err())
	assert.Equal(t, int32(1), called.Load())
}

func TestPoolConcealPanic(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	pool := NewPool[int](1, WithConcealPanic(true), WithLogger(&log.MLogger{Logger: zap.New(core)}))
	defer pool.Release()

	future := pool.Submit(func() (int, error) {
		panic("mock panic")
	})
	err := future.Err()
	assert.ErrorIs(t, err, merr.ErrServiceInternal)
	assert.Contains(t, err.Error(), "mock panic")

	// panic 被吞掉后 worker 仍可继续处理任务
	res, err := pool.Submit(func() (int, error) { return 7, nil }).Await()
	require.NoError(t, err)
	assert.Equal(t, 7, res)
	assert.Eventually(t, func() bool { return logs.Len() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, "mock panic", logs.All()[0].ContextMap()["panic"])
}

func TestPoolReleased(t *testing.T) {
	pool := NewPool[int](1)
	pool.Release()

	future := pool.Submit(func() (int, error) { return 1, nil })
	assert.Error(t, future.Err())
}

func TestGo(t *testing.T) {
	future := Go(func() (string, error) { return "async", nil })
	res, err := future.Await()
	require.NoError(t, err)
	assert.Equal(t, "async", res)

	assert.Same(t, GetDefaultPool(), GetDefaultPool())
}
