package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	r := prometheus.NewRegistry()
	Register(r)
	// 重复注册到同一个 Registry 不会 panic
	assert.NotPanics(t, func() { Register(r) })

	CodecOperationTotal.WithLabelValues("encode_stream", SuccessLabel).Inc()
	CodecBytesTotal.WithLabelValues("encode_stream", RawBytesLabel).Add(128)
	CodecOperationLatency.WithLabelValues("encode_stream").Observe(3)
	CodecPayloadSize.WithLabelValues("brotli").Observe(64)

	assert.Equal(t, float64(128), testutil.ToFloat64(CodecBytesTotal.WithLabelValues("encode_stream", RawBytesLabel)))
	n, err := testutil.GatherAndCount(r, "jsonzip_codec_operation_total", "jsonzip_codec_payload_size")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRegisterMultipleRegistries(t *testing.T) {
	first, second := prometheus.NewRegistry(), prometheus.NewRegistry()
	Register(first)
	Register(second)

	CodecOperationTotal.WithLabelValues("decode_file", FailLabel).Inc()
	for _, r := range []*prometheus.Registry{first, second} {
		n, err := testutil.GatherAndCount(r, "jsonzip_codec_operation_total")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 1)
	}
}

func TestRegisterConflict(t *testing.T) {
	r := prometheus.NewRegistry()
	// 同名但标签不同的指标与 codec 指标冲突
	r.MustRegister(prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: jsonzipNamespace,
		Subsystem: codecMetricSubsystem,
		Name:      "operation_total",
		Help:      "conflict",
	}, []string{"other"}))
	assert.Panics(t, func() { Register(r) })
}
