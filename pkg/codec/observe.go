package codec

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/lk2023060901/jsonzip-go/pkg/compressor"
	"github.com/lk2023060901/jsonzip-go/pkg/log"
	"github.com/lk2023060901/jsonzip-go/pkg/metrics"
	"github.com/lk2023060901/jsonzip-go/pkg/util/merr"
)

const tracerName = "jsonzip/codec"

// observation 记录单次调用的指标、日志与 span。
type observation struct {
	logger     *log.MLogger
	span       trace.Span
	op         string
	compressor string
	level      compressor.Level
	start      time.Time
}

func (c *Codec) begin(ctx context.Context, op string, comp compressor.Compressor, level compressor.Level) (context.Context, *observation) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, op,
		trace.WithAttributes(
			attribute.String("compressor", comp.Name()),
			attribute.String("level", level.String()),
			attribute.String("serializer", c.serializer.Name()),
		))
	return ctx, &observation{
		logger:     c.Logger(),
		span:       span,
		op:         op,
		compressor: comp.Name(),
		level:      level,
		start:      time.Now(),
	}
}

func (o *observation) end(rawBytes, compressedBytes int64, err error) {
	elapsed := time.Since(o.start)
	fields := []zap.Field{
		log.FieldOp(o.op),
		log.FieldCompressor(o.compressor),
		zap.Stringer("level", o.level),
		zap.Int64("rawBytes", rawBytes),
		zap.Int64("compressedBytes", compressedBytes),
		zap.Duration("elapsed", elapsed),
	}
	if traceID := o.span.SpanContext().TraceID(); traceID.IsValid() {
		fields = append(fields, log.FieldTraceID(traceID.String()))
	}

	status := metrics.SuccessLabel
	if err != nil {
		status = metrics.FailLabel
		if merr.IsCanceledOrTimeout(err) {
			status = metrics.CanceledLabel
		}
		o.span.RecordError(err)
		o.span.SetStatus(codes.Error, err.Error())
		o.logger.Warn("codec operation failed", append(fields, zap.Error(err), zap.Bool("retriable", merr.IsRetryableErr(err)))...)
	} else {
		metrics.CodecBytesTotal.WithLabelValues(o.op, metrics.RawBytesLabel).Add(float64(rawBytes))
		metrics.CodecBytesTotal.WithLabelValues(o.op, metrics.CompressedBytesLabel).Add(float64(compressedBytes))
		metrics.CodecPayloadSize.WithLabelValues(o.compressor).Observe(float64(compressedBytes))
		o.span.SetAttributes(
			attribute.Int64("raw_bytes", rawBytes),
			attribute.Int64("compressed_bytes", compressedBytes),
		)
		o.logger.Debug("codec operation done", fields...)
	}
	metrics.CodecOperationTotal.WithLabelValues(o.op, status).Inc()
	metrics.CodecOperationLatency.WithLabelValues(o.op).Observe(float64(elapsed.Milliseconds()))
	o.span.End()
}
