// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const codecMetricSubsystem = "codec"

var (
	CodecOperationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: jsonzipNamespace,
			Subsystem: codecMetricSubsystem,
			Name:      "operation_total",
			Help:      "编解码调用次数，按操作与结果统计",
		}, []string{opLabelName, statusLabelName})

	CodecOperationLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: jsonzipNamespace,
			Subsystem: codecMetricSubsystem,
			Name:      "operation_latency",
			Help:      "编解码调用耗时（毫秒）",
			Buckets:   buckets,
		}, []string{opLabelName})

	CodecBytesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: jsonzipNamespace,
			Subsystem: codecMetricSubsystem,
			Name:      "bytes_total",
			Help:      "成功编解码的字节数，raw 为结构化文本长度，compressed 为压缩后长度",
		}, []string{opLabelName, kindLabelName})

	CodecPayloadSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: jsonzipNamespace,
			Subsystem: codecMetricSubsystem,
			Name:      "payload_size",
			Help:      "单次调用的压缩后数据大小（字节）",
			Buckets:   sizeBuckets,
		}, []string{compressorLabelName})
)

// RegisterCodecMetrics 将编解码相关的指标注册到 r。
func RegisterCodecMetrics(r prometheus.Registerer) {
	mustRegister(r, CodecOperationTotal, CodecOperationLatency, CodecBytesTotal, CodecPayloadSize)
}
