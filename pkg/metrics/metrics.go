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
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	jsonzipNamespace = "jsonzip"

	opLabelName         = "op"
	statusLabelName     = "status"
	kindLabelName       = "kind"
	compressorLabelName = "compressor"

	SuccessLabel  = "success"
	FailLabel     = "fail"
	CanceledLabel = "canceled"

	RawBytesLabel        = "raw"
	CompressedBytesLabel = "compressed"
)

var (
	// 耗时桶，单位毫秒，1ms 到约 131s 按 2 倍递增。
	buckets = prometheus.ExponentialBuckets(1, 2, 18)

	// 压缩后大小桶，单位字节。
	sizeBuckets = prometheus.ExponentialBuckets(1000, 10, 7)
)

// Register 把所有指标注册到 r。
//
// 指标对象在进程内共享，可以同时注册到多个 Registry；
// 对同一个 Registry 重复注册会被忽略，其他注册错误直接 panic。
func Register(r prometheus.Registerer) {
	RegisterCodecMetrics(r)
}

func mustRegister(r prometheus.Registerer, cs ...prometheus.Collector) {
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			panic(err)
		}
	}
}
