package debug

import (
	"tfc"
	"tfc/types"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 单次运行的指标，写成 node_exporter 文本文件
type Metrics struct {
	registry   *prometheus.Registry
	runs       prometheus.Counter
	segments   prometheus.Counter
	failures   *prometheus.CounterVec
	seconds    prometheus.Histogram
	iterations prometheus.Histogram
	residual   prometheus.Gauge
	max        float64
}

var _ tfc.Observer = (*Metrics)(nil)

// NewMetrics 创建独立注册表
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tfc", Name: "runs_total",
			Help: "Number of marching runs started.",
		}),
		segments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tfc", Name: "segments_total",
			Help: "Number of segments solved.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tfc", Name: "failures_total",
			Help: "Number of failed runs by error code.",
		}, []string{"code"}),
		seconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tfc", Name: "segment_solve_seconds",
			Help:    "Wall time of each segment least-squares solve.",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
		}),
		iterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tfc", Name: "segment_iterations",
			Help:    "Least-squares iterations per segment.",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		}),
		residual: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tfc", Name: "max_residual",
			Help: "Largest absolute residual over all solved segments.",
		}),
	}
	m.registry.MustRegister(m.runs, m.segments, m.failures, m.seconds, m.iterations, m.residual)
	return m
}

// Registry 指标注册表
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Init 运行开始
func (m *Metrics) Init(types.Problem, uuid.UUID) {
	m.runs.Inc()
	m.max = 0
	m.residual.Set(0)
}

// Update 记录分段
func (m *Metrics) Update(seg tfc.SegmentResult) {
	m.segments.Inc()
	m.seconds.Observe(seg.Elapsed.Seconds())
	m.iterations.Observe(float64(seg.Iterations))
	if seg.Residual > m.max {
		m.max = seg.Residual
		m.residual.Set(seg.Residual)
	}
}

// Error 按错误分类计数
func (m *Metrics) Error(err error) {
	m.failures.WithLabelValues(string(types.Classify(err))).Inc()
}

// WriteFile 写出文本格式指标
func (m *Metrics) WriteFile(filename string) error {
	return prometheus.WriteToTextfile(filename, m.registry)
}
