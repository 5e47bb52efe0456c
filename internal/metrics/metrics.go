package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "showme_requests_total",
		Help: "Total number of single entity image requests",
	})
	RenderDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "showme_render_duration_ms",
		Help:    "Resolve+simplify+render duration in milliseconds",
		Buckets: []float64{5, 10, 20, 50, 100, 200, 500, 1000, 2000, 5000},
	})
	NotFoundTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "showme_notfound_total",
		Help: "Total queries that matched zero features",
	})
	RedisHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "showme_redis_hits_total",
		Help: "Total rendered image cache hits",
	})
	RedisMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "showme_redis_misses_total",
		Help: "Total rendered image cache misses",
	})
	UploadsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "showme_uploads_total",
		Help: "Total artifacts uploaded to the blob store",
	})
	UploadSkipsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "showme_upload_skips_total",
		Help: "Total uploads skipped because the key already existed",
	})
	BatchRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "showme_batch_runs_total",
		Help: "Total batch runs",
	})
	BatchItemsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "showme_batch_items_total",
		Help: "Batch item outcomes",
	}, []string{"outcome"})
	BusPublishTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "showme_bus_publish_total",
		Help: "Total pass-through bus publishes",
	})
	LocateTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "showme_locate_requests_total",
		Help: "Total IP locate requests",
	})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RenderDurationMs)
	prometheus.MustRegister(NotFoundTotal)
	prometheus.MustRegister(RedisHitsTotal)
	prometheus.MustRegister(RedisMissesTotal)
	prometheus.MustRegister(UploadsTotal)
	prometheus.MustRegister(UploadSkipsTotal)
	prometheus.MustRegister(BatchRunsTotal)
	prometheus.MustRegister(BatchItemsTotal)
	prometheus.MustRegister(BusPublishTotal)
	prometheus.MustRegister(LocateTotal)
}

// 文档注释：返回 Prometheus 指标处理器
// 背景：统一暴露注册指标到 /metrics 路径，在主入口挂载
func Handler() http.Handler { return promhttp.Handler() }
