// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやワーカーから利用する。
type MetricsCollector interface {
	RecordArticleSave()
	RecordArticleDelete()
	RecordMediaUpload(sizeBytes int64)
	RecordUploadLatency(duration time.Duration)
	RecordAssetsSwept(count int)
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	articleSaves     prometheus.Counter
	articleDeletes   prometheus.Counter
	mediaUploads     prometheus.Counter
	mediaUploadBytes prometheus.Counter
	uploadLatency    prometheus.Histogram
	assetsSwept      prometheus.Counter
	httpStatus       *prometheus.CounterVec
}

var _ MetricsCollector = (*Collector)(nil)

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		articleSaves: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "omoide_article_saves_total",
			Help: "記事の保存（作成・更新）の合計数",
		}),
		articleDeletes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "omoide_article_deletes_total",
			Help: "記事削除の合計数",
		}),
		mediaUploads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "omoide_media_uploads_total",
			Help: "メディアアップロード成功の合計数",
		}),
		mediaUploadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "omoide_media_upload_bytes_total",
			Help: "アップロードされたメディアの合計バイト数",
		}),
		uploadLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "omoide_upload_latency_seconds",
			Help:    "メディアアップロードのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		assetsSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "omoide_assets_swept_total",
			Help: "掃除ワーカーが削除した孤立アセットの合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "omoide_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.articleSaves,
		c.articleDeletes,
		c.mediaUploads,
		c.mediaUploadBytes,
		c.uploadLatency,
		c.assetsSwept,
		c.httpStatus,
	)

	return c
}

// RecordArticleSave は記事の保存を記録する。
func (c *Collector) RecordArticleSave() {
	c.articleSaves.Inc()
}

// RecordArticleDelete は記事の削除を記録する。
func (c *Collector) RecordArticleDelete() {
	c.articleDeletes.Inc()
}

// RecordMediaUpload はメディアアップロード成功とサイズを記録する。
func (c *Collector) RecordMediaUpload(sizeBytes int64) {
	c.mediaUploads.Inc()
	c.mediaUploadBytes.Add(float64(sizeBytes))
}

// RecordUploadLatency はアップロードのレイテンシを記録する。
func (c *Collector) RecordUploadLatency(duration time.Duration) {
	c.uploadLatency.Observe(duration.Seconds())
}

// RecordAssetsSwept は掃除された孤立アセット数を記録する。
func (c *Collector) RecordAssetsSwept(count int) {
	c.assetsSwept.Add(float64(count))
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
