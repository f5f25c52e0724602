package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/omoide/internal/media"
	"github.com/hitoshi/omoide/internal/middleware"
	"github.com/hitoshi/omoide/internal/model"
)

// uploadFormField はアップロードのmultipartフォームフィールド名。
const uploadFormField = "file"

// MediaServiceInterface はメディアハンドラーが必要とするサービスインターフェース。
type MediaServiceInterface interface {
	Upload(ctx context.Context, userID, contentType string, r io.Reader) (*media.UploadResult, error)
	Fetch(ctx context.Context, key string) (*model.MediaAsset, io.ReadCloser, error)
}

// MediaMetricsRecorder はメディアハンドラーが記録するメトリクスのインターフェース。
// metrics.MetricsCollectorの部分集合として定義する。
type MediaMetricsRecorder interface {
	RecordMediaUpload(sizeBytes int64)
	RecordUploadLatency(duration time.Duration)
}

// uploadOverheadBytes はmultipartの境界・ヘッダー分としてボディ上限に足す余裕。
const uploadOverheadBytes = 64 * 1024

// MediaHandler はメディアアップロード・配信のHTTPハンドラー。
type MediaHandler struct {
	service        MediaServiceInterface
	metrics        MediaMetricsRecorder
	maxUploadBytes int64
}

// NewMediaHandler はMediaHandlerを生成する。
// maxUploadBytesが正の場合、multipartのパース前にリクエストボディを打ち切る。
func NewMediaHandler(service MediaServiceInterface, metrics MediaMetricsRecorder, maxUploadBytes int64) *MediaHandler {
	return &MediaHandler{
		service:        service,
		metrics:        metrics,
		maxUploadBytes: maxUploadBytes,
	}
}

// uploadResponse はアップロード成功時のレスポンス。
type uploadResponse struct {
	Key       string `json:"key"`
	URL       string `json:"url"`
	SizeBytes int64  `json:"size_bytes"`
}

// Upload はメディアファイルをmultipart/form-dataで受け付けて保存する。
// POST /api/media
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	// 上限超過のボディをテンポラリファイルへ書き切る前に打ち切る
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+uploadOverheadBytes)
	}

	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			handleServiceError(w, model.NewMediaTooLargeError(h.maxUploadBytes))
			return
		}
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "アップロードファイルの取得に失敗しました。",
			Category: "validation",
			Action:   "fileフィールドにファイルを添付してください。",
		})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")

	start := time.Now()
	result, err := h.service.Upload(r.Context(), userID, contentType, file)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	h.metrics.RecordUploadLatency(time.Since(start))
	h.metrics.RecordMediaUpload(result.SizeBytes)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(uploadResponse{
		Key:       result.Key,
		URL:       result.URL,
		SizeBytes: result.SizeBytes,
	})
}

// Serve は保存済みメディアを配信する。記事の閲覧に使うため認証不要。
// GET /media/{kind}/{id}
func (h *MediaHandler) Serve(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	id := chi.URLParam(r, "id")

	if kind != "images" && kind != "videos" {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewAssetNotFoundError(kind+"/"+id))
		return
	}
	key := kind + "/" + id

	asset, rc, err := h.service.Fetch(r.Context(), key)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", asset.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(asset.SizeBytes, 10))
	// キーはUUIDで不変なので長期キャッシュを許可する
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")

	if _, err := io.Copy(w, rc); err != nil {
		slog.Warn("failed to stream media",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}
