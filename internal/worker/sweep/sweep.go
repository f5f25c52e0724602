// Package sweep は孤立メディアアセットの自動削除ジョブを提供する。
// どの記事本文からも参照されなくなったアセットを、猶予期間を置いて
// ストレージとDBの両方から削除する。
package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/hitoshi/omoide/internal/model"
	"github.com/hitoshi/omoide/internal/repository"
	"github.com/hitoshi/omoide/internal/storage"
)

// MetricsRecorder は掃除件数の記録インターフェース。
type MetricsRecorder interface {
	RecordAssetsSwept(count int)
}

// Job は孤立アセットの自動削除ジョブ。
// 冪等な削除処理を保証し、アップロード直後の未参照アセットを
// 誤って消さないよう猶予期間（デフォルト24時間）を設ける。
type Job struct {
	articleRepo repository.ArticleRepository
	assetRepo   repository.MediaAssetRepository
	blobs       storage.BlobStore
	metrics     MetricsRecorder
	logger      *slog.Logger
	GracePeriod time.Duration
}

// NewJob は新しいJobを生成する。デフォルトの猶予期間は24時間。
func NewJob(
	articleRepo repository.ArticleRepository,
	assetRepo repository.MediaAssetRepository,
	blobs storage.BlobStore,
	metrics MetricsRecorder,
	logger *slog.Logger,
) *Job {
	return &Job{
		articleRepo: articleRepo,
		assetRepo:   assetRepo,
		blobs:       blobs,
		metrics:     metrics,
		logger:      logger,
		GracePeriod: 24 * time.Hour,
	}
}

// Run は未参照かつ猶予期間を超過したアセットを削除する。
// 全記事本文から参照中のメディアキーを集め、それに含まれない
// 古いアセットをブロブとDB行の両方から消す。
func (j *Job) Run(ctx context.Context) error {
	start := time.Now()

	contents, err := j.articleRepo.ListContents(ctx)
	if err != nil {
		return fmt.Errorf("failed to list article contents: %w", err)
	}

	referenced := make(map[string]struct{})
	for _, content := range contents {
		for _, key := range extractMediaKeys(content) {
			referenced[key] = struct{}{}
		}
	}

	cutoff := start.Add(-j.GracePeriod)
	candidates, err := j.assetRepo.ListOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to list sweep candidates: %w", err)
	}

	swept := 0
	for _, asset := range candidates {
		if _, ok := referenced[asset.Key]; ok {
			continue
		}

		if err := j.blobs.Delete(ctx, asset.Key); err != nil && !errors.Is(err, storage.ErrBlobNotFound) {
			j.logger.Error("ブロブの削除に失敗しました",
				slog.String("key", asset.Key),
				slog.String("error", err.Error()),
			)
			continue
		}
		if err := j.assetRepo.DeleteByKey(ctx, asset.Key); err != nil {
			j.logger.Error("アセット行の削除に失敗しました",
				slog.String("key", asset.Key),
				slog.String("error", err.Error()),
			)
			continue
		}
		swept++
	}

	// アセット行のないブロブも回収する。
	// アップロードの部分失敗（ブロブ保存後の行INSERT失敗やクラッシュ）で残る。
	rowless, err := j.sweepRowlessBlobs(ctx, referenced, cutoff)
	if err != nil {
		return err
	}
	swept += rowless

	if j.metrics != nil {
		j.metrics.RecordAssetsSwept(swept)
	}

	duration := time.Since(start)
	j.logger.Info("孤立アセットの掃除が完了しました",
		slog.Int("swept_count", swept),
		slog.Int("rowless_count", rowless),
		slog.Int("candidate_count", len(candidates)),
		slog.Int("referenced_count", len(referenced)),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

// sweepRowlessBlobs はメタデータ行を持たないブロブを削除し、削除件数を返す。
// 猶予期間の判定にはブロブの最終更新時刻を使う。
func (j *Job) sweepRowlessBlobs(ctx context.Context, referenced map[string]struct{}, cutoff time.Time) (int, error) {
	swept := 0
	for _, kind := range []model.MediaKind{model.MediaKindImage, model.MediaKindVideo} {
		keys, err := j.blobs.List(ctx, kind.KeyPrefix())
		if err != nil {
			return swept, fmt.Errorf("failed to list blobs: %w", err)
		}

		for _, key := range keys {
			if _, ok := referenced[key]; ok {
				continue
			}

			asset, err := j.assetRepo.FindByKey(ctx, key)
			if err != nil {
				j.logger.Error("アセット行の照会に失敗しました",
					slog.String("key", key),
					slog.String("error", err.Error()),
				)
				continue
			}
			if asset != nil {
				// 行があるブロブはListOlderThan側の走査で扱う
				continue
			}

			modTime, err := j.blobs.ModTime(ctx, key)
			if err != nil {
				if errors.Is(err, storage.ErrBlobNotFound) {
					continue
				}
				j.logger.Error("ブロブの更新時刻の取得に失敗しました",
					slog.String("key", key),
					slog.String("error", err.Error()),
				)
				continue
			}
			if !modTime.Before(cutoff) {
				continue
			}

			if err := j.blobs.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrBlobNotFound) {
				j.logger.Error("ブロブの削除に失敗しました",
					slog.String("key", key),
					slog.String("error", err.Error()),
				)
				continue
			}
			swept++
		}
	}
	return swept, nil
}

// extractMediaKeys は記事本文HTMLからメディアキーを抽出する。
// img/video/sourceタグのsrc属性とvideoのposter属性のうち、
// 配信パス /media/{kind}/{id} を指すものだけを対象とする。
func extractMediaKeys(content string) []string {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil
	}

	var keys []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "img", "source":
				if key, ok := mediaKeyFromURL(attrValue(n, "src")); ok {
					keys = append(keys, key)
				}
			case "video":
				if key, ok := mediaKeyFromURL(attrValue(n, "src")); ok {
					keys = append(keys, key)
				}
				if key, ok := mediaKeyFromURL(attrValue(n, "poster")); ok {
					keys = append(keys, key)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return keys
}

func attrValue(n *html.Node, name string) string {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}

// mediaKeyFromURL はURLから {kind}/{id} 形式のキーを切り出す。
// 絶対URLと相対パスの両方を受け付ける。
func mediaKeyFromURL(rawURL string) (string, bool) {
	if rawURL == "" {
		return "", false
	}

	idx := strings.Index(rawURL, "/media/")
	if idx < 0 {
		return "", false
	}

	key := rawURL[idx+len("/media/"):]
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}

	parts := strings.Split(key, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", false
	}

	return key, true
}
