// Package media は記事に埋め込む画像・動画のアップロードと配信を提供する。
package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/omoide/internal/model"
	"github.com/hitoshi/omoide/internal/repository"
	"github.com/hitoshi/omoide/internal/storage"
)

// ServiceConfig はメディアサービスの設定。
type ServiceConfig struct {
	BaseURL      string // 公開URLの組み立てに使用する
	MaxSizeBytes int64  // アップロード上限サイズ
}

// Service はメディアアセットのビジネスロジックを提供する。
// ブロブ本体はBlobStoreに、メタデータはリポジトリに保存する。
type Service struct {
	assetRepo repository.MediaAssetRepository
	blobs     storage.BlobStore
	config    ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	assetRepo repository.MediaAssetRepository,
	blobs storage.BlobStore,
	config ServiceConfig,
) *Service {
	return &Service{
		assetRepo: assetRepo,
		blobs:     blobs,
		config:    config,
	}
}

// UploadResult はUploadの戻り値。
type UploadResult struct {
	Key       string
	URL       string
	SizeBytes int64
}

// kindForContentType はContent-TypeからMediaKindを判定する。
// image/*とvideo/*のみを受け付ける。
func kindForContentType(contentType string) (model.MediaKind, bool) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return model.MediaKindImage, true
	case strings.HasPrefix(contentType, "video/"):
		return model.MediaKindVideo, true
	default:
		return "", false
	}
}

// Upload はメディアファイルを保存し、公開URLを返す。
// Content-Typeがimage/*・video/*以外ならUNSUPPORTED_MEDIA_TYPE、
// サイズ上限超過ならMEDIA_TOO_LARGEを返す。
// キーは種別プレフィックス＋UUIDで採番し、元のファイル名は保持しない。
func (s *Service) Upload(ctx context.Context, userID, contentType string, r io.Reader) (*UploadResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	kind, ok := kindForContentType(contentType)
	if !ok {
		return nil, model.NewUnsupportedMediaTypeError(contentType)
	}

	key := kind.KeyPrefix() + uuid.New().String()

	// 上限+1バイトまで読み、超過を検出する
	limited := io.LimitReader(r, s.config.MaxSizeBytes+1)
	size, err := s.blobs.Save(ctx, key, limited)
	if err != nil {
		return nil, fmt.Errorf("failed to save blob: %w", err)
	}

	if size > s.config.MaxSizeBytes {
		if err := s.blobs.Delete(ctx, key); err != nil {
			slog.Warn("failed to remove oversized blob",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		return nil, model.NewMediaTooLargeError(s.config.MaxSizeBytes)
	}

	asset := &model.MediaAsset{
		Key:         key,
		UserID:      userID,
		ContentType: contentType,
		SizeBytes:   size,
		CreatedAt:   time.Now(),
	}

	if err := s.assetRepo.Create(ctx, asset); err != nil {
		// メタデータ登録に失敗したブロブは残さない（ベストエフォート）
		if rmErr := s.blobs.Delete(ctx, key); rmErr != nil {
			slog.Warn("failed to remove orphan blob",
				slog.String("key", key),
				slog.String("error", rmErr.Error()),
			)
		}
		return nil, fmt.Errorf("failed to create media asset: %w", err)
	}

	slog.Info("media uploaded",
		slog.String("key", key),
		slog.String("user_id", userID),
		slog.String("content_type", contentType),
		slog.Int64("size_bytes", size),
	)

	return &UploadResult{
		Key:       key,
		URL:       s.PublicURL(key),
		SizeBytes: size,
	}, nil
}

// Fetch は指定キーのメディアを読み取り用に開く。
// メタデータまたはブロブが存在しない場合はASSET_NOT_FOUNDを返す。
func (s *Service) Fetch(ctx context.Context, key string) (*model.MediaAsset, io.ReadCloser, error) {
	asset, err := s.assetRepo.FindByKey(ctx, key)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find media asset: %w", err)
	}
	if asset == nil {
		return nil, nil, model.NewAssetNotFoundError(key)
	}

	rc, err := s.blobs.Open(ctx, key)
	if err != nil {
		if err == storage.ErrBlobNotFound {
			return nil, nil, model.NewAssetNotFoundError(key)
		}
		return nil, nil, fmt.Errorf("failed to open blob: %w", err)
	}

	return asset, rc, nil
}

// PublicURL はキーに対応する公開URLを返す。
func (s *Service) PublicURL(key string) string {
	return strings.TrimSuffix(s.config.BaseURL, "/") + "/media/" + key
}
