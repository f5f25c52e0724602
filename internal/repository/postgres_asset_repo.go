package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/omoide/internal/model"
)

// PostgresMediaAssetRepo はPostgreSQLを使用したメディアアセットリポジトリ。
type PostgresMediaAssetRepo struct {
	db *sql.DB
}

// NewPostgresMediaAssetRepo はPostgresMediaAssetRepoを生成する。
func NewPostgresMediaAssetRepo(db *sql.DB) *PostgresMediaAssetRepo {
	return &PostgresMediaAssetRepo{db: db}
}

// Create はアセットのメタデータ行を作成する。
func (r *PostgresMediaAssetRepo) Create(ctx context.Context, asset *model.MediaAsset) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO media_assets (key, user_id, content_type, size_bytes, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		asset.Key, asset.UserID, asset.ContentType, asset.SizeBytes, asset.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert media asset: %w", err)
	}
	return nil
}

// FindByKey は指定キーのアセットを取得する。見つからない場合はnilを返す。
func (r *PostgresMediaAssetRepo) FindByKey(ctx context.Context, key string) (*model.MediaAsset, error) {
	asset := &model.MediaAsset{}
	err := r.db.QueryRowContext(ctx,
		`SELECT key, user_id, content_type, size_bytes, created_at
		 FROM media_assets WHERE key = $1`,
		key,
	).Scan(&asset.Key, &asset.UserID, &asset.ContentType, &asset.SizeBytes, &asset.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find media asset: %w", err)
	}

	return asset, nil
}

// ListOlderThan は指定時刻より前に作成されたアセットを返す。
func (r *PostgresMediaAssetRepo) ListOlderThan(ctx context.Context, cutoff time.Time) ([]model.MediaAsset, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT key, user_id, content_type, size_bytes, created_at
		 FROM media_assets
		 WHERE created_at < $1
		 ORDER BY created_at ASC`,
		cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list media assets: %w", err)
	}
	defer rows.Close()

	var assets []model.MediaAsset
	for rows.Next() {
		var a model.MediaAsset
		if err := rows.Scan(&a.Key, &a.UserID, &a.ContentType, &a.SizeBytes, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan media asset row: %w", err)
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate media asset rows: %w", err)
	}

	return assets, nil
}

// DeleteByKey は指定キーのアセット行を削除する。
func (r *PostgresMediaAssetRepo) DeleteByKey(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM media_assets WHERE key = $1`,
		key,
	)
	if err != nil {
		return fmt.Errorf("failed to delete media asset: %w", err)
	}
	return nil
}

// compile-time interface check
var _ MediaAssetRepository = (*PostgresMediaAssetRepo)(nil)
