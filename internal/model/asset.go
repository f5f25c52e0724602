// Package model はドメインモデルを定義する。
package model

import "time"

// MediaKind はアップロードされるメディアの種別を表す。
// ブロブストア上のキー名前空間（images/, videos/）を決定する。
type MediaKind string

const (
	// MediaKindImage は画像アセット。
	MediaKindImage MediaKind = "image"
	// MediaKindVideo は動画アセット。
	MediaKindVideo MediaKind = "video"
)

// KeyPrefix はブロブストア上のキー名前空間を返す。
func (k MediaKind) KeyPrefix() string {
	return string(k) + "s/"
}

// MediaAsset はブロブストアに保存されたメディアのメタデータを表す。
// 実体はKeyで指すブロブストア側に保存される。
type MediaAsset struct {
	Key         string // 例: "images/<uuid>"
	UserID      string
	ContentType string
	SizeBytes   int64
	CreatedAt   time.Time
}
