// Package storage はメディアファイルのブロブ永続化を提供する。
package storage

import (
	"context"
	"io"
	"time"
)

// BlobStore はキー指定でブロブを読み書きするインターフェース。
// キーは"images/<id>"のようなスラッシュ区切りの相対パス。
type BlobStore interface {
	// Save はブロブを保存し、書き込んだバイト数を返す。
	Save(ctx context.Context, key string, r io.Reader) (int64, error)

	// Open はブロブを読み取り用に開く。呼び出し側がCloseする。
	// 見つからない場合はErrBlobNotFoundを返す。
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete はブロブを削除する。存在しないキーはエラーにしない。
	Delete(ctx context.Context, key string) error

	// List は指定プレフィックス配下のキー一覧を返す。
	List(ctx context.Context, prefix string) ([]string, error)

	// ModTime はブロブの最終更新時刻を返す。
	// 見つからない場合はErrBlobNotFoundを返す。
	ModTime(ctx context.Context, key string) (time.Time, error)
}
