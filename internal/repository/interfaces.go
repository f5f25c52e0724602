// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/omoide/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// CreateWithCredential はユーザーとパスワード認証情報を同一トランザクションで作成する。
	CreateWithCredential(ctx context.Context, user *model.User, credential *model.Credential) error
}

// CredentialRepository はパスワード認証情報の永続化インターフェース。
type CredentialRepository interface {
	// FindByUserID は指定ユーザーの認証情報を取得する。見つからない場合はnilを返す。
	FindByUserID(ctx context.Context, userID string) (*model.Credential, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// ArticleRepository は追悼記事の永続化インターフェース。
type ArticleRepository interface {
	// Create は記事を作成する。
	Create(ctx context.Context, article *model.Article) error

	// FindByID は指定IDの記事を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Article, error)

	// List は記事一覧を著者名付きでcreated_at降順に取得する。
	// カーソルベースページネーションを使用し、cursorがゼロ値の場合は先頭から取得する。
	List(ctx context.Context, cursor time.Time, limit int) ([]model.ArticleWithAuthor, error)

	// Update は指定IDの記事のタイトルと本文を上書き更新する。履歴は保持しない。
	Update(ctx context.Context, id, title, content string) error

	// Delete は指定IDの記事を削除する。該当行がない場合はエラーを返す。
	Delete(ctx context.Context, id string) error

	// ListContents は全記事の本文HTMLを返す。孤立メディア掃除用。
	ListContents(ctx context.Context) ([]string, error)
}

// MemorialRepository は追悼記念日の永続化インターフェース。
type MemorialRepository interface {
	// Create は記念日レコードを作成する。
	Create(ctx context.Context, memorial *model.Memorial) error

	// List は記念日一覧をcreated_at昇順に取得する。
	// カーソルベースページネーションを使用し、cursorがゼロ値の場合は先頭から取得する。
	List(ctx context.Context, cursor time.Time, limit int) ([]model.Memorial, error)
}

// MediaAssetRepository はメディアアセットのメタデータ永続化インターフェース。
type MediaAssetRepository interface {
	// Create はアセットのメタデータ行を作成する。
	Create(ctx context.Context, asset *model.MediaAsset) error

	// FindByKey は指定キーのアセットを取得する。見つからない場合はnilを返す。
	FindByKey(ctx context.Context, key string) (*model.MediaAsset, error)

	// ListOlderThan は指定時刻より前に作成されたアセットを返す。掃除対象の列挙用。
	ListOlderThan(ctx context.Context, cutoff time.Time) ([]model.MediaAsset, error)

	// DeleteByKey は指定キーのアセット行を削除する。
	DeleteByKey(ctx context.Context, key string) error
}
