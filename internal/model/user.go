// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// サインアップ完了時に作成され、アプリ内で変更・削除されることはない。
type User struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Credential はユーザーのパスワード認証情報を表す。
// password_hashはbcryptハッシュで、平文パスワードは保持しない。
type Credential struct {
	ID           string
	UserID       string
	PasswordHash string
	CreatedAt    time.Time
}

// Session はユーザーのログインセッションを表す。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
