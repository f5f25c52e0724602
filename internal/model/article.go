// Package model はドメインモデルを定義する。
package model

import "time"

// Article は追悼記事を表す。
// ContentはQuillエディタ由来のリッチHTMLで、保存時にサニタイズ済み。
// 更新は上書きでバージョン履歴は保持しない。
type Article struct {
	ID        string
	UserID    string
	Title     string
	Content   string // サニタイズ済みHTML
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ArticleWithAuthor は記事と著者名を結合したモデル。
// usersテーブルとJOINして取得される。
type ArticleWithAuthor struct {
	Article
	AuthorName string
}
