// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContentSanitizerService は追悼記事のリッチHTMLを保存前にサニタイズし、
// XSS攻撃などのセキュリティリスクからユーザーを保護する。
// bluemondayライブラリを使用した許可リストベースのポリシーで、
// Quillエディタが出力するタグと属性のみを通過させる。
// 保存済みHTMLをそのままレンダリングする一覧ビューの安全性は
// この書き込み時サニタイズが担保する。
package security

import (
	"net/url"

	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizerService はHTMLコンテンツのサニタイズ機能のインターフェースを定義する。
// 記事の保存・更新前に使用される。
type ContentSanitizerService interface {
	// Sanitize はHTMLコンテンツをサニタイズして安全なHTMLを返す。
	// 許可タグ（h1, h2, p, br, a, ul, ol, li, blockquote, pre, code,
	// strong, em, u, s, img, video）のみを通過させ、
	// script, iframe, styleタグおよびon*イベント属性を除去する。
	// imgとvideoのsrc属性はhttp/httpsスキームのみ許可される。
	// aタグにはtarget="_blank"とrel="noopener noreferrer"が自動付与される。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(rawHTML string) string
}

// contentSanitizer はContentSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type contentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerServiceの新しいインスタンスを生成する。
// 初期化時にQuillエディタのツールバー構成（見出し、リスト、装飾、
// 画像・動画・リンク埋め込み）に対応したbluemondayポリシーを構築する。
func NewContentSanitizer() *contentSanitizer {
	p := bluemonday.NewPolicy()

	// Quillのツールバーが生成するタグ: header 1/2、リスト、装飾
	// script, iframe, style等は許可リストに含めないことで自動的に除去される
	// on*イベント属性はbluemondayのデフォルトで許可されないため除去される
	p.AllowElements(
		"h1", "h2", "p", "br", "ul", "ol", "li",
		"blockquote", "pre", "code",
		"strong", "em", "u", "s",
	)

	// aタグ:
	// - href属性を許可、相対URLは不許可
	// - target="_blank"とrel="noreferrer noopener"を強制付与
	p.AllowAttrs("href").OnElements("a")
	p.AllowRelativeURLs(false)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)

	// img/videoタグ:
	// - src属性はhttp/httpsスキームのみ許可（javascript, data等は拒否）
	//   メディアURLはBASE_URL由来のため、開発環境のhttpも通す
	// - imgのalt属性を許可（アクセシビリティ確保）
	// - videoのcontrols属性を許可
	p.AllowAttrs("src").OnElements("img", "video")
	p.AllowAttrs("alt").OnElements("img")
	p.AllowAttrs("controls").OnElements("video")
	p.AllowURLSchemeWithCustomPolicy("https", func(u *url.URL) bool {
		return true
	})
	p.AllowURLSchemeWithCustomPolicy("http", func(u *url.URL) bool {
		return true
	})

	return &contentSanitizer{
		policy: p,
	}
}

// Sanitize はHTMLコンテンツをサニタイズして安全なHTMLを返す。
func (s *contentSanitizer) Sanitize(rawHTML string) string {
	return s.policy.Sanitize(rawHTML)
}
