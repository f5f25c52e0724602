// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, article, memorial, media, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUserNotFound     = "USER_NOT_FOUND"
	ErrCodeWrongPassword    = "WRONG_PASSWORD"
	ErrCodeInvalidEmail     = "INVALID_EMAIL"
	ErrCodeEmailExists      = "EMAIL_EXISTS"
	ErrCodeWeakPassword     = "WEAK_PASSWORD"
	ErrCodePasswordMismatch = "PASSWORD_MISMATCH"

	ErrCodeEmptyTitle       = "EMPTY_TITLE"
	ErrCodeArticleNotFound  = "ARTICLE_NOT_FOUND"
	ErrCodeEmptyDescription = "EMPTY_DESCRIPTION"
	ErrCodeInvalidDate      = "INVALID_DATE"
	ErrCodeInvalidCursor    = "INVALID_CURSOR"

	ErrCodeMediaTooLarge        = "MEDIA_TOO_LARGE"
	ErrCodeUnsupportedMediaType = "UNSUPPORTED_MEDIA_TYPE"
	ErrCodeAssetNotFound        = "ASSET_NOT_FOUND"
)

// NewUserNotFoundError は存在しないユーザーでのサインインエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "存在しないユーザーです。",
		Category: "auth",
		Action:   "メールアドレスを確認するか、サインアップしてください。",
	}
}

// NewWrongPasswordError はパスワード不一致エラーを生成する。
func NewWrongPasswordError() *APIError {
	return &APIError{
		Code:     ErrCodeWrongPassword,
		Message:  "パスワードが正しくありません。",
		Category: "auth",
		Action:   "パスワードを確認して再度お試しください。",
	}
}

// NewInvalidEmailError は無効なメールアドレス形式エラーを生成する。
func NewInvalidEmailError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidEmail,
		Message:  fmt.Sprintf("無効なメールアドレス形式です: %s", email),
		Category: "validation",
		Action:   "正しい形式のメールアドレスを入力してください。",
	}
}

// NewEmailExistsError は登録済みメールアドレスでのサインアップエラーを生成する。
func NewEmailExistsError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailExists,
		Message:  "このメールアドレスは既に登録されています。",
		Category: "auth",
		Action:   "サインインするか、別のメールアドレスを使用してください。",
	}
}

// NewWeakPasswordError はパスワード強度不足エラーを生成する。
func NewWeakPasswordError() *APIError {
	return &APIError{
		Code:     ErrCodeWeakPassword,
		Message:  "パスワードは8文字以上で入力してください。",
		Category: "validation",
		Action:   "8文字以上のパスワードを設定してください。",
	}
}

// NewPasswordMismatchError はパスワード確認の不一致エラーを生成する。
func NewPasswordMismatchError() *APIError {
	return &APIError{
		Code:     ErrCodePasswordMismatch,
		Message:  "入力したパスワードが一致しません。",
		Category: "validation",
		Action:   "パスワードと確認用パスワードに同じ値を入力してください。",
	}
}

// NewEmptyTitleError はタイトル未入力エラーを生成する。
func NewEmptyTitleError() *APIError {
	return &APIError{
		Code:     ErrCodeEmptyTitle,
		Message:  "タイトルを入力してください。",
		Category: "validation",
		Action:   "タイトルを入力してから保存してください。",
	}
}

// NewArticleNotFoundError は記事未検出エラーを生成する。
func NewArticleNotFoundError(articleID string) *APIError {
	return &APIError{
		Code:     ErrCodeArticleNotFound,
		Message:  fmt.Sprintf("指定された記事が見つかりません: %s", articleID),
		Category: "article",
		Action:   "記事IDを確認してください。既に削除されている可能性があります。",
	}
}

// NewEmptyDescriptionError は記念日の説明未入力エラーを生成する。
func NewEmptyDescriptionError() *APIError {
	return &APIError{
		Code:     ErrCodeEmptyDescription,
		Message:  "記念日の説明を入力してください。",
		Category: "validation",
		Action:   "説明と日付を入力してから追加してください。",
	}
}

// NewInvalidDateError は無効な日付エラーを生成する。
func NewInvalidDateError(date string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidDate,
		Message:  fmt.Sprintf("無効な日付です: %s", date),
		Category: "validation",
		Action:   "日付は YYYY-MM-DD 形式で指定してください。",
	}
}

// NewInvalidCursorError は無効なページネーションカーソルエラーを生成する。
func NewInvalidCursorError(cursor string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCursor,
		Message:  fmt.Sprintf("無効なカーソル値です: %s", cursor),
		Category: "validation",
		Action:   "レスポンスのnext_cursorをそのまま指定してください。",
	}
}

// NewMediaTooLargeError はアップロードサイズ超過エラーを生成する。
func NewMediaTooLargeError(maxBytes int64) *APIError {
	return &APIError{
		Code:     ErrCodeMediaTooLarge,
		Message:  fmt.Sprintf("ファイルサイズが上限（%dバイト）を超えています。", maxBytes),
		Category: "media",
		Action:   "ファイルを小さくしてから再度アップロードしてください。",
	}
}

// NewUnsupportedMediaTypeError は非対応メディア種別エラーを生成する。
func NewUnsupportedMediaTypeError(contentType string) *APIError {
	return &APIError{
		Code:     ErrCodeUnsupportedMediaType,
		Message:  fmt.Sprintf("対応していないファイル形式です: %s", contentType),
		Category: "media",
		Action:   "画像（image/*）または動画（video/*）ファイルをアップロードしてください。",
	}
}

// NewAssetNotFoundError はメディアアセット未検出エラーを生成する。
func NewAssetNotFoundError(key string) *APIError {
	return &APIError{
		Code:     ErrCodeAssetNotFound,
		Message:  fmt.Sprintf("指定されたメディアが見つかりません: %s", key),
		Category: "media",
		Action:   "メディアのURLを確認してください。",
	}
}
