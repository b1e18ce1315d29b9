// Package apperr はドメインエラーの種別を表す
// API 層は Kind を見て HTTP ステータスへ変換する（文字列比較はしない）
package apperr

import "errors"

// Kind はエラーの種別
type Kind string

const (
	KindInternal   Kind = "internal"
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindForbidden  Kind = "forbidden"
)

// Error は種別付きのドメインエラー
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation は入力不正エラーを作成する（field は問題のある入力項目名）
func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

// NotFound は対象が存在しないエラーを作成する
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict は状態の競合エラーを作成する
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Forbidden は権限不足エラーを作成する
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// Wrap は sentinel を原因として保持したまま、メッセージを差し替えたエラーを返す
// errors.Is(wrapped, sentinel) は true のまま
func Wrap(sentinel *Error, message string) *Error {
	return &Error{Kind: sentinel.Kind, Field: sentinel.Field, Message: message, Err: sentinel}
}

// KindOf はエラーチェーンから種別を取り出す。種別が無ければ KindInternal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// FieldOf はバリデーションエラーの項目名を返す
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}

// MessageOf は利用者に返してよいメッセージを返す
// 種別の無いエラーは内部情報を含みうるので ok=false
func MessageOf(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Message, true
	}
	return "", false
}
