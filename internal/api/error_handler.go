package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-hotel-reservation/internal/pkg/apperr"
	"github.com/sanosuguru/go-hotel-reservation/internal/pkg/logger"
)

const internalErrorMessage = "内部サーバーエラー"

// ErrorResponse はエラーレスポンスの統一フォーマット
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"`
	Kind  string `json:"kind,omitempty"`
	Field string `json:"field,omitempty"`
}

// StatusCode はエラーに対応する HTTP ステータスを返す
func StatusCode(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// NewErrorResponse はエラーからレスポンスを組み立てる
// 種別の無いエラーはメッセージを返さない
func NewErrorResponse(err error) ErrorResponse {
	code := StatusCode(err)
	resp := ErrorResponse{Error: internalErrorMessage, Code: code}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if m, ok := he.Message.(string); ok {
			resp.Error = m
		} else {
			resp.Error = http.StatusText(code)
		}
		return resp
	}

	if msg, ok := apperr.MessageOf(err); ok && code < http.StatusInternalServerError {
		resp.Error = msg
		resp.Kind = string(apperr.KindOf(err))
		resp.Field = apperr.FieldOf(err)
	}
	return resp
}

// CustomHTTPErrorHandler はカスタムエラーハンドラー
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	resp := NewErrorResponse(err)

	// エラーログを出力（5xx エラーの場合）
	if resp.Code >= http.StatusInternalServerError {
		logger.FromContext(c.Request().Context()).Error("サーバーエラー",
			zap.Int("status", resp.Code),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
	}

	var sendErr error
	if c.Request().Method == http.MethodHead {
		sendErr = c.NoContent(resp.Code)
	} else {
		sendErr = c.JSON(resp.Code, resp)
	}
	if sendErr != nil {
		logger.Error("エラーレスポンス送信失敗", zap.Error(sendErr))
	}
}
