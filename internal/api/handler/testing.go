package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-hotel-reservation/internal/api"
	"github.com/sanosuguru/go-hotel-reservation/internal/api/middleware"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/user"
)

// NewTestEcho はテスト用のEchoインスタンスを作成する
func NewTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	return e
}

// WithActor は認証済みの操作主体をコンテキストに設定する（テスト用）
func WithActor(c echo.Context, actor user.Actor) echo.Context {
	middleware.SetActor(c, actor)
	return c
}
