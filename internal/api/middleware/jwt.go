package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/user"
)

const actorContextKey = "actor"

// Claims はアクセストークンのクレーム
// sub がユーザーID、name がユーザー名、role が権限
type Claims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTAuth は HS256 の Bearer トークンを検証し、操作主体をコンテキストに設定する
func JWTAuth(secret string) echo.MiddlewareFunc {
	key := []byte(secret)
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "認証トークンが必要です")
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			var claims Claims
			tok, err := parser.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
				return key, nil
			})
			if err != nil || !tok.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "認証トークンが無効です")
			}
			if claims.Subject == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "認証トークンにユーザーIDがありません")
			}

			c.Set(actorContextKey, user.Actor{
				UserID:   claims.Subject,
				Username: claims.Name,
				Role:     user.ParseRole(claims.Role),
			})
			return next(c)
		}
	}
}

// RequireRole は指定した権限を持たない操作主体を 403 で拒否する
func RequireRole(role user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := ActorFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "認証が必要です")
			}
			if actor.Role != role {
				return echo.NewHTTPError(http.StatusForbidden, "この操作を行う権限がありません")
			}
			return next(c)
		}
	}
}

// ActorFrom は JWTAuth が設定した操作主体を取り出す
func ActorFrom(c echo.Context) (user.Actor, bool) {
	actor, ok := c.Get(actorContextKey).(user.Actor)
	return actor, ok
}

// SetActor はコンテキストに操作主体を設定する
func SetActor(c echo.Context, actor user.Actor) {
	c.Set(actorContextKey, actor)
}
