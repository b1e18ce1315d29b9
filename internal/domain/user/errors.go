package user

import "github.com/sanosuguru/go-hotel-reservation/internal/pkg/apperr"

var ErrUserNotFound = apperr.NotFound("ユーザーが見つかりません")
