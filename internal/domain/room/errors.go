package room

import "github.com/sanosuguru/go-hotel-reservation/internal/pkg/apperr"

// Room ドメインのエラー定義
var (
	ErrRoomNotFound     = apperr.NotFound("部屋が見つかりません")
	ErrRoomNotAvailable = apperr.Conflict("部屋は現在予約を受け付けていません")
)
