package reservation

import "github.com/sanosuguru/go-hotel-reservation/internal/pkg/apperr"

// Reservation ドメインのエラー定義
var (
	ErrReservationNotFound        = apperr.NotFound("予約が見つかりません")
	ErrRoomAlreadyReserved        = apperr.Conflict("部屋は指定期間に既に予約されています")
	ErrReservationNumberExhausted = apperr.Conflict("予約番号の生成に失敗しました。再度お試しください")
	ErrNotReservationOwner        = apperr.Forbidden("この予約を操作する権限がありません")
	ErrRoomIDRequired             = apperr.Validation("room_id", "部屋IDは必須です")
	ErrUserIDRequired             = apperr.Validation("user_id", "ユーザーIDは必須です")
	ErrReservationIDRequired      = apperr.Validation("id", "予約IDは必須です")
	ErrNumberRequired             = apperr.Validation("reservation_number", "予約番号は必須です")
	ErrFromDateRequired           = apperr.Validation("from_date", "チェックイン日は必須です")
	ErrToDateRequired             = apperr.Validation("to_date", "チェックアウト日は必須です")
	ErrFromDateInPast             = apperr.Validation("from_date", "過去の日付は予約できません。今日以降の日付を指定してください")
	ErrInvalidPeriod              = apperr.Validation("to_date", "チェックイン日はチェックアウト日以前である必要があります")
	ErrInvalidNightlyRate         = apperr.Validation("nightly_rate", "料金は0以上である必要があります")
	ErrInvalidStatus              = apperr.Validation("status", "不正な予約ステータスです")
)
