package reservation

import (
	"strings"
	"time"
)

// Status は予約の状態を表す
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ParseStatus は文字列から Status を得る（大文字小文字は区別しない）
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusActive, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// DeriveStatus は今日の日付と宿泊期間から予約の状態を導出する
// キャンセル済みは終端状態なので日付に関係なくそのまま返す
func DeriveStatus(today, from, to time.Time, current Status) Status {
	if current == StatusCancelled {
		return StatusCancelled
	}
	today = Date(today)
	switch {
	case today.Before(Date(from)):
		return StatusPending
	case !today.After(Date(to)):
		return StatusActive
	default:
		return StatusCompleted
	}
}

// Reconcile は today 時点の状態を反映した予約のコピーと、状態が変わったかを返す
// r 自体は変更しない。永続化は呼び出し側が changed を見て行う
func Reconcile(r *Reservation, today time.Time) (*Reservation, bool) {
	next := DeriveStatus(today, r.Period.From, r.Period.To, r.Status)
	cp := *r
	if next == r.Status {
		return &cp, false
	}
	cp.Status = next
	return &cp, true
}
