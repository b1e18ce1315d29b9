package reservation

import (
	"strings"
	"time"
)

// Reservation は予約エンティティを表す
// RoomNumber, HotelName, Username, NightlyRate は作成時点の値を複製したもの
type Reservation struct {
	ID          string
	Number      string
	UserID      string
	Username    string
	RoomID      string
	RoomNumber  string
	HotelName   string
	Period      Period
	Status      Status
	NightlyRate int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewReservation は保留中の新しい予約を作成する
func NewReservation(number, userID, username, roomID, roomNumber, hotelName string, period Period, nightlyRate int) *Reservation {
	now := time.Now()
	return &Reservation{
		Number:      number,
		UserID:      userID,
		Username:    username,
		RoomID:      roomID,
		RoomNumber:  roomNumber,
		HotelName:   hotelName,
		Period:      period,
		Status:      StatusPending,
		NightlyRate: nightlyRate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsCancelled は予約がキャンセル済みかを返す
func (r *Reservation) IsCancelled() bool {
	return r.Status == StatusCancelled
}

// IsHeldBy は userID が予約者本人かを返す
func (r *Reservation) IsHeldBy(userID string) bool {
	return userID != "" && r.UserID == userID
}

// Validate は予約の検証を行う
func (r *Reservation) Validate() error {
	if r.Number == "" {
		return ErrNumberRequired
	}
	if r.UserID == "" {
		return ErrUserIDRequired
	}
	if r.RoomID == "" {
		return ErrRoomIDRequired
	}
	if r.NightlyRate < 0 {
		return ErrInvalidNightlyRate
	}
	return r.Period.Validate()
}

// Request は予約作成の入力値
type Request struct {
	RoomID string
	UserID string
	Period Period
}

// ValidateRequest は予約作成前の入力チェックを行う
// チェック順: 部屋ID, ユーザーID, 日付の有無, 過去日付, 期間の前後
func ValidateRequest(req Request, today time.Time) error {
	if strings.TrimSpace(req.RoomID) == "" {
		return ErrRoomIDRequired
	}
	if strings.TrimSpace(req.UserID) == "" {
		return ErrUserIDRequired
	}
	if req.Period.From.IsZero() {
		return ErrFromDateRequired
	}
	if req.Period.To.IsZero() {
		return ErrToDateRequired
	}
	if Date(req.Period.From).Before(Date(today)) {
		return ErrFromDateInPast
	}
	if Date(req.Period.From).After(Date(req.Period.To)) {
		return ErrInvalidPeriod
	}
	return nil
}
