package room

import "time"

// Room は予約対象の部屋を表す
type Room struct {
	ID            string
	HotelID       string
	Number        string
	Type          string
	PricePerNight int
	Available     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsAvailable は部屋が予約を受け付けているかを返す
func (r *Room) IsAvailable() bool {
	return r.Available
}
