package application

import (
	"context"
	"time"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/reservation"
)

// ライフサイクルイベントのルーティングキー
const (
	EventReservationCreated   = "reservation.created"
	EventReservationCancelled = "reservation.cancelled"
	EventReservationDeleted   = "reservation.deleted"
)

// EventPublisher はイベントをブローカーへ送る
type EventPublisher interface {
	PublishJSON(ctx context.Context, routingKey string, v any) error
}

// ReservationEvent はブローカーへ送るイベント本文
type ReservationEvent struct {
	Type              string    `json:"type"`
	ReservationID     string    `json:"reservation_id"`
	ReservationNumber string    `json:"reservation_number"`
	UserID            string    `json:"user_id"`
	RoomID            string    `json:"room_id"`
	FromDate          string    `json:"from_date"`
	ToDate            string    `json:"to_date"`
	Status            string    `json:"status"`
	OccurredAt        time.Time `json:"occurred_at"`
}

func newReservationEvent(eventType string, r *reservation.Reservation, at time.Time) ReservationEvent {
	return ReservationEvent{
		Type:              eventType,
		ReservationID:     r.ID,
		ReservationNumber: r.Number,
		UserID:            r.UserID,
		RoomID:            r.RoomID,
		FromDate:          r.Period.From.Format(reservation.DateLayout),
		ToDate:            r.Period.To.Format(reservation.DateLayout),
		Status:            string(r.Status),
		OccurredAt:        at.UTC(),
	}
}
