package handler

import (
	"context"

	"github.com/sanosuguru/go-hotel-reservation/internal/application"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/user"
)

// ReservationServiceInterface は予約サービスのインターフェース
type ReservationServiceInterface interface {
	CreateReservation(ctx context.Context, input application.CreateReservationInput) (*reservation.Reservation, error)
	GetReservation(ctx context.Context, id string) (*reservation.Reservation, error)
	GetUserReservations(ctx context.Context, userID string) ([]*reservation.Reservation, error)
	ListReservations(ctx context.Context) ([]*reservation.Reservation, error)
	ListReservationsByStatus(ctx context.Context, status string) ([]*reservation.Reservation, error)
	CancelReservation(ctx context.Context, id string, actor user.Actor) (*reservation.Reservation, error)
	DeleteReservation(ctx context.Context, id string, actor user.Actor) error
	GetInvoice(ctx context.Context, id string, actor user.Actor) (*reservation.Invoice, error)
}

var _ ReservationServiceInterface = (*application.ReservationService)(nil)
