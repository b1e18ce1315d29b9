package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/room"
)

type roomRow struct {
	ID            string    `db:"id"`
	HotelID       string    `db:"hotel_id"`
	Number        string    `db:"room_number"`
	Type          string    `db:"room_type"`
	PricePerNight int       `db:"price_per_night"`
	Available     bool      `db:"available"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r *roomRow) toEntity() *room.Room {
	return &room.Room{
		ID:            r.ID,
		HotelID:       r.HotelID,
		Number:        r.Number,
		Type:          r.Type,
		PricePerNight: r.PricePerNight,
		Available:     r.Available,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// RoomRepository は部屋リポジトリのPostgreSQL実装
type RoomRepository struct{ db *sqlx.DB }

func NewRoomRepository(db *sqlx.DB) *RoomRepository { return &RoomRepository{db: db} }

func (r *RoomRepository) GetByID(ctx context.Context, id string) (*room.Room, error) {
	query := `SELECT id, hotel_id, room_number, room_type, price_per_night, available, created_at, updated_at FROM rooms WHERE id = $1`
	var row roomRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return nil, room.ErrRoomNotFound
		}
		return nil, fmt.Errorf("部屋取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

var _ room.Repository = (*RoomRepository)(nil)
