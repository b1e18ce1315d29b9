package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/hotel"
)

type hotelRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Location  *string   `db:"location"`
	CreatedAt time.Time `db:"created_at"`
}

func (r *hotelRow) toEntity() *hotel.Hotel {
	var location string
	if r.Location != nil {
		location = *r.Location
	}
	return &hotel.Hotel{ID: r.ID, Name: r.Name, Location: location, CreatedAt: r.CreatedAt}
}

// HotelRepository はホテルリポジトリのPostgreSQL実装
type HotelRepository struct{ db *sqlx.DB }

func NewHotelRepository(db *sqlx.DB) *HotelRepository { return &HotelRepository{db: db} }

func (r *HotelRepository) GetByID(ctx context.Context, id string) (*hotel.Hotel, error) {
	var row hotelRow
	if err := r.db.GetContext(ctx, &row, `SELECT id, name, location, created_at FROM hotels WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return nil, hotel.ErrHotelNotFound
		}
		return nil, fmt.Errorf("ホテル取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

var _ hotel.Repository = (*HotelRepository)(nil)
