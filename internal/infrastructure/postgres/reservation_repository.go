package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/transaction"
)

// PostgreSQL のエラーコード
const (
	pqUniqueViolation    = "23505"
	pqExclusionViolation = "23P01"
	pqInvalidText        = "22P02"
)

// isInvalidID は uuid として解釈できない ID によるエラーかを返す
// 呼び出し側では存在しない行と同じ扱いにする
func isInvalidID(err error) bool {
	var pgErr *pq.Error
	return errors.As(err, &pgErr) && pgErr.Code == pqInvalidText
}

const reservationColumns = `id, reservation_number, user_id, username, room_id, room_number, hotel_name,
	from_date, to_date, status, nightly_rate, created_at, updated_at`

type reservationRow struct {
	ID          string    `db:"id"`
	Number      string    `db:"reservation_number"`
	UserID      string    `db:"user_id"`
	Username    string    `db:"username"`
	RoomID      string    `db:"room_id"`
	RoomNumber  string    `db:"room_number"`
	HotelName   string    `db:"hotel_name"`
	FromDate    time.Time `db:"from_date"`
	ToDate      time.Time `db:"to_date"`
	Status      string    `db:"status"`
	NightlyRate int       `db:"nightly_rate"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r *reservationRow) toEntity() *reservation.Reservation {
	return &reservation.Reservation{
		ID:          r.ID,
		Number:      r.Number,
		UserID:      r.UserID,
		Username:    r.Username,
		RoomID:      r.RoomID,
		RoomNumber:  r.RoomNumber,
		HotelName:   r.HotelName,
		Period:      reservation.NewPeriod(r.FromDate, r.ToDate),
		Status:      reservation.Status(r.Status),
		NightlyRate: r.NightlyRate,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toEntities(rows []reservationRow) []*reservation.Reservation {
	result := make([]*reservation.Reservation, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result
}

// ReservationRepository は予約リポジトリのPostgreSQL実装
type ReservationRepository struct{ db *sqlx.DB }

func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Create は予約を INSERT し、採番された ID を res に設定する
// 排他制約違反は ErrRoomAlreadyReserved、予約番号の重複は ErrReservationNumberExhausted に変換する
func (r *ReservationRepository) Create(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	sqlxTx, err := UnwrapTx(tx)
	if err != nil {
		return err
	}
	query := `INSERT INTO reservations
		(reservation_number, user_id, username, room_id, room_number, hotel_name, from_date, to_date, status, nightly_rate, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	err = sqlxTx.QueryRowContext(ctx, query,
		res.Number, res.UserID, res.Username, res.RoomID, res.RoomNumber, res.HotelName,
		res.Period.From, res.Period.To, string(res.Status), res.NightlyRate, res.CreatedAt, res.UpdatedAt,
	).Scan(&res.ID)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pqExclusionViolation:
				return reservation.ErrRoomAlreadyReserved
			case pqUniqueViolation:
				return reservation.ErrReservationNumberExhausted
			}
		}
		return fmt.Errorf("予約作成に失敗: %w", err)
	}
	return nil
}

// LockRoom は部屋IDをキーにトランザクション単位の advisory lock を取得する
func (r *ReservationRepository) LockRoom(ctx context.Context, tx transaction.Tx, roomID string) error {
	sqlxTx, err := UnwrapTx(tx)
	if err != nil {
		return err
	}
	if _, err := sqlxTx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "room:"+roomID); err != nil {
		return fmt.Errorf("部屋ロック取得に失敗: %w", err)
	}
	return nil
}

// FindOverlapping は閉区間 [from, to] と重なるキャンセル以外の予約を返す
func (r *ReservationRepository) FindOverlapping(ctx context.Context, tx transaction.Tx, roomID string, p reservation.Period) ([]*reservation.Reservation, error) {
	sqlxTx, err := UnwrapTx(tx)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + reservationColumns + ` FROM reservations
		WHERE room_id = $1 AND from_date <= $2 AND to_date >= $3 AND status <> 'cancelled'
		ORDER BY from_date`
	var rows []reservationRow
	if err := sqlxTx.SelectContext(ctx, &rows, query, roomID, p.To, p.From); err != nil {
		return nil, fmt.Errorf("重複予約の検索に失敗: %w", err)
	}
	return toEntities(rows), nil
}

func (r *ReservationRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM reservations WHERE reservation_number = $1)`, number); err != nil {
		return false, fmt.Errorf("予約番号の確認に失敗: %w", err)
	}
	return exists, nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	var row reservationRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservation.ErrReservationNotFound
		}
		if isInvalidID(err) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *ReservationRepository) GetByUserID(ctx context.Context, userID string) ([]*reservation.Reservation, error) {
	var rows []reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE user_id = $1 ORDER BY from_date, created_at`
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	return toEntities(rows), nil
}

func (r *ReservationRepository) List(ctx context.Context) ([]*reservation.Reservation, error) {
	var rows []reservationRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+reservationColumns+` FROM reservations ORDER BY from_date, created_at`); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	return toEntities(rows), nil
}

// UpdateStatus はキャンセル済みでない行の状態だけを更新する
func (r *ReservationRepository) UpdateStatus(ctx context.Context, id string, status reservation.Status) (bool, error) {
	query := `UPDATE reservations SET status = $1, updated_at = NOW() WHERE id = $2 AND status <> 'cancelled'`
	result, err := r.db.ExecContext(ctx, query, string(status), id)
	if err != nil {
		return false, fmt.Errorf("予約状態の更新に失敗: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("更新結果の確認に失敗: %w", err)
	}
	return rows > 0, nil
}

func (r *ReservationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		if isInvalidID(err) {
			return reservation.ErrReservationNotFound
		}
		return fmt.Errorf("予約削除に失敗: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の確認に失敗: %w", err)
	}
	if rows == 0 {
		return reservation.ErrReservationNotFound
	}
	return nil
}

var _ reservation.Repository = (*ReservationRepository)(nil)
