package reservation

import (
	"context"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/transaction"
)

// Repository は予約リポジトリのインターフェース
type Repository interface {
	// Create は新しい予約を作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, reservation *Reservation) error

	// LockRoom は部屋単位のトランザクションロックを取得する（トランザクション終了で解放）
	LockRoom(ctx context.Context, tx transaction.Tx, roomID string) error

	// FindOverlapping は部屋の期間が重なるキャンセル以外の予約を取得する（トランザクション必須）
	FindOverlapping(ctx context.Context, tx transaction.Tx, roomID string, period Period) ([]*Reservation, error)

	// ExistsByNumber は予約番号が使用済みかを返す（キャンセル済みの予約も含む）
	ExistsByNumber(ctx context.Context, number string) (bool, error)

	// GetByID はIDから予約を取得する
	GetByID(ctx context.Context, id string) (*Reservation, error)

	// GetByUserID はユーザーIDから予約一覧を取得する
	GetByUserID(ctx context.Context, userID string) ([]*Reservation, error)

	// List は全予約を取得する
	List(ctx context.Context) ([]*Reservation, error)

	// UpdateStatus は状態を更新する。キャンセル済みの行は更新しない
	// 更新できた場合は true を返す
	UpdateStatus(ctx context.Context, id string, status Status) (bool, error)

	// Delete は予約を削除する
	Delete(ctx context.Context, id string) error
}
