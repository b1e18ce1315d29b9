package room

import "context"

// Repository は部屋リポジトリのインターフェース
type Repository interface {
	// GetByID はIDから部屋を取得する
	GetByID(ctx context.Context, id string) (*Room, error)
}
