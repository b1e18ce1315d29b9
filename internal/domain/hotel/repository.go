package hotel

import "context"

// Repository はホテルリポジトリのインターフェース
type Repository interface {
	GetByID(ctx context.Context, id string) (*Hotel, error)
}
