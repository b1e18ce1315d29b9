package user

import "context"

// Repository はユーザーリポジトリのインターフェース
type Repository interface {
	GetByID(ctx context.Context, id string) (*User, error)
}
