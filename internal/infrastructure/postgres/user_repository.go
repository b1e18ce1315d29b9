package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/user"
)

type userRow struct {
	ID       string `db:"id"`
	Username string `db:"username"`
	Role     string `db:"role"`
}

// UserRepository はユーザーリポジトリのPostgreSQL実装
type UserRepository struct{ db *sqlx.DB }

func NewUserRepository(db *sqlx.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	var row userRow
	if err := r.db.GetContext(ctx, &row, `SELECT id, username, role FROM users WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("ユーザー取得に失敗: %w", err)
	}
	return &user.User{ID: row.ID, Username: row.Username, Role: user.ParseRole(row.Role)}, nil
}

var _ user.Repository = (*UserRepository)(nil)
