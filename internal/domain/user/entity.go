package user

import "strings"

// Role はユーザーの権限
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole は文字列から Role を得る。"ROLE_ADMIN" 形式も受け付ける
func ParseRole(s string) Role {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "role_")
	if s == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

// User は予約者を表す
type User struct {
	ID       string
	Username string
	Role     Role
}

// Actor は操作を行う認証済みの主体
type Actor struct {
	UserID   string
	Username string
	Role     Role
}

// IsAdmin は管理者かを返す
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanManage は userID が保有する予約を操作できるかを返す
func (a Actor) CanManage(userID string) bool {
	if a.IsAdmin() {
		return true
	}
	return a.UserID != "" && a.UserID == userID
}
