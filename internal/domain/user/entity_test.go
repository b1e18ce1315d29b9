package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"admin", RoleAdmin},
		{"ROLE_ADMIN", RoleAdmin},
		{" Admin ", RoleAdmin},
		{"user", RoleUser},
		{"ROLE_USER", RoleUser},
		{"", RoleUser},
		{"superuser", RoleUser},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRole(tt.in))
		})
	}
}

func TestActor_CanManage(t *testing.T) {
	tests := []struct {
		name   string
		actor  Actor
		holder string
		want   bool
	}{
		{"本人", Actor{UserID: "u1", Role: RoleUser}, "u1", true},
		{"他人", Actor{UserID: "u2", Role: RoleUser}, "u1", false},
		{"管理者", Actor{UserID: "admin", Role: RoleAdmin}, "u1", true},
		{"ユーザーIDなし", Actor{Role: RoleUser}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.actor.CanManage(tt.holder))
		})
	}
}
