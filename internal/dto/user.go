package dto

import (
	"time"

	"bookstore-api/internal/domain"
)

// Login 登录请求；失败时只回显用户名
type Login struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type Token struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

type UserListQuery struct {
	Offset int `form:"offset,default=0" binding:"gte=0"`
	Limit  int `form:"limit,default=20" binding:"gte=0,lte=100"`
}

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserList struct {
	Total int64  `json:"total"`
	Items []User `json:"items"`
}

// UserFromEntity 不带口令哈希
func UserFromEntity(u *domain.User) User {
	return User{ID: u.ID, Username: u.Username, Email: u.Email, Roles: u.RoleNames(), CreatedAt: u.CreatedAt}
}
