package domain

import (
	"context"
	"time"
)

const (
	RoleAdministrator = "Administrator"
	RoleCustomer      = "Customer"
)

type Role struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:64;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Role) TableName() string { return "roles" }

type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash string    `gorm:"size:191;not null" json:"-"`
	Roles        []Role    `gorm:"many2many:user_roles;constraint:OnDelete:CASCADE" json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// RoleNames 角色名列表
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// UserRepository 身份存储（用户、角色、用户-角色关系）
type UserRepository interface {
	WithContext(ctx context.Context) UserRepository

	Create(u *User) error
	CreateWithRole(u *User, role string) error
	FindByID(id string) (*User, error)
	FindByUsername(username string) (*User, error)
	FindByEmail(email string) (*User, error)
	List(offset, limit int) ([]User, int64, error)
	// Roles 读取用户当前角色（不依赖 u.Roles 缓存值）
	Roles(u *User) ([]string, error)
	AddToRole(u *User, role string) error

	RoleExists(name string) (bool, error)
	CreateRole(name string) error
}
