package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bookstore-api/internal/domain"
	"bookstore-api/pkg/utils"
)

var ErrRoleNotFound = errors.New("role not found")

type UserRepo struct{ db *gorm.DB }

var _ domain.UserRepository = (*UserRepo)(nil)

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) WithContext(ctx context.Context) domain.UserRepository {
	return &UserRepo{db: r.db.WithContext(ctx)}
}

func (r *UserRepo) Create(u *domain.User) error {
	if u.ID == "" {
		u.ID = utils.NewID()
	}
	if err := r.db.Omit(clause.Associations).Create(u).Error; err != nil {
		return fmt.Errorf("create user %s: %w", u.Username, err)
	}
	return nil
}

// CreateWithRole 建用户与授角色在同一事务内，角色不存在时整体回滚
func (r *UserRepo) CreateWithRole(u *domain.User, role string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txr := &UserRepo{db: tx}
		if err := txr.Create(u); err != nil {
			return err
		}
		if role == "" {
			return nil
		}
		return txr.AddToRole(u, role)
	})
}

func (r *UserRepo) FindByID(id string) (*domain.User, error) {
	return r.first("id = ?", id)
}

func (r *UserRepo) FindByUsername(username string) (*domain.User, error) {
	return r.first("username = ?", username)
}

func (r *UserRepo) FindByEmail(email string) (*domain.User, error) {
	return r.first("email = ?", email)
}

func (r *UserRepo) first(cond string, arg any) (*domain.User, error) {
	var u domain.User
	err := r.db.Preload("Roles").Where(cond, arg).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) List(offset, limit int) ([]domain.User, int64, error) {
	var users []domain.User
	tx := r.db.Model(&domain.User{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := tx.Preload("Roles").Offset(offset).Limit(limit).Order("created_at desc").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepo) Roles(u *domain.User) ([]string, error) {
	var roles []domain.Role
	if err := r.db.Model(u).Association("Roles").Find(&roles); err != nil {
		return nil, fmt.Errorf("roles of %s: %w", u.Username, err)
	}
	names := make([]string, 0, len(roles))
	for _, ro := range roles {
		names = append(names, ro.Name)
	}
	return names, nil
}

func (r *UserRepo) AddToRole(u *domain.User, role string) error {
	var ro domain.Role
	err := r.db.Where("name = ?", role).First(&ro).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrRoleNotFound, role)
	}
	if err != nil {
		return err
	}
	if err := r.db.Model(u).Association("Roles").Append(&ro); err != nil {
		return fmt.Errorf("add %s to %s: %w", u.Username, role, err)
	}
	return nil
}

func (r *UserRepo) RoleExists(name string) (bool, error) {
	var n int64
	if err := r.db.Model(&domain.Role{}).Where("name = ?", name).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *UserRepo) CreateRole(name string) error {
	return r.db.Create(&domain.Role{Name: name}).Error
}
