package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"bookstore-api/internal/domain"
	"bookstore-api/pkg/utils"
)

type seedUser struct {
	username string
	email    string
	role     string
}

var seedUsers = []seedUser{
	{"admin", "admin@bookstore.com", domain.RoleAdministrator},
	{"customer1", "customer1@gmail.com", domain.RoleCustomer},
	{"customer2", "customer2@gmail.com", domain.RoleCustomer},
}

// Seed 初始化角色和默认账号，可重复执行
func Seed(ctx context.Context, users domain.UserRepository, password string, l *zap.Logger) error {
	if password == "" {
		return errors.New("seed password is empty")
	}
	repo := users.WithContext(ctx)

	for _, name := range []string{domain.RoleAdministrator, domain.RoleCustomer} {
		ok, err := repo.RoleExists(name)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if err := repo.CreateRole(name); err != nil {
			return fmt.Errorf("create role %s: %w", name, err)
		}
		l.Info("role seeded", zap.String("role", name))
	}

	for _, su := range seedUsers {
		existing, err := repo.FindByEmail(su.email)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		if _, err := CreateUser(ctx, users, su.username, su.email, password, su.role); err != nil {
			return err
		}
		l.Info("user seeded", zap.String("username", su.username), zap.String("role", su.role))
	}
	return nil
}

// CreateUser 创建用户并加入角色（role 为空则不加）
func CreateUser(ctx context.Context, users domain.UserRepository, username, email, password, role string) (*domain.User, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{Username: username, Email: email, PasswordHash: hash}
	if err := users.WithContext(ctx).CreateWithRole(u, role); err != nil {
		return nil, err
	}
	return u, nil
}
