package repo

import (
	"gorm.io/gorm"

	"bookstore-api/internal/domain"
)

type AuthorRepo struct {
	*GormRepository[domain.Author]
}

var _ domain.AuthorRepository = (*AuthorRepo)(nil)

// NewAuthorRepo 读取作者时一并带出其图书
func NewAuthorRepo(db *gorm.DB) *AuthorRepo {
	return &AuthorRepo{NewGormRepository[domain.Author](db, "Books")}
}
