package repo

import (
	"gorm.io/gorm"

	"bookstore-api/internal/domain"
)

type BookRepo struct {
	*GormRepository[domain.Book]
}

var _ domain.BookRepository = (*BookRepo)(nil)

func NewBookRepo(db *gorm.DB) *BookRepo {
	return &BookRepo{NewGormRepository[domain.Book](db, "Author")}
}
