package domain

import "time"

type Book struct {
	ID        int     `gorm:"primaryKey;autoIncrement"`
	Title     string  `gorm:"size:100;not null"`
	Year      int     `gorm:"not null;default:0"`
	ISBN      string  `gorm:"column:isbn;size:32;not null;index"`
	Summary   string  `gorm:"size:500"`
	Image     string  `gorm:"size:255"`
	Price     float64 `gorm:"not null;default:0"`
	AuthorID  int     `gorm:"not null;index"`
	Author    *Author `gorm:"foreignKey:AuthorID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Book) TableName() string { return "books" }

// BookRepository 图书仓储
type BookRepository interface {
	Repository[Book]
}
