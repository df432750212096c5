package domain

import "time"

type Author struct {
	ID        int    `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"size:100;not null;index"`
	Bio       string `gorm:"size:250"`
	Books     []Book `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Author) TableName() string { return "authors" }

// AuthorRepository 作者仓储
type AuthorRepository interface {
	Repository[Author]
}
