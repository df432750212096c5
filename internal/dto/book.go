package dto

import "bookstore-api/internal/domain"

type Book struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Year     int     `json:"year,omitempty"`
	ISBN     string  `json:"isbn"`
	Summary  string  `json:"summary,omitempty"`
	Image    string  `json:"image,omitempty"`
	Price    float64 `json:"price"`
	AuthorID int     `json:"authorId"`
	Author   *Author `json:"author,omitempty"`
}

type BookCreate struct {
	Title    string  `json:"title"    binding:"required,max=100"`
	Year     int     `json:"year"     binding:"omitempty,min=1000,max=9999"`
	ISBN     string  `json:"isbn"     binding:"required,max=32"`
	Summary  string  `json:"summary"  binding:"omitempty,max=500"`
	Image    string  `json:"image"    binding:"omitempty,max=255"`
	Price    float64 `json:"price"    binding:"gte=0"`
	AuthorID int     `json:"authorId" binding:"required,gt=0"`
}

type BookUpdate struct {
	ID       int     `json:"id"       binding:"required,gt=0"`
	Title    string  `json:"title"    binding:"required,max=100"`
	Year     int     `json:"year"     binding:"omitempty,min=1000,max=9999"`
	ISBN     string  `json:"isbn"     binding:"required,max=32"`
	Summary  string  `json:"summary"  binding:"omitempty,max=500"`
	Image    string  `json:"image"    binding:"omitempty,max=255"`
	Price    float64 `json:"price"    binding:"gte=0"`
	AuthorID int     `json:"authorId" binding:"required,gt=0"`
}

func BookFromEntity(b *domain.Book) Book {
	out := Book{
		ID:       b.ID,
		Title:    b.Title,
		Year:     b.Year,
		ISBN:     b.ISBN,
		Summary:  b.Summary,
		Image:    b.Image,
		Price:    b.Price,
		AuthorID: b.AuthorID,
	}
	// 只带一层，避免作者 → 图书 → 作者循环
	if b.Author != nil {
		out.Author = &Author{ID: b.Author.ID, Name: b.Author.Name, Bio: b.Author.Bio}
	}
	return out
}

func BooksFromEntities(bs []domain.Book) []Book {
	out := make([]Book, 0, len(bs))
	for i := range bs {
		out = append(out, BookFromEntity(&bs[i]))
	}
	return out
}

func (in BookCreate) ToEntity() *domain.Book {
	return &domain.Book{
		Title:    in.Title,
		Year:     in.Year,
		ISBN:     in.ISBN,
		Summary:  in.Summary,
		Image:    in.Image,
		Price:    in.Price,
		AuthorID: in.AuthorID,
	}
}

func (in BookUpdate) ToEntity() *domain.Book {
	return &domain.Book{
		ID:       in.ID,
		Title:    in.Title,
		Year:     in.Year,
		ISBN:     in.ISBN,
		Summary:  in.Summary,
		Image:    in.Image,
		Price:    in.Price,
		AuthorID: in.AuthorID,
	}
}

func BookToUpdate(b *domain.Book) BookUpdate {
	return BookUpdate{
		ID:       b.ID,
		Title:    b.Title,
		Year:     b.Year,
		ISBN:     b.ISBN,
		Summary:  b.Summary,
		Image:    b.Image,
		Price:    b.Price,
		AuthorID: b.AuthorID,
	}
}
