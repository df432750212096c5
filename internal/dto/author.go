package dto

import "bookstore-api/internal/domain"

type Author struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Bio   string `json:"bio,omitempty"`
	Books []Book `json:"books,omitempty"`
}

type AuthorCreate struct {
	Name string `json:"name" binding:"required,max=100"`
	Bio  string `json:"bio"  binding:"omitempty,max=250"`
}

type AuthorUpdate struct {
	ID   int    `json:"id"   binding:"required,gt=0"`
	Name string `json:"name" binding:"required,max=100"`
	Bio  string `json:"bio"  binding:"omitempty,max=250"`
}

func AuthorFromEntity(a *domain.Author) Author {
	out := Author{ID: a.ID, Name: a.Name, Bio: a.Bio}
	if len(a.Books) > 0 {
		out.Books = make([]Book, 0, len(a.Books))
		for i := range a.Books {
			out.Books = append(out.Books, BookFromEntity(&a.Books[i]))
		}
	}
	return out
}

func AuthorsFromEntities(as []domain.Author) []Author {
	out := make([]Author, 0, len(as))
	for i := range as {
		out = append(out, AuthorFromEntity(&as[i]))
	}
	return out
}

func (in AuthorCreate) ToEntity() *domain.Author {
	return &domain.Author{Name: in.Name, Bio: in.Bio}
}

func (in AuthorUpdate) ToEntity() *domain.Author {
	return &domain.Author{ID: in.ID, Name: in.Name, Bio: in.Bio}
}

// AuthorToUpdate 实体 → 更新 DTO
func AuthorToUpdate(a *domain.Author) AuthorUpdate {
	return AuthorUpdate{ID: a.ID, Name: a.Name, Bio: a.Bio}
}
