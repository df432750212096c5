package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore-api/internal/domain"
)

func TestAuthorRoundTrip(t *testing.T) {
	in := &domain.Author{ID: 7, Name: "Jane Doe", Bio: "novelist"}

	back := AuthorToUpdate(in).ToEntity()

	assert.Equal(t, in.ID, back.ID)
	assert.Equal(t, in.Name, back.Name)
	assert.Equal(t, in.Bio, back.Bio)
}

func TestAuthorCreateLeavesIDUnset(t *testing.T) {
	e := AuthorCreate{Name: "Jane Doe"}.ToEntity()
	assert.Zero(t, e.ID)
	assert.Equal(t, "Jane Doe", e.Name)
	assert.Empty(t, e.Books)
}

func TestAuthorFromEntityWithBooks(t *testing.T) {
	a := &domain.Author{
		ID:   1,
		Name: "Ursula K. Le Guin",
		Books: []domain.Book{
			{ID: 10, Title: "The Dispossessed", ISBN: "978-0061054884", AuthorID: 1},
			{ID: 11, Title: "A Wizard of Earthsea", ISBN: "978-0547773742", AuthorID: 1},
		},
	}

	out := AuthorFromEntity(a)

	require.Len(t, out.Books, 2)
	assert.Equal(t, "The Dispossessed", out.Books[0].Title)
	assert.Equal(t, 1, out.Books[1].AuthorID)
	assert.Nil(t, out.Books[0].Author)
}

func TestAuthorsFromEntitiesEmpty(t *testing.T) {
	out := AuthorsFromEntities(nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestBookRoundTrip(t *testing.T) {
	in := &domain.Book{
		ID:       3,
		Title:    "Dune",
		Year:     1965,
		ISBN:     "978-0441013593",
		Summary:  "desert planet",
		Image:    "dune.jpg",
		Price:    9.99,
		AuthorID: 2,
	}

	back := BookToUpdate(in).ToEntity()

	assert.Equal(t, in.ID, back.ID)
	assert.Equal(t, in.Title, back.Title)
	assert.Equal(t, in.Year, back.Year)
	assert.Equal(t, in.ISBN, back.ISBN)
	assert.Equal(t, in.Summary, back.Summary)
	assert.Equal(t, in.Image, back.Image)
	assert.Equal(t, in.Price, back.Price)
	assert.Equal(t, in.AuthorID, back.AuthorID)
}

func TestBookFromEntityAuthorSummary(t *testing.T) {
	b := &domain.Book{
		ID:       1,
		Title:    "Dune",
		AuthorID: 2,
		Author: &domain.Author{
			ID:    2,
			Name:  "Frank Herbert",
			Books: []domain.Book{{ID: 1}},
		},
	}

	out := BookFromEntity(b)

	require.NotNil(t, out.Author)
	assert.Equal(t, "Frank Herbert", out.Author.Name)
	assert.Empty(t, out.Author.Books)
}
